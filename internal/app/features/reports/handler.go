// internal/app/features/reports/handler.go
package reports

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/modulecredits/internal/app/features/errors"
	recordstore "github.com/dalemusser/modulecredits/internal/app/store/records"
	"github.com/dalemusser/modulecredits/internal/app/system/progress"
	"github.com/dalemusser/modulecredits/internal/app/system/timeouts"
	"github.com/dalemusser/modulecredits/internal/domain/models"
	"go.uber.org/zap"
)

// Handler owns the progress exports (CSV downloads + JSON API).
//
// Like the HTML report it reads a fresh snapshot of the store on every
// request and evaluates it; nothing is cached.
type Handler struct {
	Store  recordstore.Store
	Rules  models.GroupRules
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	now func() time.Time
}

func NewHandler(store recordstore.Store, rules models.GroupRules, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  store,
		Rules:  rules,
		Log:    logger,
		ErrLog: errLog,
		now:    time.Now,
	}
}

// snapshot loads every record (latest first) and evaluates it.
func (h *Handler) snapshot(ctx context.Context, op string) ([]models.ModuleRecord, progress.Report, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), h.Log, op)
	defer cancel()

	recs, err := h.Store.All(ctx)
	if err != nil {
		return nil, progress.Report{}, err
	}
	return recs, progress.Evaluate(recs, h.Rules), nil
}
