// internal/app/features/records/handler.go
package records

import (
	uierrors "github.com/dalemusser/modulecredits/internal/app/features/errors"
	recordstore "github.com/dalemusser/modulecredits/internal/app/store/records"
	"github.com/dalemusser/modulecredits/internal/app/system/flash"
	"github.com/dalemusser/modulecredits/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves record submission, the progress report and the record list.
type Handler struct {
	Store       recordstore.Store
	Rules       models.GroupRules
	Flash       *flash.Manager
	MaxUploadMB int
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
}

func NewHandler(store recordstore.Store, rules models.GroupRules, fm *flash.Manager, maxUploadMB int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:       store,
		Rules:       rules,
		Flash:       fm,
		MaxUploadMB: maxUploadMB,
		Log:         logger,
		ErrLog:      errLog,
	}
}
