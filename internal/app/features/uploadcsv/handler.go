// internal/app/features/uploadcsv/handler.go
package uploadcsv

import (
	uierrors "github.com/dalemusser/modulecredits/internal/app/features/errors"
	recordstore "github.com/dalemusser/modulecredits/internal/app/store/records"
	"github.com/dalemusser/modulecredits/internal/app/system/csvutil"
	"github.com/dalemusser/modulecredits/internal/app/system/flash"
	"github.com/dalemusser/modulecredits/internal/domain/models"
	"go.uber.org/zap"
)

// maxErrorsShown caps the row errors listed back to the user.
const maxErrorsShown = 10

// Handler provides HTTP handlers for CSV record import.
type Handler struct {
	Store  recordstore.Store
	Rules  models.GroupRules
	Flash  *flash.Manager
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	// MaxUploadMB limits the request body. Zero falls back to csvutil.MaxUploadSize.
	MaxUploadMB int
}

func NewHandler(store recordstore.Store, rules models.GroupRules, fm *flash.Manager, maxUploadMB int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:       store,
		Rules:       rules,
		Flash:       fm,
		Log:         logger,
		ErrLog:      errLog,
		MaxUploadMB: maxUploadMB,
	}
}

func (h *Handler) maxBytes() int64 {
	if h.MaxUploadMB <= 0 {
		return csvutil.MaxUploadSize
	}
	return int64(h.MaxUploadMB) << 20
}

func (h *Handler) maxMB() int {
	return int(h.maxBytes() >> 20)
}
