// internal/app/features/admin/handler.go
package admin

import (
	"net/http"

	recordstore "github.com/dalemusser/modulecredits/internal/app/store/records"
	"github.com/dalemusser/modulecredits/internal/app/system/ratelimit"
	"github.com/dalemusser/modulecredits/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ClearedMessage is the plain-text body returned after a successful clear.
const ClearedMessage = "Database cleared successfully."

// Handler serves the maintenance endpoints.
type Handler struct {
	Store recordstore.Store
	Log   *zap.Logger
}

func NewHandler(store recordstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Store: store,
		Log:   logger,
	}
}

// HandleClear handles GET and POST /delete-database. It irreversibly removes
// every stored record; there is no confirmation step.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "clear records")
	defer cancel()

	n, err := h.Store.ClearAll(ctx)
	if err != nil {
		h.Log.Error("clear records failed", zap.Error(err))
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	h.Log.Warn("all module records cleared",
		zap.Int64("removed", n),
		zap.String("ip", ratelimit.ClientIP(r)),
		zap.String("method", r.Method))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(ClearedMessage))
}
