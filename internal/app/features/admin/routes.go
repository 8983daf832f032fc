// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/modulecredits/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the clear endpoint. limiter may be nil.
// Typically: r.Mount("/delete-database", admin.Routes(h, limiter))
func Routes(h *Handler, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	if limiter != nil {
		r.Use(ratelimit.Middleware(limiter, h.Log))
	}
	r.Get("/", h.HandleClear)
	r.Post("/", h.HandleClear)
	return r
}
