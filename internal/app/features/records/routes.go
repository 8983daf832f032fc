// internal/app/features/records/routes.go
package records

import "github.com/go-chi/chi/v5"

// Routes mounts submission and report under the caller's prefix.
// Typically: r.Mount("/data", records.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeReport)
	r.Post("/", h.HandleSubmit)
	return r
}

// ViewRoutes mounts the plain record list.
// Typically: r.Mount("/view", records.ViewRoutes(h))
func ViewRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	return r
}
