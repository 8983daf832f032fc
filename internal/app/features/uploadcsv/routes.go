// internal/app/features/uploadcsv/routes.go
package uploadcsv

import "github.com/go-chi/chi/v5"

// Routes mounts the CSV import endpoint.
// Typically: r.Mount("/records/upload", uploadcsv.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleUpload)
	return r
}
