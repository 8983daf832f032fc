// internal/app/features/reports/routes.go
package reports

import "github.com/go-chi/chi/v5"

// Routes mounts the CSV downloads.
// Typically: r.Mount("/reports", reports.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/progress.csv", h.ServeProgressCSV)
	r.Get("/records.csv", h.ServeRecordsCSV)
	return r
}

// APIRoutes mounts the JSON endpoints.
// Typically: r.Mount("/api", reports.APIRoutes(h))
func APIRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/progress", h.ServeProgressJSON)
	return r
}
