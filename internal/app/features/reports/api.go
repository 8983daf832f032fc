// internal/app/features/reports/api.go
package reports

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/modulecredits/internal/app/system/progress"
)

// progressResponse is the JSON body of GET /api/progress.
type progressResponse struct {
	PFPoints         int `json:"pf_acquired_points"`
	WPFPoints        int `json:"wpf_acquired_points"`
	TotalPoints      int `json:"total_points"`
	UnassignedPoints int `json:"unassigned_points"`
	RecordCount      int `json:"record_count"`

	// Presentation maps module group to totals and status text.
	Presentation map[string]progress.GroupSummary `json:"presentation"`
	Groups       []progress.GroupProgress         `json:"groups"`
}

// ServeProgressJSON handles GET /api/progress.
func (h *Handler) ServeProgressJSON(w http.ResponseWriter, r *http.Request) {
	recs, rep, err := h.snapshot(r.Context(), "progress api")
	if err != nil {
		h.ErrLog.JSONServerError(w, r, "load records for progress API failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(progressResponse{
		PFPoints:         rep.PFPoints,
		WPFPoints:        rep.WPFPoints,
		TotalPoints:      rep.TotalPoints,
		UnassignedPoints: rep.UnassignedPoints,
		RecordCount:      len(recs),
		Presentation:     rep.Presentation(),
		Groups:           rep.Groups,
	})
}
