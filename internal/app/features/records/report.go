// internal/app/features/records/report.go
package records

import (
	"net/http"

	"github.com/dalemusser/modulecredits/internal/app/system/formutil"
	"github.com/dalemusser/modulecredits/internal/app/system/progress"
	"github.com/dalemusser/modulecredits/internal/app/system/timeouts"
	"github.com/dalemusser/modulecredits/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

type reportData struct {
	formutil.Base

	Records []models.ModuleRecord
	Report  progress.Report
}

// ServeReport lists every record (latest first) together with global totals
// and the pass/fail status of each module group.
func (h *Handler) ServeReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "records.report")
	defer cancel()

	recs, err := h.Store.All(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list module records failed", err, "Could not load the progress report.", "/")
		return
	}

	var data reportData
	formutil.SetBase(&data.Base, r, "Progress report", "/")
	data.Flash = h.Flash.Pop(w, r)
	data.Records = recs
	data.Report = progress.Evaluate(recs, h.Rules)

	templates.Render(w, r, "records_report", data)
}
