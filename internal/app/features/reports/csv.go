// internal/app/features/reports/csv.go
package reports

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var (
	progressHeader = []string{
		"module_group", "pf_acquired_points", "wpf_acquired_points", "total_points",
		"compulsory_points_required", "elective_points_required", "status", "status_text",
	}
	recordsHeader = []string{
		"date", "module_name", "module_group", "compulsory_elective", "semester", "acquired_points", "created_at",
	}
)

// ServeProgressCSV handles GET /reports/progress.csv: one row per module group.
func (h *Handler) ServeProgressCSV(w http.ResponseWriter, r *http.Request) {
	_, rep, err := h.snapshot(r.Context(), "progress csv")
	if err != nil {
		h.Log.Error("load records for progress CSV failed", zap.Error(err))
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	cw := h.startCSV(w, r, "progress")
	defer cw.Flush()

	_ = cw.Write(progressHeader)
	for _, g := range rep.Groups {
		_ = cw.Write([]string{
			g.Group,
			strconv.Itoa(g.PFPoints),
			strconv.Itoa(g.WPFPoints),
			strconv.Itoa(g.TotalPoints),
			strconv.Itoa(g.Rule.CompulsoryPointsRequired),
			strconv.Itoa(g.Rule.ElectivePointsRequired),
			g.Status.Key(),
			g.StatusText(),
		})
	}
}

// ServeRecordsCSV handles GET /reports/records.csv: every record, latest first.
// The column layout matches the CSV import so an export can be re-imported.
func (h *Handler) ServeRecordsCSV(w http.ResponseWriter, r *http.Request) {
	recs, _, err := h.snapshot(r.Context(), "records csv")
	if err != nil {
		h.Log.Error("load records for CSV failed", zap.Error(err))
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	cw := h.startCSV(w, r, "records")
	defer cw.Flush()

	_ = cw.Write(recordsHeader)
	for _, rec := range recs {
		created := ""
		if !rec.CreatedAt.IsZero() {
			created = rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		_ = cw.Write([]string{
			rec.Date,
			rec.ModuleName,
			rec.ModuleGroup,
			rec.CompulsoryElective,
			strconv.Itoa(rec.Semester),
			strconv.Itoa(rec.AcquiredPoints),
			created,
		})
	}
}

// startCSV writes the download headers and the UTF-8 BOM.
func (h *Handler) startCSV(w http.ResponseWriter, r *http.Request, prefix string) *csv.Writer {
	filename := h.csvFilename(r, prefix)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	// UTF-8 BOM so Excel treats it as Unicode
	_, _ = w.Write([]byte{0xEF, 0xBB, 0xBF})

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw
}

// csvFilename returns the "filename" query param (forced to .csv) or a
// timestamped default.
func (h *Handler) csvFilename(r *http.Request, prefix string) string {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = prefix + "_" + h.now().UTC().Format("20060102_150405") + ".csv"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		filename += ".csv"
	}
	return filename
}
