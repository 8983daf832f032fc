// internal/app/features/uploadcsv/upload.go
package uploadcsv

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/dalemusser/modulecredits/internal/app/features/home"
	"github.com/dalemusser/modulecredits/internal/app/system/csvutil"
	"github.com/dalemusser/modulecredits/internal/app/system/timeouts"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleUpload handles POST /records/upload.
// Every row is validated before anything is written; a single bad row
// rejects the whole file.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes())

	file, _, err := r.FormFile("csv")
	if err != nil {
		msg := "CSV file is required."
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			msg = fmt.Sprintf("CSV file is too large. Maximum size is %d MB.", h.maxMB())
		}
		h.reject(w, r, template.HTML(template.HTMLEscapeString(msg)))
		return
	}
	defer file.Close()

	parsed, err := csvutil.ParseRecordsCSV(file, h.Rules, csvutil.ParseOptions{MaxRows: csvutil.MaxRows})
	if err != nil {
		msg := "CSV file could not be parsed: " + err.Error()
		if errors.Is(err, csvutil.ErrTooManyRows) {
			msg = fmt.Sprintf("CSV file has too many rows. Maximum is %d.", csvutil.MaxRows)
		}
		h.reject(w, r, template.HTML(template.HTMLEscapeString(msg)))
		return
	}
	if parsed.HasErrors() {
		h.Log.Info("csv upload rejected", zap.Int("invalid_rows", len(parsed.Errors)))
		h.reject(w, r, parsed.FormatErrorsHTML(maxErrorsShown))
		return
	}
	if len(parsed.Rows) == 0 {
		h.reject(w, r, "The CSV file contains no records.")
		return
	}

	batch := uuid.NewString()
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "csv import")
	defer cancel()

	saved, err := h.Store.InsertMany(ctx, parsed.Rows)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "csv import failed", err, "Could not import the CSV file. No records were saved.", "/")
		return
	}
	h.Log.Info("csv import complete", zap.String("batch", batch), zap.Int("records", len(saved)))

	if err := h.Flash.Add(w, r, fmt.Sprintf("Imported %d module(s).", len(saved))); err != nil {
		h.Log.Warn("flash add failed", zap.Error(err))
	}
	http.Redirect(w, r, "/data", http.StatusSeeOther)
}

// reject re-renders the submission page with msg next to the upload form.
func (h *Handler) reject(w http.ResponseWriter, r *http.Request, msg template.HTML) {
	data := home.NewFormData(r, h.Rules, h.maxMB())
	data.UploadErrors = msg
	home.RenderForm(w, r, data, http.StatusBadRequest)
}
