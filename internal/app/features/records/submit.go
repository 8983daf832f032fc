// internal/app/features/records/submit.go
package records

import (
	"errors"
	"net/http"

	"github.com/dalemusser/modulecredits/internal/app/features/home"
	"github.com/dalemusser/modulecredits/internal/app/system/limits"
	"github.com/dalemusser/modulecredits/internal/app/system/recordinput"
	"github.com/dalemusser/modulecredits/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleSubmit stores one record from the submission form and redirects to
// the report. Invalid input re-renders the form with per-field messages.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxRecordFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/")
		return
	}

	form := recordinput.FormFromValues(r.PostForm)
	rec, err := recordinput.Parse(form, h.Rules)
	if err != nil {
		var verr *recordinput.ValidationError
		if !errors.As(err, &verr) {
			h.ErrLog.LogServerError(w, r, "record input parse failed", err, "Could not process the submission.", "/")
			return
		}
		h.Log.Debug("module submission rejected", zap.String("reason", verr.Error()))
		data := home.NewFormData(r, h.Rules, h.MaxUploadMB).WithSubmission(form, verr.FieldMap())
		data.SetError("Please correct the highlighted fields.")
		home.RenderForm(w, r, data, http.StatusBadRequest)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "records.insert")
	defer cancel()

	saved, err := h.Store.Insert(ctx, rec)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "insert module record failed", err, "Could not save the module.", "/")
		return
	}
	h.Log.Info("module record saved",
		zap.String("id", saved.ID),
		zap.String("module_group", saved.ModuleGroup),
		zap.String("compulsory_elective", saved.CompulsoryElective),
		zap.Int("acquired_points", saved.AcquiredPoints))

	if err := h.Flash.Add(w, r, "Module saved."); err != nil {
		h.Log.Warn("flash add failed", zap.Error(err))
	}
	http.Redirect(w, r, "/data", http.StatusSeeOther)
}
