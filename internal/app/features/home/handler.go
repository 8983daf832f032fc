package home

import (
	"net/http"

	"github.com/dalemusser/modulecredits/internal/app/system/flash"
	"github.com/dalemusser/modulecredits/internal/app/system/formutil"
	"github.com/dalemusser/modulecredits/internal/app/system/recordinput"
	"github.com/dalemusser/modulecredits/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the submission form.
type Handler struct {
	Rules       models.GroupRules
	Flash       *flash.Manager
	MaxUploadMB int
	Log         *zap.Logger
}

func NewHandler(rules models.GroupRules, fm *flash.Manager, maxUploadMB int, logger *zap.Logger) *Handler {
	return &Handler{
		Rules:       rules,
		Flash:       fm,
		MaxUploadMB: maxUploadMB,
		Log:         logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – submission form + CSV upload                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := NewFormData(r, h.Rules, h.MaxUploadMB)
	data.Flash = h.Flash.Pop(w, r)
	RenderForm(w, r, data, http.StatusOK)
}

// NewFormData returns an empty form view for rules.
func NewFormData(r *http.Request, rules models.GroupRules, maxUploadMB int) FormData {
	var d FormData
	formutil.SetBase(&d.Base, r, "Add module", "/")
	d.Groups = rules.Rules()
	d.Categories = []categoryOption{
		{Value: models.CategoryPF, Label: "PF (compulsory)"},
		{Value: models.CategoryWPF, Label: "WPF (elective)"},
	}
	d.Errors = map[string]string{}
	d.MaxUploadMB = maxUploadMB
	return d
}

// RenderForm writes status and renders the form page. Callers re-rendering
// after a failed submission pass http.StatusBadRequest.
func RenderForm(w http.ResponseWriter, r *http.Request, data FormData, status int) {
	if status != http.StatusOK {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	templates.Render(w, r, "home", data)
}

// WithSubmission echoes the submitted values and field errors into d.
func (d FormData) WithSubmission(f recordinput.Form, errs map[string]string) FormData {
	d.Values = f
	if errs != nil {
		d.Errors = errs
	}
	return d
}
