package home

import (
	"html/template"

	"github.com/dalemusser/modulecredits/internal/app/system/formutil"
	"github.com/dalemusser/modulecredits/internal/app/system/recordinput"
	"github.com/dalemusser/modulecredits/internal/domain/models"
)

type categoryOption struct {
	Value string
	Label string
}

// FormData is the view model of the submission page.
type FormData struct {
	formutil.Base

	Groups     []models.GroupRule
	Categories []categoryOption

	// Echoed input and per-field messages after a rejected submission.
	Values recordinput.Form
	Errors map[string]string

	// CSV upload
	UploadErrors template.HTML
	MaxUploadMB  int
}
