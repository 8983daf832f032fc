// Package formutil holds the fields every page view shares.
//
// Page data structs embed Base and call SetBase before rendering:
//
//	type pageData struct {
//		formutil.Base
//		Records []recordRow
//	}
//
//	var data pageData
//	formutil.SetBase(&data.Base, r, "Records", "/")
//	templates.Render(w, r, "records_list", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
)

// Base contains common fields for page and form views.
type Base struct {
	Title       string
	BackURL     string
	CurrentPath string
	Flash       []string
	Error       template.HTML
}

// SetBase fills the navigation fields from the request.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.Title = title
	b.BackURL = httpnav.ResolveBackURL(r, backDefault)
	b.CurrentPath = httpnav.CurrentPath(r)
}

// SetError sets a trusted HTML error message.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(msg)
}
