// internal/app/features/records/list.go
package records

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/modulecredits/internal/app/system/formutil"
	"github.com/dalemusser/modulecredits/internal/app/system/inputval"
	"github.com/dalemusser/modulecredits/internal/app/system/timeouts"
	"github.com/dalemusser/modulecredits/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

type listData struct {
	formutil.Base

	Groups  []string
	Group   string
	Records []models.ModuleRecord
}

// ServeList shows stored records, optionally narrowed with ?group=.
// Unknown groups are not an error; they simply match nothing.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	group := inputval.NormalizeCode(r.URL.Query().Get("group"))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "records.list")
	defer cancel()

	recs, err := h.listRecords(ctx, group)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list module records failed", err, "Could not load records.", "/")
		return
	}

	var data listData
	title := "All records"
	if group != "" {
		title = "Records: " + group
	}
	formutil.SetBase(&data.Base, r, title, "/")
	data.Groups = h.Rules.Groups()
	data.Group = group
	data.Records = recs

	templates.Render(w, r, "records_list", data)
}

func (h *Handler) listRecords(ctx context.Context, group string) ([]models.ModuleRecord, error) {
	if strings.TrimSpace(group) == "" {
		return h.Store.All(ctx)
	}
	return h.Store.FilterByGroup(ctx, group)
}
