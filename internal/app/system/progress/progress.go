// Package progress computes degree progress from stored module records.
//
// Evaluate is a pure function: it reads a snapshot of records and a rule
// table and returns freshly computed totals. Nothing is cached between
// calls, and calling it twice with the same input yields the same Report.
//
// Point totals are computed on two levels:
//   - global: every PF and WPF record, regardless of its module group
//   - per group: only records whose module group has a rule
//
// Records with a module group missing from the rule table therefore show up
// in the global totals but in no group. Report.UnassignedPoints exposes the
// difference so callers can surface it instead of hiding it.
package progress

import (
	"fmt"

	"github.com/dalemusser/modulecredits/internal/domain/models"
)

// Status is the pass/fail verdict for one module group.
type Status int

const (
	StatusFailCompulsory Status = iota
	StatusFailElective
	StatusPass
)

// String returns the human-readable verdict shown in reports.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "Pass"
	case StatusFailElective:
		return "Fail (Insufficient Elective Points)"
	default:
		return "Fail (Insufficient Compulsory Points)"
	}
}

// Key returns a stable machine-readable identifier for the status.
func (s Status) Key() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFailElective:
		return "fail_elective"
	default:
		return "fail_compulsory"
	}
}

// MarshalText lets Status serialize as its key in JSON.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.Key()), nil }

// GroupProgress is the derived progress of one module group.
type GroupProgress struct {
	Group               string           `json:"group"`
	Rule                models.GroupRule `json:"rule"`
	PFPoints            int              `json:"pf_acquired_points"`
	WPFPoints           int              `json:"wpf_acquired_points"`
	TotalPoints         int              `json:"total_points"`
	Status              Status           `json:"status"`
	RemainingCompulsory int              `json:"remaining_compulsory"`
	RemainingElective   int              `json:"remaining_elective"`
}

// Passed reports whether the group meets all its thresholds.
func (g GroupProgress) Passed() bool { return g.Status == StatusPass }

// StatusText combines verdict and remaining counts, for example
// "Fail (Insufficient Elective Points) (0 Compulsory Remaining, 3 Electives Remaining)".
func (g GroupProgress) StatusText() string {
	return fmt.Sprintf("%s (%d Compulsory Remaining, %d Electives Remaining)",
		g.Status, g.RemainingCompulsory, g.RemainingElective)
}

// Report is the result of one evaluation.
type Report struct {
	PFPoints    int `json:"pf_acquired_points"`
	WPFPoints   int `json:"wpf_acquired_points"`
	TotalPoints int `json:"total_points"`

	// UnassignedPoints counts PF/WPF points of records whose module group
	// has no rule. They are part of TotalPoints but of no group.
	UnassignedPoints int `json:"unassigned_points"`

	// Groups follows the display order of the rule table.
	Groups []GroupProgress `json:"groups"`
}

// Group returns the progress for name and whether the group exists.
func (r Report) Group(name string) (GroupProgress, bool) {
	for _, g := range r.Groups {
		if g.Group == name {
			return g, true
		}
	}
	return GroupProgress{}, false
}

// GroupSummary is the per-group view handed to presentation.
type GroupSummary struct {
	PFPoints    int    `json:"pf_acquired_points"`
	WPFPoints   int    `json:"wpf_acquired_points"`
	TotalPoints int    `json:"total_points"`
	StatusText  string `json:"status_text"`
}

// Presentation returns the module_group -> summary mapping consumed by
// rendering layers.
func (r Report) Presentation() map[string]GroupSummary {
	out := make(map[string]GroupSummary, len(r.Groups))
	for _, g := range r.Groups {
		out[g.Group] = GroupSummary{
			PFPoints:    g.PFPoints,
			WPFPoints:   g.WPFPoints,
			TotalPoints: g.TotalPoints,
			StatusText:  g.StatusText(),
		}
	}
	return out
}

// Evaluate computes global and per-group point totals and the pass/fail
// status of every group in rules. The order of records does not matter.
func Evaluate(records []models.ModuleRecord, rules models.GroupRules) Report {
	type sums struct{ pf, wpf int }
	byGroup := make(map[string]*sums, rules.Len())
	for _, g := range rules.Groups() {
		byGroup[g] = &sums{}
	}

	var rep Report
	for _, rec := range records {
		var pf, wpf int
		switch {
		case rec.IsCompulsory():
			pf = rec.AcquiredPoints
		case rec.IsElective():
			wpf = rec.AcquiredPoints
		default:
			continue
		}
		rep.PFPoints += pf
		rep.WPFPoints += wpf

		s, ok := byGroup[rec.ModuleGroup]
		if !ok {
			rep.UnassignedPoints += pf + wpf
			continue
		}
		s.pf += pf
		s.wpf += wpf
	}
	rep.TotalPoints = rep.PFPoints + rep.WPFPoints

	rep.Groups = make([]GroupProgress, 0, rules.Len())
	for _, rule := range rules.Rules() {
		s := byGroup[rule.Group]
		rep.Groups = append(rep.Groups, evaluateGroup(rule, s.pf, s.wpf))
	}
	return rep
}

// evaluateGroup applies the thresholds of one rule. Only the group total
// counts: PF and WPF points are pooled before comparing.
func evaluateGroup(rule models.GroupRule, pf, wpf int) GroupProgress {
	reqC := rule.CompulsoryPointsRequired
	reqE := rule.ElectivePointsRequired
	pts := pf + wpf

	status := StatusFailCompulsory
	if pts >= reqC {
		if reqE == 0 || pts >= reqC+reqE {
			status = StatusPass
		} else {
			status = StatusFailElective
		}
	}

	return GroupProgress{
		Group:               rule.Group,
		Rule:                rule,
		PFPoints:            pf,
		WPFPoints:           wpf,
		TotalPoints:         pts,
		Status:              status,
		RemainingCompulsory: max(0, reqC-pts),
		RemainingElective:   max(0, reqE-max(0, pts-reqC)),
	}
}
