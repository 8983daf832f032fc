// internal/domain/models/grouprules.go
package models

// Canonical module group identifiers.
const (
	GroupBWL = "BWL"
	GroupSQL = "SQL"
	GroupSLM = "SLM"
	GroupSOZ = "SOZ"
	GroupBT  = "BT"
)

// GroupRule holds the point thresholds a module group must reach.
// A group passes once its total points cover the compulsory requirement
// plus the elective requirement.
type GroupRule struct {
	Group                    string `json:"group"`
	CompulsoryPointsRequired int    `json:"compulsory_points_required"`
	ElectivePointsRequired   int    `json:"elective_points_required"`
}

// GroupRules is a read-only rule table keyed by module group.
//
// The zero value is an empty table. Build one with NewGroupRules or
// DefaultGroupRules; there is no way to change a table after construction,
// so a single value can be shared between goroutines without locking.
type GroupRules struct {
	order []string
	byKey map[string]GroupRule
}

// NewGroupRules builds a rule table. Order of the arguments is the display
// order of Groups(). A later rule for the same group replaces the earlier one
// but keeps the earlier position.
func NewGroupRules(rules ...GroupRule) GroupRules {
	t := GroupRules{byKey: make(map[string]GroupRule, len(rules))}
	for _, r := range rules {
		if _, seen := t.byKey[r.Group]; !seen {
			t.order = append(t.order, r.Group)
		}
		t.byKey[r.Group] = r
	}
	return t
}

// defaultGroupRules is built once at process start.
var defaultGroupRules = NewGroupRules(
	GroupRule{Group: GroupBWL, CompulsoryPointsRequired: 24, ElectivePointsRequired: 8},
	GroupRule{Group: GroupSQL, CompulsoryPointsRequired: 24, ElectivePointsRequired: 8},
	GroupRule{Group: GroupSLM, CompulsoryPointsRequired: 24, ElectivePointsRequired: 8},
	GroupRule{Group: GroupSOZ, CompulsoryPointsRequired: 34, ElectivePointsRequired: 4},
	GroupRule{Group: GroupBT, CompulsoryPointsRequired: 22, ElectivePointsRequired: 0},
)

// DefaultGroupRules returns the degree's rule table (BWL, SQL, SLM, SOZ, BT).
func DefaultGroupRules() GroupRules { return defaultGroupRules }

// Lookup returns the rule for group and whether one exists.
func (t GroupRules) Lookup(group string) (GroupRule, bool) {
	r, ok := t.byKey[group]
	return r, ok
}

// Known reports whether group has a rule.
func (t GroupRules) Known(group string) bool {
	_, ok := t.byKey[group]
	return ok
}

// Groups returns the group names in display order. The slice is a copy.
func (t GroupRules) Groups() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Rules returns all rules in display order. The slice is a copy.
func (t GroupRules) Rules() []GroupRule {
	out := make([]GroupRule, 0, len(t.order))
	for _, g := range t.order {
		out = append(out, t.byKey[g])
	}
	return out
}

// Len returns the number of groups in the table.
func (t GroupRules) Len() int { return len(t.order) }
