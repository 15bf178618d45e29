// ABOUTME: Top Reps panel.
// ABOUTME: The five representatives with the most sign-ups in the last 30 days.

package builtin

import (
	"github.com/2389/campus-portal/internal/portal"
	"github.com/2389/campus-portal/panels/core"
)

// TopRepsLimit is how many reps the panel lists.
const TopRepsLimit = 5

func init() {
	core.Register(&TopRepsPanel{})
}

type TopRepsPanel struct{}

func (p *TopRepsPanel) Name() string  { return "top-reps" }
func (p *TopRepsPanel) Title() string { return "Top Reps (by Sign-ups)" }
func (p *TopRepsPanel) Kind() string  { return core.KindTable }
func (p *TopRepsPanel) Order() int    { return 30 }

func (p *TopRepsPanel) Schema() core.PanelSchema {
	return core.PanelSchema{
		Fields: []core.FieldSchema{
			{Name: "name", Display: "Representative", Type: core.TypeString},
			{Name: "university", Display: "University", Type: core.TypeString},
			{Name: "signups_last_30d", Display: "Sign-ups (30d)", Type: core.TypeInt},
			{Name: "events_created_last_30d", Display: "Events Created", Type: core.TypeInt},
		},
		ListColumns: []string{"name", "university", "signups_last_30d", "events_created_last_30d"},
	}
}

func (p *TopRepsPanel) Rows(snap *portal.Snapshot) []map[string]any {
	top := portal.TopReps(snap.Reps, TopRepsLimit)
	rows := make([]map[string]any, len(top))
	for i, r := range top {
		rows[i] = map[string]any{
			"name":                    r.Name,
			"university":              r.University,
			"signups_last_30d":        r.SignupsLast30d,
			"events_created_last_30d": r.EventsCreatedLast30d,
		}
	}
	return rows
}
