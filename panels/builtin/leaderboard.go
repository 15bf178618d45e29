// ABOUTME: Campus Leaderboard panel.
// ABOUTME: Per-university rollup sorted by sign-ups with a month-over-month growth bar.

package builtin

import (
	"github.com/2389/campus-portal/internal/portal"
	"github.com/2389/campus-portal/panels/core"
)

func init() {
	core.Register(&LeaderboardPanel{})
}

type LeaderboardPanel struct{}

func (p *LeaderboardPanel) Name() string  { return "leaderboard" }
func (p *LeaderboardPanel) Title() string { return "Campus Leaderboard" }
func (p *LeaderboardPanel) Kind() string  { return core.KindTable }
func (p *LeaderboardPanel) Order() int    { return 20 }

func (p *LeaderboardPanel) Schema() core.PanelSchema {
	return core.PanelSchema{
		Fields: []core.FieldSchema{
			{Name: "university", Display: "University", Type: core.TypeString},
			{Name: "num_reps", Display: "Reps", Type: core.TypeInt},
			{Name: "signups_last_30d", Display: "Sign-ups (30d)", Type: core.TypeInt},
			{Name: "events_created_last_30d", Display: "Events (30d)", Type: core.TypeInt},
			{
				Name:    "growth_mom",
				Display: "Growth (MoM)",
				Type:    core.TypeProgress,
				Format:  "%.1f%%",
				Min:     portal.GrowthDisplayMin,
				Max:     portal.GrowthDisplayMax,
			},
		},
		ListColumns: []string{"university", "num_reps", "signups_last_30d", "events_created_last_30d", "growth_mom"},
	}
}

// Rows keeps the snapshot's campus order, which is already sign-ups descending.
func (p *LeaderboardPanel) Rows(snap *portal.Snapshot) []map[string]any {
	rows := make([]map[string]any, len(snap.Campuses))
	for i, c := range snap.Campuses {
		rows[i] = map[string]any{
			"university":              c.University,
			"num_reps":                c.NumReps,
			"signups_last_30d":        c.SignupsLast30d,
			"events_created_last_30d": c.EventsCreatedLast30d,
			"growth_mom":              c.GrowthMoM,
		}
	}
	return rows
}
