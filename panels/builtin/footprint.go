// ABOUTME: Program Footprint panel.
// ABOUTME: Reference campuses plotted by location, sized by sign-ups.

package builtin

import (
	"github.com/2389/campus-portal/internal/portal"
	"github.com/2389/campus-portal/panels/core"
)

func init() {
	core.Register(&FootprintPanel{})
}

type FootprintPanel struct{}

func (p *FootprintPanel) Name() string  { return "footprint" }
func (p *FootprintPanel) Title() string { return "Program Footprint" }
func (p *FootprintPanel) Kind() string  { return core.KindMap }
func (p *FootprintPanel) Order() int    { return 60 }

func (p *FootprintPanel) Schema() core.PanelSchema {
	return core.PanelSchema{
		Fields: []core.FieldSchema{
			{Name: "university", Display: "University", Type: core.TypeString},
			{Name: "lat", Display: "Lat", Type: core.TypeFloat, Format: "%.4f"},
			{Name: "lon", Display: "Lon", Type: core.TypeFloat, Format: "%.4f"},
			{Name: "signups_last_30d", Display: "Sign-ups (30d)", Type: core.TypeInt},
		},
		ListColumns: []string{"university", "lat", "lon", "signups_last_30d"},
	}
}

func (p *FootprintPanel) Rows(snap *portal.Snapshot) []map[string]any {
	rows := make([]map[string]any, len(snap.MapPoints))
	for i, m := range snap.MapPoints {
		rows[i] = map[string]any{
			"university":       m.University,
			"lat":              m.Lat,
			"lon":              m.Lon,
			"signups_last_30d": m.SignupsLast30d,
		}
	}
	return rows
}
