// ABOUTME: Rep Activity Log panel.
// ABOUTME: Recent rep actions as a scrolling feed.

package builtin

import (
	"github.com/2389/campus-portal/internal/portal"
	"github.com/2389/campus-portal/panels/core"
)

func init() {
	core.Register(&ActivityPanel{})
}

type ActivityPanel struct{}

func (p *ActivityPanel) Name() string  { return "activity" }
func (p *ActivityPanel) Title() string { return "Rep Activity Log" }
func (p *ActivityPanel) Kind() string  { return core.KindFeed }
func (p *ActivityPanel) Order() int    { return 50 }

func (p *ActivityPanel) Schema() core.PanelSchema {
	return core.PanelSchema{
		Fields: []core.FieldSchema{
			{Name: "entry", Display: "Activity", Type: core.TypeString},
		},
		ListColumns: []string{"entry"},
	}
}

func (p *ActivityPanel) Rows(snap *portal.Snapshot) []map[string]any {
	rows := make([]map[string]any, len(snap.ActivityLog))
	for i, entry := range snap.ActivityLog {
		rows[i] = map[string]any{"entry": entry}
	}
	return rows
}
