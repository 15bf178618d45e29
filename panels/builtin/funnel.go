// ABOUTME: Outreach & Onboarding Funnel panel.
// ABOUTME: Static funnel stages with conversion from the previous stage.

package builtin

import (
	"github.com/2389/campus-portal/internal/portal"
	"github.com/2389/campus-portal/panels/core"
)

func init() {
	core.Register(&FunnelPanel{})
}

type FunnelPanel struct{}

func (p *FunnelPanel) Name() string  { return "funnel" }
func (p *FunnelPanel) Title() string { return "Outreach & Onboarding Funnel" }
func (p *FunnelPanel) Kind() string  { return core.KindFunnel }
func (p *FunnelPanel) Order() int    { return 40 }

func (p *FunnelPanel) Schema() core.PanelSchema {
	return core.PanelSchema{
		Fields: []core.FieldSchema{
			{Name: "stage", Display: "Stage", Type: core.TypeString},
			{Name: "value", Display: "Count", Type: core.TypeInt},
			{Name: "conversion", Display: "Conversion", Type: core.TypePercent, Format: "%.1f%%"},
		},
		ListColumns: []string{"stage", "value", "conversion"},
	}
}

// Rows adds each stage's conversion from the stage before it. The first stage is 100%.
func (p *FunnelPanel) Rows(snap *portal.Snapshot) []map[string]any {
	rows := make([]map[string]any, len(snap.Funnel))
	for i, s := range snap.Funnel {
		conversion := 100.0
		if i > 0 {
			conversion = 0
			if prev := snap.Funnel[i-1].Value; prev > 0 {
				conversion = float64(s.Value) / float64(prev) * 100
			}
		}
		rows[i] = map[string]any{
			"stage":      s.Stage,
			"value":      s.Value,
			"conversion": conversion,
		}
	}
	return rows
}
