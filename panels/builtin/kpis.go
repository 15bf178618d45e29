// ABOUTME: National Performance Overview panel.
// ABOUTME: Four KPI cards with thousands-separated totals and the top campus.

package builtin

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/2389/campus-portal/internal/portal"
	"github.com/2389/campus-portal/panels/core"
)

func init() {
	core.Register(&KPIPanel{})
}

// printer formats counts with grouping separators, 12345 -> "12,345".
var printer = message.NewPrinter(language.English)

type KPIPanel struct{}

func (p *KPIPanel) Name() string  { return "kpis" }
func (p *KPIPanel) Title() string { return "National Performance Overview" }
func (p *KPIPanel) Kind() string  { return core.KindKPI }
func (p *KPIPanel) Order() int    { return 10 }

func (p *KPIPanel) Schema() core.PanelSchema {
	return core.PanelSchema{
		Fields: []core.FieldSchema{
			{Name: "label", Display: "Metric", Type: core.TypeString},
			{Name: "value", Display: "Value", Type: core.TypeString},
		},
		ListColumns: []string{"label", "value"},
	}
}

func (p *KPIPanel) Rows(snap *portal.Snapshot) []map[string]any {
	k := snap.KPIs()
	topCampus := k.TopCampus
	if topCampus == "" {
		topCampus = "n/a"
	}
	return []map[string]any{
		{"label": "Total Reps", "value": FormatCount(k.TotalReps)},
		{"label": "Sign-ups (Last 30d)", "value": FormatCount(k.TotalSignups)},
		{"label": "Events Created (Last 30d)", "value": FormatCount(k.TotalEvents)},
		{"label": "Top Performing Campus", "value": topCampus},
	}
}

// FormatCount renders n with grouping separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}
