// ABOUTME: Core panel interface for the dashboard panel system.
// ABOUTME: Defines the contract every dashboard panel implements.

package core

import "github.com/2389/campus-portal/internal/portal"

// Panel kinds. The dashboard picks a renderer by kind.
const (
	KindKPI    = "kpi"
	KindTable  = "table"
	KindFunnel = "funnel"
	KindFeed   = "feed"
	KindMap    = "map"
)

// Panel defines the interface that all dashboard panels must implement
type Panel interface {
	// Metadata
	Name() string // URL slug, "leaderboard"
	Title() string
	Kind() string
	Order() int

	// Rendering
	Schema() PanelSchema

	// Rows projects a snapshot into the rows this panel shows. Keys match Schema field names.
	Rows(snap *portal.Snapshot) []map[string]any
}

// Info is the metadata of a panel exposed by the panel listing API.
type Info struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Kind    string   `json:"kind"`
	Columns []string `json:"columns"`
}

// Describe returns the listing metadata for a panel.
func Describe(p Panel) Info {
	fields := p.Schema().Columns()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Display
	}
	return Info{
		Name:    p.Name(),
		Title:   p.Title(),
		Kind:    p.Kind(),
		Columns: columns,
	}
}
