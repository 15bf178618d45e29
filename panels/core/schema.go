// ABOUTME: Schema definitions for panel rendering.
// ABOUTME: Panels declare their columns, the dashboard renders the UI.

package core

// Field types understood by the renderer.
const (
	TypeString   = "string"
	TypeInt      = "int"
	TypeFloat    = "float"
	TypePercent  = "percent"
	TypeProgress = "progress"
)

// PanelSchema defines how a panel's rows are displayed
type PanelSchema struct {
	Fields      []FieldSchema // Every field a row may carry
	ListColumns []string      // Which fields are shown, in order
}

// FieldSchema defines a column of a panel
type FieldSchema struct {
	Name    string  // Row key: "signups_last_30d"
	Display string  // Column header: "Sign-ups (30d)"
	Type    string  // "string", "int", "float", "percent", "progress"
	Format  string  // fmt verb for numbers, "%.1f%%"
	Min     float64 // Lower display bound for progress fields
	Max     float64 // Upper display bound for progress fields
}

// Field looks up a field by name.
func (s PanelSchema) Field(name string) (FieldSchema, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSchema{}, false
}

// Columns returns the listed fields in display order, skipping names with no field.
func (s PanelSchema) Columns() []FieldSchema {
	cols := make([]FieldSchema, 0, len(s.ListColumns))
	for _, name := range s.ListColumns {
		if f, ok := s.Field(name); ok {
			cols = append(cols, f)
		}
	}
	return cols
}
