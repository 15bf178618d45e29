// ABOUTME: Schema-based HTML renderer for dashboard panels.
// ABOUTME: Generates Tailwind-styled KPI cards, tables, funnels, feeds, and the footprint map from panel schemas.

package dashboard

import (
	"fmt"
	"html"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/2389/campus-portal/panels/core"
)

var printer = message.NewPrinter(language.English)

// RenderPanel renders a panel section with its title and kind-specific body.
func RenderPanel(p core.Panel, rows []map[string]any) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<section id="panel-%s" class="bg-white rounded-lg shadow p-6" data-kind="%s">`,
		html.EscapeString(p.Name()), html.EscapeString(p.Kind())))
	sb.WriteString(fmt.Sprintf(`<h2 class="text-lg font-semibold text-gray-900 mb-4">%s</h2>`,
		html.EscapeString(p.Title())))

	schema := p.Schema()
	switch p.Kind() {
	case core.KindKPI:
		sb.WriteString(RenderKPICards(schema, rows))
	case core.KindFunnel:
		sb.WriteString(RenderFunnel(schema, rows))
	case core.KindFeed:
		sb.WriteString(RenderFeed(schema, rows))
	case core.KindMap:
		sb.WriteString(RenderMap(rows))
	default:
		sb.WriteString(RenderTable(schema, rows))
	}

	sb.WriteString(`</section>`)
	return sb.String()
}

// RenderTable generates a table view from a PanelSchema
func RenderTable(schema core.PanelSchema, rows []map[string]any) string {
	var sb strings.Builder
	cols := schema.Columns()

	sb.WriteString(`<table class="min-w-full divide-y divide-gray-200">`)
	sb.WriteString(`<thead class="bg-gray-50"><tr>`)
	for _, col := range cols {
		sb.WriteString(fmt.Sprintf(`<th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">%s</th>`,
			html.EscapeString(col.Display)))
	}
	sb.WriteString(`</tr></thead>`)
	sb.WriteString(`<tbody class="bg-white divide-y divide-gray-200">`)

	for _, row := range rows {
		sb.WriteString(`<tr>`)
		for _, col := range cols {
			if col.Type == core.TypeProgress {
				sb.WriteString(`<td class="px-6 py-4 whitespace-nowrap text-sm text-gray-900">`)
				sb.WriteString(renderProgress(col, row[col.Name]))
				sb.WriteString(`</td>`)
				continue
			}
			sb.WriteString(fmt.Sprintf(`<td class="px-6 py-4 whitespace-nowrap text-sm text-gray-900">%s</td>`,
				html.EscapeString(formatCell(col, row[col.Name]))))
		}
		sb.WriteString(`</tr>`)
	}

	sb.WriteString(`</tbody></table>`)
	return sb.String()
}

// RenderKPICards renders one card per row. The first listed column is the
// label and the second the value.
func RenderKPICards(schema core.PanelSchema, rows []map[string]any) string {
	cols := schema.Columns()
	if len(cols) < 2 {
		return RenderTable(schema, rows)
	}

	var sb strings.Builder
	sb.WriteString(`<div class="grid grid-cols-2 md:grid-cols-4 gap-4">`)
	for _, row := range rows {
		sb.WriteString(`<div class="rounded-lg border border-gray-200 p-4">`)
		sb.WriteString(fmt.Sprintf(`<div class="text-xs font-medium text-gray-500 uppercase">%s</div>`,
			html.EscapeString(formatCell(cols[0], row[cols[0].Name]))))
		sb.WriteString(fmt.Sprintf(`<div class="mt-1 text-2xl font-semibold text-gray-900">%s</div>`,
			html.EscapeString(formatCell(cols[1], row[cols[1].Name]))))
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

// RenderFunnel renders stages as bars scaled to the widest stage. Expects
// "stage" and "value" fields; a "conversion" field is shown when present.
func RenderFunnel(schema core.PanelSchema, rows []map[string]any) string {
	maxValue := 0.0
	for _, row := range rows {
		if v, ok := toFloat(row["value"]); ok && v > maxValue {
			maxValue = v
		}
	}

	conversion, hasConversion := schema.Field("conversion")
	valueField, _ := schema.Field("value")

	var sb strings.Builder
	sb.WriteString(`<div class="space-y-3">`)
	for _, row := range rows {
		width := 0.0
		if v, ok := toFloat(row["value"]); ok && maxValue > 0 {
			width = v / maxValue * 100
		}

		sb.WriteString(`<div>`)
		sb.WriteString(`<div class="flex justify-between text-sm text-gray-700">`)
		sb.WriteString(fmt.Sprintf(`<span>%s</span>`, html.EscapeString(formatValue(row["stage"]))))
		label := formatCell(valueField, row["value"])
		if hasConversion {
			label += " · " + formatCell(conversion, row["conversion"])
		}
		sb.WriteString(fmt.Sprintf(`<span>%s</span>`, html.EscapeString(label)))
		sb.WriteString(`</div>`)
		sb.WriteString(fmt.Sprintf(`<div class="h-6 bg-gray-100 rounded"><div class="h-6 bg-purple-600 rounded" style="width: %.1f%%"></div></div>`, width))
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

// RenderFeed renders the first listed column of each row as a scrolling list.
func RenderFeed(schema core.PanelSchema, rows []map[string]any) string {
	cols := schema.Columns()

	var sb strings.Builder
	sb.WriteString(`<ul class="max-h-72 overflow-y-auto divide-y divide-gray-100 text-sm text-gray-800">`)
	for _, row := range rows {
		text := ""
		if len(cols) > 0 {
			text = formatCell(cols[0], row[cols[0].Name])
		}
		sb.WriteString(fmt.Sprintf(`<li class="py-2">%s</li>`, html.EscapeString(text)))
	}
	sb.WriteString(`</ul>`)
	return sb.String()
}

// Map viewport: the continental United States, equirectangular.
const (
	mapWidth  = 800.0
	mapHeight = 400.0
	mapMinLon = -125.0
	mapMaxLon = -66.0
	mapMinLat = 24.0
	mapMaxLat = 50.0

	minDotRadius = 4.0
	maxDotRadius = 20.0
)

// RenderMap plots rows with "university", "lat", "lon", and
// "signups_last_30d" as circles whose area tracks sign-ups.
func RenderMap(rows []map[string]any) string {
	maxSignups := 0.0
	for _, row := range rows {
		if v, ok := toFloat(row["signups_last_30d"]); ok && v > maxSignups {
			maxSignups = v
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg viewBox="0 0 %.0f %.0f" class="w-full h-auto bg-slate-50 rounded" role="img" aria-label="Program footprint map">`,
		mapWidth, mapHeight))

	for _, row := range rows {
		lat, okLat := toFloat(row["lat"])
		lon, okLon := toFloat(row["lon"])
		if !okLat || !okLon {
			continue
		}
		signups, _ := toFloat(row["signups_last_30d"])
		x, y := project(lat, lon)

		r := minDotRadius
		if maxSignups > 0 {
			r += (maxDotRadius - minDotRadius) * math.Sqrt(signups/maxSignups)
		}

		name := formatValue(row["university"])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="#7c3aed" fill-opacity="0.6" stroke="#5b21b6">`, x, y, r))
		sb.WriteString(fmt.Sprintf(`<title>%s: %s sign-ups</title>`,
			html.EscapeString(name), html.EscapeString(printer.Sprintf("%d", int(signups)))))
		sb.WriteString(`</circle>`)
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// project maps a coordinate into the SVG viewport, clamping points outside it to the edge.
func project(lat, lon float64) (x, y float64) {
	x = (lon - mapMinLon) / (mapMaxLon - mapMinLon) * mapWidth
	y = (mapMaxLat - lat) / (mapMaxLat - mapMinLat) * mapHeight
	return clamp(x, 0, mapWidth), clamp(y, 0, mapHeight)
}

func renderProgress(field core.FieldSchema, value any) string {
	v, ok := toFloat(value)
	if !ok {
		return html.EscapeString(formatValue(value))
	}

	pct := 0.0
	if field.Max > field.Min {
		pct = clamp((v-field.Min)/(field.Max-field.Min)*100, 0, 100)
	}
	color := "bg-green-500"
	if v < 0 {
		color = "bg-red-500"
	}

	return fmt.Sprintf(`<div class="flex items-center gap-2"><div class="w-24 h-2 bg-gray-200 rounded"><div class="h-2 %s rounded" style="width: %.1f%%"></div></div><span>%s</span></div>`,
		color, pct, html.EscapeString(formatCell(field, value)))
}

// Helper functions

func formatCell(field core.FieldSchema, value any) string {
	if value == nil {
		return ""
	}

	switch field.Type {
	case core.TypeInt:
		if v, ok := toFloat(value); ok {
			return printer.Sprintf("%d", int64(v))
		}
	case core.TypeFloat, core.TypePercent, core.TypeProgress:
		if v, ok := toFloat(value); ok {
			format := field.Format
			if format == "" {
				format = defaultFormat(field.Type)
			}
			return fmt.Sprintf(format, v)
		}
	}
	return formatValue(value)
}

func defaultFormat(fieldType string) string {
	if fieldType == core.TypeFloat {
		return "%.2f"
	}
	return "%.1f%%"
}

func formatValue(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	default:
		return 0, false
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
