// ABOUTME: Panel attribution for request logging.
// ABOUTME: Maps a request path to the dashboard panel or endpoint it served.

package logging

import "strings"

// GetPanelFromPath returns the panel slug a path serves, or a fixed name for
// the non-panel endpoints.
func GetPanelFromPath(path string) string {
	for _, prefix := range []string{"/api/panels/", "/panels/"} {
		if rest, ok := strings.CutPrefix(path, prefix); ok {
			name, _, _ := strings.Cut(rest, "/")
			if name != "" {
				return name
			}
		}
	}

	switch path {
	case "/":
		return "dashboard"
	case "/api/snapshot":
		return "snapshot"
	case "/api/kpis":
		return "kpis"
	case "/api/panels":
		return "panels"
	case "/api/digest":
		return "digest"
	case "/api/refresh":
		return "refresh"
	}

	return "unknown"
}
