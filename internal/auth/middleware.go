// ABOUTME: Viewer identification middleware for dashboard requests.
// ABOUTME: Reads an optional Bearer viewer:NAME token and puts the viewer on the request context.

package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const viewerContextKey contextKey = "viewer"

// Anonymous is the viewer recorded when a request names nobody.
const Anonymous = "anonymous"

// Middleware attaches the viewer named by the Authorization header. It never rejects a request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer := extractViewer(r.Header.Get("Authorization"))
		ctx := context.WithValue(r.Context(), viewerContextKey, viewer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ViewerFromContext(ctx context.Context) string {
	viewer, ok := ctx.Value(viewerContextKey).(string)
	if !ok || viewer == "" {
		return Anonymous
	}
	return viewer
}

func extractViewer(authHeader string) string {
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return Anonymous
	}

	// Only "viewer:" tokens carry a name; the dashboard is public otherwise.
	if name, ok := strings.CutPrefix(token, "viewer:"); ok {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return Anonymous
}
