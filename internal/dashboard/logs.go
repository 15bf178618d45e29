// ABOUTME: Admin request log page.
// ABOUTME: Filters the request log by panel, method, path, status, and viewer.

package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"

	apierrors "github.com/2389/campus-portal/internal/errors"
	"github.com/2389/campus-portal/internal/store"
	"github.com/2389/campus-portal/panels/core"
)

func (h *Handlers) logsList(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		apierrors.WriteError(w, http.StatusServiceUnavailable, apierrors.ErrServiceUnavailable, "request log is not configured")
		return
	}

	params := r.URL.Query()
	query := store.RequestLogQuery{
		Limit:      100,
		PanelName:  params.Get("panel"),
		Method:     params.Get("method"),
		PathPrefix: params.Get("path"),
		ViewerID:   params.Get("viewer"),
	}
	if sc := params.Get("status"); sc != "" {
		code, err := strconv.Atoi(sc)
		if err != nil || code < 100 || code > 599 {
			apierrors.WriteErrorWithField(w, http.StatusBadRequest, apierrors.ErrInvalidRequest, "status must be an HTTP status code", "status")
			return
		}
		query.StatusCode = code
	}

	logs, err := h.store.GetRequestLogs(&query)
	if err != nil {
		apierrors.WriteErrorWithDetails(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to read request logs", err.Error())
		return
	}

	// Pretty-print JSON in request/response bodies
	for _, entry := range logs {
		entry.RequestBody = prettyJSON(entry.RequestBody)
		entry.ResponseBody = prettyJSON(entry.ResponseBody)
	}

	stats, err := h.store.GetRequestLogStats()
	if err != nil {
		apierrors.WriteErrorWithDetails(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to read request stats", err.Error())
		return
	}

	topEndpoints, err := h.store.GetTopEndpoints(10)
	if err != nil {
		apierrors.WriteErrorWithDetails(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to read top endpoints", err.Error())
		return
	}

	h.writePage(w, "logs", map[string]any{
		"Logs":         logs,
		"Stats":        stats,
		"TopEndpoints": topEndpoints,
		"PanelNames":   core.Names(),
		"Query":        query,
	})
}

// prettyJSON formats JSON with indentation, or returns original string if not valid JSON
func prettyJSON(s string) string {
	if s == "" {
		return s
	}
	var obj any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return s // Not valid JSON, return as-is
	}
	formatted, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return s
	}
	return string(formatted)
}
