// ABOUTME: HTTP handlers for the campus growth dashboard.
// ABOUTME: Serves the dashboard page, panel fragments, and the admin traffic pages.

package dashboard

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/2389/campus-portal/internal/errors"
	"github.com/2389/campus-portal/internal/live"
	"github.com/2389/campus-portal/internal/narrate"
	"github.com/2389/campus-portal/internal/portal"
	"github.com/2389/campus-portal/internal/store"
	"github.com/2389/campus-portal/panels/core"
)

type Handlers struct {
	cache    *portal.Cache
	narrator *narrate.Narrator
	store    *store.Store
	hub      *live.Hub
}

// NewHandlers wires the dashboard to its snapshot cache, digest narrator, and
// request log. A nil store disables the admin pages.
func NewHandlers(cache *portal.Cache, narrator *narrate.Narrator, s *store.Store) *Handlers {
	return &Handlers{cache: cache, narrator: narrator, store: s}
}

// WithLiveHub enables /api/live and pushes a snapshot_refreshed event on every refresh.
func (h *Handlers) WithLiveHub(hub *live.Hub) *Handlers {
	h.hub = hub
	return h
}

func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
	r.Get("/panels/{panel}", h.panelFragment)

	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", h.snapshot)
		r.Get("/kpis", h.kpis)
		r.Get("/panels", h.listPanels)
		r.Get("/panels/{panel}", h.panelData)
		r.Get("/digest", h.digest)
		r.Post("/refresh", h.refresh)
		if h.hub != nil {
			r.Method(http.MethodGet, "/live", h.hub)
		}
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/", h.admin)
		r.Get("/logs", h.logsList)
	})
}

// dashboardPanel is one rendered panel on the dashboard page.
type dashboardPanel struct {
	HTML template.HTML
	Wide bool
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	snap, gen := h.cache.Snapshot()

	var panels []dashboardPanel
	for _, p := range core.All() {
		panels = append(panels, dashboardPanel{
			HTML: template.HTML(RenderPanel(p, p.Rows(snap))),
			Wide: p.Kind() == core.KindKPI || p.Kind() == core.KindMap,
		})
	}

	h.writePage(w, "dashboard", map[string]any{
		"Panels":     panels,
		"Generation": gen,
		"Live":       h.hub != nil,
	})
}

func (h *Handlers) panelFragment(w http.ResponseWriter, r *http.Request) {
	p, ok := core.Get(chi.URLParam(r, "panel"))
	if !ok {
		http.Error(w, "Panel not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(RenderPanel(p, p.Rows(h.cache.Get()))))
}

// panelTraffic is the admin summary of one panel's requests.
type panelTraffic struct {
	Name           string
	Title          string
	RequestCount   int
	ErrorRate      float64
	RecentRequests []*store.RequestLog
}

func (h *Handlers) admin(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		apierrors.WriteError(w, http.StatusServiceUnavailable, apierrors.ErrServiceUnavailable, "request log is not configured")
		return
	}

	stats, err := h.store.GetRequestLogStats()
	if err != nil {
		apierrors.WriteErrorWithDetails(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to read request stats", err.Error())
		return
	}

	h.writePage(w, "admin", map[string]any{
		"Stats":  stats,
		"Panels": getPanelTraffic(h.store),
	})
}

// getPanelTraffic fetches request counts, error rates, and recent requests for every panel
func getPanelTraffic(s *store.Store) []panelTraffic {
	yesterday := time.Now().Add(-24 * time.Hour)
	var traffic []panelTraffic

	for _, p := range core.All() {
		name := p.Name()

		requestCount, err := s.GetPanelRequestCount(name, yesterday)
		if err != nil {
			log.Printf("Failed to count requests for panel %s: %v", name, err)
		}
		errorRate, err := s.GetPanelErrorRate(name, yesterday)
		if err != nil {
			log.Printf("Failed to compute error rate for panel %s: %v", name, err)
		}
		recentRequests, err := s.GetRecentRequests(name, 5)
		if err != nil {
			log.Printf("Failed to load recent requests for panel %s: %v", name, err)
		}

		traffic = append(traffic, panelTraffic{
			Name:           name,
			Title:          p.Title(),
			RequestCount:   requestCount,
			ErrorRate:      errorRate,
			RecentRequests: recentRequests,
		})
	}

	return traffic
}

// writePage renders into a buffer first so a template error can still become a 500.
func (h *Handlers) writePage(w http.ResponseWriter, page string, data any) {
	var buf bytes.Buffer
	if err := renderPage(&buf, page, data); err != nil {
		log.Printf("Failed to render %s page: %v", page, err)
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrInternal, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
