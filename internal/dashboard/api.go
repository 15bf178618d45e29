// ABOUTME: JSON API handlers for snapshots, KPIs, panels, and digests.
// ABOUTME: Seeded snapshot requests bypass the cache so they can be replayed.

package dashboard

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/2389/campus-portal/internal/errors"
	"github.com/2389/campus-portal/internal/live"
	"github.com/2389/campus-portal/internal/portal"
	"github.com/2389/campus-portal/panels/core"
)

// SnapshotResponse is the body of GET /api/snapshot.
// ID is empty for seeded replays, which are never cached.
type SnapshotResponse struct {
	ID          string      `json:"id,omitempty"`
	GeneratedAt time.Time   `json:"generated_at"`
	Seed        int64       `json:"seed"`
	KPIs        portal.KPIs `json:"kpis"`
	*portal.Snapshot
}

// PanelResponse is the body of GET /api/panels/{panel}.
type PanelResponse struct {
	core.Info
	Rows []map[string]any `json:"rows"`
}

func (h *Handlers) snapshot(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			apierrors.WriteErrorWithField(w, http.StatusBadRequest, apierrors.ErrInvalidSeed, "seed must be a 64-bit integer", "seed")
			return
		}

		rng, used := portal.NewSeededRNG(seed)
		snap := h.cache.Generator().Generate(rng)
		writeJSON(w, http.StatusOK, SnapshotResponse{
			GeneratedAt: time.Now().UTC(),
			Seed:        used,
			KPIs:        snap.KPIs(),
			Snapshot:    snap,
		})
		return
	}

	snap, gen := h.cache.Snapshot()
	writeJSON(w, http.StatusOK, SnapshotResponse{
		ID:          gen.ID,
		GeneratedAt: gen.GeneratedAt.UTC(),
		Seed:        gen.Seed,
		KPIs:        snap.KPIs(),
		Snapshot:    snap,
	})
}

func (h *Handlers) kpis(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cache.Get().KPIs())
}

func (h *Handlers) listPanels(w http.ResponseWriter, r *http.Request) {
	panels := core.All()
	infos := make([]core.Info, len(panels))
	for i, p := range panels {
		infos[i] = core.Describe(p)
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *Handlers) panelData(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "panel")
	p, ok := core.Get(name)
	if !ok {
		apierrors.WriteErrorWithField(w, http.StatusNotFound, apierrors.ErrNotFound, "panel not found: "+name, "panel")
		return
	}

	rows := p.Rows(h.cache.Get())
	if rows == nil {
		rows = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, PanelResponse{Info: core.Describe(p), Rows: rows})
}

func (h *Handlers) digest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.narrator.Digest(r.Context(), h.cache.Get()))
}

func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) {
	gen := h.cache.Refresh()
	gen.GeneratedAt = gen.GeneratedAt.UTC()
	log.Printf("Snapshot %s regenerated at %s", gen.ID, gen.GeneratedAt.Format(time.RFC3339))

	if h.hub != nil {
		h.hub.Broadcast(live.EventSnapshotRefreshed, gen)
	}
	writeJSON(w, http.StatusOK, gen)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}
