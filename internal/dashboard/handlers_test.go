// ABOUTME: Tests for dashboard HTTP handlers.
// ABOUTME: Verifies the dashboard page, panel fragments, JSON API, and admin pages.

package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	apierrors "github.com/2389/campus-portal/internal/errors"
	"github.com/2389/campus-portal/internal/live"
	"github.com/2389/campus-portal/internal/narrate"
	"github.com/2389/campus-portal/internal/portal"
	"github.com/2389/campus-portal/internal/store"
	_ "github.com/2389/campus-portal/panels/builtin"
	"github.com/2389/campus-portal/panels/core"
)

const testSeed = 42

func newTestRouter(t *testing.T, s *store.Store) http.Handler {
	t.Helper()
	return newSeededTestRouter(t, s, testSeed)
}

func newSeededTestRouter(t *testing.T, s *store.Store, seed int64) http.Handler {
	t.Helper()
	gen, err := portal.NewGenerator(portal.DefaultReference(), portal.DefaultOptions())
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	h := NewHandlers(portal.NewCache(gen, seed), narrate.NewNarrator("", ""), s)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "dashboard.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.ErrorResponse {
	t.Helper()
	var resp apierrors.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestDashboardPage(t *testing.T) {
	r := newTestRouter(t, nil)
	w := do(t, r, "GET", "/")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := w.Body.String()
	for _, name := range core.Names() {
		if !strings.Contains(body, `id="panel-`+name+`"`) {
			t.Errorf("dashboard missing panel %q", name)
		}
	}
	if !strings.Contains(body, "Outreach &amp; Onboarding Funnel") {
		t.Error("dashboard missing escaped funnel title")
	}
	if !strings.Contains(body, "seed 42") {
		t.Error("dashboard should show the seed it was generated from")
	}
}

func TestPanelFragment(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(t, r, "GET", "/panels/leaderboard")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, `<section id="panel-leaderboard"`) {
		t.Errorf("fragment should be a bare panel section, got %.60q", body)
	}
	if strings.Contains(body, "<html") {
		t.Error("fragment should not include the page layout")
	}

	if w := do(t, r, "GET", "/panels/nope"); w.Code != http.StatusNotFound {
		t.Errorf("unknown panel status = %d, want 404", w.Code)
	}
}

func TestSnapshotAPI_Cached(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(t, r, "GET", "/api/snapshot")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		ID          string                   `json:"id"`
		GeneratedAt time.Time                `json:"generated_at"`
		Seed        int64                    `json:"seed"`
		KPIs        portal.KPIs              `json:"kpis"`
		Reps        []portal.Representative  `json:"reps"`
		Campuses    []portal.CampusAggregate `json:"campuses"`
		ActivityLog []string                 `json:"activity_log"`
		Funnel      []portal.FunnelStage     `json:"funnel"`
		MapPoints   []portal.MapPoint        `json:"map_points"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Seed != testSeed {
		t.Errorf("seed = %d, want %d", resp.Seed, testSeed)
	}
	if resp.GeneratedAt.IsZero() {
		t.Error("generated_at should be set")
	}
	if resp.ID == "" {
		t.Error("cached snapshot should carry an id")
	}
	if len(resp.Reps) != 50 || len(resp.ActivityLog) != 10 || len(resp.Funnel) != 4 || len(resp.MapPoints) != 10 {
		t.Errorf("unexpected sizes: reps=%d activity=%d funnel=%d map=%d",
			len(resp.Reps), len(resp.ActivityLog), len(resp.Funnel), len(resp.MapPoints))
	}
	if resp.KPIs.TotalReps != 50 {
		t.Errorf("kpis.total_reps = %d, want 50", resp.KPIs.TotalReps)
	}
	if resp.KPIs.TopCampus != resp.Campuses[0].University {
		t.Errorf("kpis.top_campus = %q, want %q", resp.KPIs.TopCampus, resp.Campuses[0].University)
	}
}

func TestSnapshotAPI_SeedReplays(t *testing.T) {
	r := newTestRouter(t, nil)

	decode := func() map[string]any {
		w := do(t, r, "GET", "/api/snapshot?seed=7")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var m map[string]any
		if err := json.NewDecoder(w.Body).Decode(&m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		delete(m, "generated_at")
		if _, ok := m["id"]; ok {
			t.Error("seeded replay should not carry a cache id")
		}
		return m
	}

	first, second := decode(), decode()
	if !reflect.DeepEqual(first, second) {
		t.Error("same seed produced different snapshots")
	}
	if first["seed"] != float64(7) {
		t.Errorf("seed = %v, want 7", first["seed"])
	}
}

func TestSnapshotAPI_InvalidSeed(t *testing.T) {
	r := newTestRouter(t, nil)

	for _, seed := range []string{"abc", "1.5", "99999999999999999999"} {
		t.Run(seed, func(t *testing.T) {
			w := do(t, r, "GET", "/api/snapshot?seed="+seed)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			resp := decodeError(t, w)
			if resp.Code != apierrors.ErrInvalidSeed || resp.Field != "seed" {
				t.Errorf("error = %+v", resp)
			}
		})
	}
}

func TestKPIsAPI(t *testing.T) {
	r := newTestRouter(t, nil)
	w := do(t, r, "GET", "/api/kpis")

	var k portal.KPIs
	if err := json.NewDecoder(w.Body).Decode(&k); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if k.TotalReps != 50 || k.TopCampus == "" {
		t.Errorf("kpis = %+v", k)
	}
	if k.TotalSignups < 50*5 || k.TotalSignups > 50*99 {
		t.Errorf("total_signups = %d out of range", k.TotalSignups)
	}
}

func TestPanelsAPI(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(t, r, "GET", "/api/panels")
	var infos []core.Info
	if err := json.NewDecoder(w.Body).Decode(&infos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"kpis", "leaderboard", "top-reps", "funnel", "activity", "footprint"}
	if len(infos) != len(want) {
		t.Fatalf("got %d panels, want %d", len(infos), len(want))
	}
	for i, info := range infos {
		if info.Name != want[i] {
			t.Errorf("panel %d = %q, want %q", i, info.Name, want[i])
		}
	}

	w = do(t, r, "GET", "/api/panels/leaderboard")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var panel struct {
		Name    string           `json:"name"`
		Kind    string           `json:"kind"`
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}
	if err := json.NewDecoder(w.Body).Decode(&panel); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if panel.Kind != core.KindTable || len(panel.Columns) != 5 || panel.Columns[4] != "Growth (MoM)" {
		t.Errorf("leaderboard metadata = %+v", panel)
	}
	if len(panel.Rows) == 0 {
		t.Error("leaderboard should have rows")
	}
	for i := 1; i < len(panel.Rows); i++ {
		if panel.Rows[i]["signups_last_30d"].(float64) > panel.Rows[i-1]["signups_last_30d"].(float64) {
			t.Errorf("leaderboard not sorted by sign-ups at row %d", i)
		}
	}

	w = do(t, r, "GET", "/api/panels/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if resp := decodeError(t, w); resp.Code != apierrors.ErrNotFound {
		t.Errorf("code = %q, want %q", resp.Code, apierrors.ErrNotFound)
	}
}

func TestDigestAPI_Static(t *testing.T) {
	r := newTestRouter(t, nil)
	w := do(t, r, "GET", "/api/digest")

	var d narrate.Digest
	if err := json.NewDecoder(w.Body).Decode(&d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Source != narrate.SourceStatic || d.Headline == "" || len(d.Highlights) == 0 {
		t.Errorf("digest = %+v", d)
	}
}

func TestRefreshAPI_FixedSeedRegeneratesSameData(t *testing.T) {
	r := newTestRouter(t, nil)

	before := do(t, r, "GET", "/api/kpis").Body.String()
	oldID := decodeMap(t, do(t, r, "GET", "/api/snapshot"))["id"]

	w := do(t, r, "POST", "/api/refresh")
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, want 200", w.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["generated_at"] == nil || resp["seed"] != float64(testSeed) {
		t.Errorf("refresh response = %v", resp)
	}
	if resp["id"] == nil || resp["id"] == oldID {
		t.Errorf("refresh id = %v, want a new id (old %v)", resp["id"], oldID)
	}

	after := do(t, r, "GET", "/api/kpis").Body.String()
	if before != after {
		t.Errorf("fixed seed should regenerate identical KPIs:\n%s\n%s", before, after)
	}

	if w := do(t, r, "GET", "/api/refresh"); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/refresh status = %d, want 405", w.Code)
	}
}

func TestAdminPage(t *testing.T) {
	s := newTestStore(t)
	for _, status := range []int{200, 200, 500, 404} {
		if err := s.LogRequest(&store.RequestLog{
			PanelName:  "leaderboard",
			Method:     "GET",
			Path:       "/api/panels/leaderboard",
			StatusCode: status,
			ViewerID:   "dana",
		}); err != nil {
			t.Fatalf("LogRequest: %v", err)
		}
	}

	r := newTestRouter(t, s)
	w := do(t, r, "GET", "/admin")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := w.Body.String()
	for _, name := range core.Names() {
		if !strings.Contains(body, `id="admin-panel-`+name+`"`) {
			t.Errorf("admin page missing panel %q", name)
		}
	}
	if !strings.Contains(body, "4 requests · 50.0% errors") {
		t.Error("admin page should show leaderboard traffic")
	}
}

func TestAdminPages_NoStore(t *testing.T) {
	r := newTestRouter(t, nil)
	for _, path := range []string{"/admin", "/admin/logs"} {
		w := do(t, r, "GET", path)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", path, w.Code)
		}
	}
}

func TestLogsPage(t *testing.T) {
	s := newTestStore(t)
	logs := []*store.RequestLog{
		{PanelName: "funnel", Method: "GET", Path: "/api/panels/funnel", StatusCode: 200, ResponseBody: `{"name":"funnel"}`},
		{PanelName: "snapshot", Method: "GET", Path: "/api/snapshot", StatusCode: 400, ViewerID: "lee"},
	}
	for _, entry := range logs {
		if err := s.LogRequest(entry); err != nil {
			t.Fatalf("LogRequest: %v", err)
		}
	}

	r := newTestRouter(t, s)

	w := do(t, r, "GET", "/admin/logs?panel=funnel")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "/api/panels/funnel") {
		t.Error("filtered logs should include the funnel request")
	}
	if strings.Contains(body, "GET /api/snapshot</summary>") {
		t.Error("filtered logs should not include other panels")
	}

	w = do(t, r, "GET", "/admin/logs?status=abc")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp := decodeError(t, w); resp.Code != apierrors.ErrInvalidRequest || resp.Field != "status" {
		t.Errorf("error = %+v", resp)
	}
}

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"not json", "not json"},
		{`{"a":1}`, "{\n  \"a\": 1\n}"},
	}
	for _, tt := range tests {
		if got := prettyJSON(tt.in); got != tt.want {
			t.Errorf("prettyJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRefreshAPI_BroadcastsToLiveClients(t *testing.T) {
	gen, err := portal.NewGenerator(portal.DefaultReference(), portal.DefaultOptions())
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	hub := live.NewHub()
	r := chi.NewRouter()
	NewHandlers(portal.NewCache(gen, testSeed), narrate.NewNarrator("", ""), nil).WithLiveHub(hub).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/live", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg live.Message
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != live.EventHello {
		t.Fatalf("hello = %+v, err = %v", msg, err)
	}

	resp, err := http.Post(srv.URL+"/api/refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/refresh error = %v", err)
	}
	var refreshed portal.Generation
	json.NewDecoder(resp.Body).Decode(&refreshed)
	resp.Body.Close()

	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != live.EventSnapshotRefreshed {
		t.Fatalf("event type = %q, want %q", msg.Type, live.EventSnapshotRefreshed)
	}
	data, _ := msg.Data.(map[string]any)
	if data["id"] != refreshed.ID || data["seed"] != float64(testSeed) {
		t.Errorf("event data = %v, want id %s", data, refreshed.ID)
	}
}

func TestLiveRoute_DisabledWithoutHub(t *testing.T) {
	r := newTestRouter(t, nil)
	if w := do(t, r, "GET", "/api/live"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(w.Body).Decode(&m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return m
}

func TestSnapshotAPI_ReportedSeedReplaysAfterRefresh(t *testing.T) {
	r := newSeededTestRouter(t, nil, 0)

	// Seeds are 63-bit, so keep them as exact decimals rather than float64.
	decode := func(target string) map[string]any {
		w := do(t, r, "GET", target)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", target, w.Code)
		}
		dec := json.NewDecoder(w.Body)
		dec.UseNumber()
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		delete(m, "generated_at")
		delete(m, "id")
		return m
	}

	for i := 0; i < 3; i++ {
		if i > 0 {
			if w := do(t, r, "POST", "/api/refresh"); w.Code != http.StatusOK {
				t.Fatalf("refresh status = %d, want 200", w.Code)
			}
		}

		cached := decode("/api/snapshot")
		seed, ok := cached["seed"].(json.Number)
		if !ok {
			t.Fatalf("seed = %v, want a number", cached["seed"])
		}

		replay := decode("/api/snapshot?seed=" + seed.String())
		if !reflect.DeepEqual(replay, cached) {
			t.Errorf("generation %d: replaying reported seed %s gave a different snapshot", i, seed)
		}
	}
}
