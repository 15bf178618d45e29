// ABOUTME: HTTP server construction for the portal.
// ABOUTME: Builds the generator, snapshot cache, narrator, and chi router with middleware.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/2389/campus-portal/internal/auth"
	"github.com/2389/campus-portal/internal/config"
	"github.com/2389/campus-portal/internal/dashboard"
	"github.com/2389/campus-portal/internal/live"
	"github.com/2389/campus-portal/internal/logging"
	"github.com/2389/campus-portal/internal/narrate"
	"github.com/2389/campus-portal/internal/portal"
	"github.com/2389/campus-portal/internal/store"
	_ "github.com/2389/campus-portal/panels/builtin" // Register built-in dashboard panels
)

func runServe(cfg config.Config) error {
	var err error
	cfg.DBPath, err = validateAndCleanDBPath(cfg.DBPath)
	if err != nil {
		return err
	}

	srv, err := newServer(cfg)
	if err != nil {
		return err
	}

	addr := ":" + cfg.Port
	log.Printf("Campus Growth Portal listening on %s", addr)
	log.Printf("Database: %s", cfg.DBPath)
	return http.ListenAndServe(addr, srv)
}

// newGenerator builds a generator over the built-in reference data.
func newGenerator(cfg config.Config) (*portal.Generator, error) {
	opts := portal.DefaultOptions()
	opts.IndependentActivity = cfg.IndependentActivity

	gen, err := portal.NewGenerator(portal.DefaultReference(), opts)
	if err != nil {
		return nil, fmt.Errorf("invalid reference data: %w", err)
	}
	return gen, nil
}

func newServer(cfg config.Config) (http.Handler, error) {
	gen, err := newGenerator(cfg)
	if err != nil {
		return nil, err
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	cache := portal.NewCache(gen, cfg.Seed)
	if cfg.Seed == 0 {
		log.Printf("No PORTAL_SEED set, generating from time-based seed %d", cache.Seed())
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(auth.Middleware)
	r.Use(logging.Middleware(s))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	// Favicon
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	narrator := narrate.NewNarrator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	dashboard.NewHandlers(cache, narrator, s).WithLiveHub(live.NewHub()).RegisterRoutes(r)

	return r, nil
}
