// ABOUTME: Entry point for the campus growth portal.
// ABOUTME: Wires config, generator, store, and dashboard handlers behind cobra commands.

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2389/campus-portal/internal/config"
	"github.com/2389/campus-portal/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "portal",
		Short: "Campus Growth Portal: synthetic campus ambassador dashboard",
		Long: `Campus Growth Portal generates a synthetic snapshot of a campus ambassador
program (reps, campus rollups, activity log, outreach funnel, footprint map)
and serves it as a dashboard and JSON API.

Quick Start:
  portal serve              # Start the dashboard on port 8501
  portal generate --pretty  # Print one snapshot as JSON
  portal reset              # Wipe the request log database`,
		SilenceUsage: true,
	}

	// Calculate default database path once (not per-command)
	defaultDBPath := getDefaultDBPath(cfg)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the dashboard HTTP server on the specified port.

The server provides:
  • Dashboard at http://localhost:PORT/
  • JSON API under /api (snapshot, kpis, panels, digest, refresh)
  • Panel traffic admin at http://localhost:PORT/admin
  • Health check at http://localhost:PORT/healthz

Viewers:
  Requests may name a viewer with: Authorization: Bearer viewer:NAME
  Unnamed requests are logged as "anonymous".

Environment Variables:
  PORTAL_PORT                  Server port (default: 8501)
  PORTAL_DB_PATH               Request log database path
  PORTAL_SEED                  Fixed generation seed (0 = time-based)
  PORTAL_INDEPENDENT_ACTIVITY  Draw activity names and universities independently
  OPENAI_API_KEY               Enable AI-written digests
  OPENAI_MODEL                 Digest model (default: gpt-5-mini)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg)
		},
	}
	serveCmd.Flags().StringVarP(&cfg.Port, "port", "p", cfg.Port, "Port to listen on")
	serveCmd.Flags().StringVarP(&cfg.DBPath, "db", "d", defaultDBPath, "Database path")
	serveCmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Generation seed (0 picks a time-based seed)")
	serveCmd.Flags().BoolVar(&cfg.IndependentActivity, "independent-activity", cfg.IndependentActivity, "Sample activity names and universities independently")

	var pretty, withDigest bool
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Print one snapshot as JSON",
		Long: `Generate one snapshot and print it, with its KPIs, as JSON on stdout.

The seed used is printed to stderr so the run can be replayed:
  portal generate --seed 42 --pretty

With --digest the output also carries a written program digest
(AI-written when OPENAI_API_KEY is set, static otherwise).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cfg, generateOptions{
				Pretty: pretty,
				Digest: withDigest,
				Out:    cmd.OutOrStdout(),
				Err:    cmd.ErrOrStderr(),
			})
		},
	}
	generateCmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Generation seed (0 picks a time-based seed)")
	generateCmd.Flags().BoolVar(&cfg.IndependentActivity, "independent-activity", cfg.IndependentActivity, "Sample activity names and universities independently")
	generateCmd.Flags().BoolVar(&pretty, "pretty", false, "Indent JSON output")
	generateCmd.Flags().BoolVar(&withDigest, "digest", false, "Include a written program digest")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the request log database",
		Long: `Delete the request log database file and create a fresh, empty one.

Generated data is never stored, so this only clears panel traffic history.

Warning: This permanently deletes all logged requests!`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cfg.DBPath)
		},
	}
	resetCmd.Flags().StringVarP(&cfg.DBPath, "db", "d", defaultDBPath, "Database path")

	rootCmd.AddCommand(serveCmd, generateCmd, resetCmd)
	return rootCmd
}

// validateAndCleanDBPath validates and cleans a database path.
// Handles Unix/Linux, macOS, and Windows paths (including UNC and drive letters).
func validateAndCleanDBPath(path string) (string, error) {
	cleanPath := strings.TrimSpace(path)
	cleanPath = filepath.Clean(cleanPath)

	// Reject empty and root-like paths
	if cleanPath == "" || cleanPath == "." || cleanPath == "/" {
		return "", fmt.Errorf("database path cannot be empty, '.', or '/'")
	}

	// Windows: reject bare drive letters (e.g., "C:", "D:")
	if runtime.GOOS == "windows" && len(cleanPath) == 2 && cleanPath[1] == ':' {
		return "", fmt.Errorf("database path cannot be a bare drive letter")
	}

	// Check for path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return "", fmt.Errorf("database path cannot contain '..'")
	}

	// Reject known problematic patterns
	badPatterns := []string{
		".git",
		".svn",
		"node_modules",
		".env",
		"credentials",
		"secret",
	}
	lowerPath := strings.ToLower(cleanPath)
	for _, pattern := range badPatterns {
		if strings.Contains(lowerPath, pattern) {
			return "", fmt.Errorf("database path cannot contain '%s' directory", pattern)
		}
	}

	return cleanPath, nil
}

func runReset(dbPath string) error {
	dbPath, err := validateAndCleanDBPath(dbPath)
	if err != nil {
		return err
	}

	// Remove existing database - ignore if file doesn't exist
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing database: %w", err)
	}

	s, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	log.Printf("Request log reset: %s", dbPath)
	return nil
}

// getDefaultDBPath returns the default database path following XDG Base Directory spec
// Priority: PORTAL_DB_PATH > ./portal.db (if present) > XDG_DATA_HOME/campus-portal/portal.db
func getDefaultDBPath(cfg config.Config) string {
	// 1. Configured path first
	if cfg.DBPath != "" {
		envPath := filepath.Clean(strings.TrimSpace(cfg.DBPath))
		if envPath == "" || envPath == "." {
			log.Printf("Warning: PORTAL_DB_PATH is invalid (empty or '.'), using default path")
		} else {
			return envPath
		}
	}

	// 2. Existing ./portal.db in the working directory
	cwdPath := "./portal.db"
	if _, err := os.Stat(cwdPath); err == nil {
		return cwdPath
	}

	// 3. Use XDG Base Directory spec (or Windows equivalent)
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil || homeDir == "" || homeDir == "/" {
			// Fallback to current directory if we can't get valid home dir
			log.Printf("Warning: Could not determine valid home directory (%q): %v, using ./portal.db", homeDir, err)
			return cwdPath
		}

		// Windows: %LOCALAPPDATA% or ~/AppData/Local
		// Unix/Linux/macOS: ~/.local/share (XDG spec)
		if runtime.GOOS == "windows" {
			dataHome = os.Getenv("LOCALAPPDATA")
			if dataHome == "" {
				dataHome = filepath.Join(homeDir, "AppData", "Local")
			}
		} else {
			dataHome = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(dataHome, "campus-portal")
	xdgDBPath := filepath.Join(dataDir, "portal.db")

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Printf("Warning: Could not create data directory %s: %v, using ./portal.db", dataDir, err)
		return cwdPath
	}

	// Verify we can write to the directory
	testFile := filepath.Join(dataDir, ".write-test")
	f, err := os.Create(testFile)
	if err != nil {
		log.Printf("Warning: Cannot write to data directory %s: %v, using ./portal.db", dataDir, err)
		return cwdPath
	}
	if err := f.Close(); err != nil {
		log.Printf("Warning: Error closing test file: %v", err)
	}
	if err := os.Remove(testFile); err != nil {
		log.Printf("Warning: Could not remove test file %s: %v", testFile, err)
	}

	// Only log in debug mode to avoid polluting --help output
	if cfg.Debug {
		log.Printf("Using database location: %s", xdgDBPath)
	}

	return xdgDBPath
}
