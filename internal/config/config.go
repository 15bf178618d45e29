// ABOUTME: Runtime configuration for the portal, read from the environment.
// ABOUTME: Loads .env files first, then parses typed settings with env struct tags.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting.
type Config struct {
	Port                string `env:"PORTAL_PORT" envDefault:"8501"`
	DBPath              string `env:"PORTAL_DB_PATH"`
	Seed                int64  `env:"PORTAL_SEED" envDefault:"0"`
	IndependentActivity bool   `env:"PORTAL_INDEPENDENT_ACTIVITY" envDefault:"false"`
	Debug               bool   `env:"PORTAL_DEBUG" envDefault:"false"`
	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	OpenAIModel         string `env:"OPENAI_MODEL" envDefault:"gpt-5-mini"`
}

// LoadDotEnv loads the first .env found in the current or parent dirs, then ~/.env.
// Variables already set in the environment win.
func LoadDotEnv() {
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		godotenv.Load(filepath.Join(home, ".env"))
	}
}

// Load reads .env files and parses the environment into a Config.
func Load() (Config, error) {
	LoadDotEnv()
	return Parse()
}

// Parse reads the current environment into a Config without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
