package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the client.
type Config struct {
	DatabaseURL string
	TokenSecret string
	PrefsDir    string
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is applied first if present,
// without overriding variables already set in the environment.
func Load() (Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL: strings.TrimSpace(os.Getenv("TASKLIST_DB")),
		TokenSecret: strings.TrimSpace(os.Getenv("TASKLIST_TOKEN_SECRET")),
		PrefsDir:    strings.TrimSpace(os.Getenv("TASKLIST_PREFS_DIR")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "tasklist.db"
	}

	if cfg.PrefsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.PrefsDir = filepath.Join(home, ".tasklist")
	}

	if cfg.TokenSecret == "" {
		return cfg, fmt.Errorf("TASKLIST_TOKEN_SECRET is required")
	}

	return cfg, nil
}
