// Package config loads application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the server.
type Config struct {
	Port          string
	DatabasePath  string
	SessionSecret string
	CookieSecure  bool
	LogLevel      slog.Level

	TMDBAPIKey       string
	TMDBBaseURL      string
	TMDBLanguage     string
	TMDBIncludeAdult bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; a missing file is not
// an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         envOrDefault("PORT", "8080"),
		DatabasePath: envOrDefault("DATABASE_PATH", "movie-ranker.db"),
		TMDBBaseURL:  envOrDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBLanguage: envOrDefault("TMDB_LANGUAGE", "en-US"),
	}

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}
	if len(cfg.SessionSecret) < 32 {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}

	cfg.TMDBAPIKey = os.Getenv("TMDB_API_KEY")
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY environment variable is required")
	}

	// Default to secure cookies; disable only for local development.
	cfg.CookieSecure = os.Getenv("COOKIE_SECURE") != "false"

	if v := os.Getenv("TMDB_INCLUDE_ADULT"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TMDB_INCLUDE_ADULT %q: %w", v, err)
		}
		cfg.TMDBIncludeAdult = parsed
	}

	switch envOrDefault("LOG_LEVEL", "info") {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", os.Getenv("LOG_LEVEL"))
	}

	return cfg, nil
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
