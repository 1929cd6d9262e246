// Package config collects the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/DavidGracias/stream-save/internal/store"
)

// Config is the full service configuration. Every field has a default; an
// empty environment yields a working local setup.
type Config struct {
	// BindAddr is the address the HTTP server binds to. Default: "0.0.0.0".
	BindAddr string
	// Port is the HTTP port. Default: 5173 (kept from earlier releases).
	Port int
	// DBName is the per-tenant database name. Default: "streamsave".
	DBName string
	// Collections are the per-tenant collection names.
	Collections store.CollectionNames
	// LogLevel is the minimum zap log level. Default: "info".
	LogLevel string
	// LogEncoding is "console" or "json". Default: "console".
	LogEncoding string
	// MetaTimeout is the timeout per metadata source request. Default: 5s.
	MetaTimeout time.Duration
	// Metrics enables the metrics middleware and the /metrics endpoint.
	Metrics bool
	// CacheAgeCatalogs is the Cache-Control max-age for catalog responses.
	CacheAgeCatalogs time.Duration
	// CacheAgeStreams is the Cache-Control max-age for stream responses.
	CacheAgeStreams time.Duration
}

// FromEnv loads the configuration from a .env file (if present) and the
// process environment.
func FromEnv() (Config, error) {
	// A missing .env file is fine, the real environment still applies.
	_ = godotenv.Load()

	cfg := Config{
		BindAddr: envString("BIND_ADDR", "0.0.0.0"),
		DBName:   envString("DB_NAME", "streamsave"),
		Collections: store.CollectionNames{
			MovieCatalog:  envString("MOVIE_CATALOG", store.DefaultCollectionNames.MovieCatalog),
			MovieStreams:  envString("MOVIE_STREAMS", store.DefaultCollectionNames.MovieStreams),
			SeriesCatalog: envString("SERIES_CATALOG", store.DefaultCollectionNames.SeriesCatalog),
		},
		LogLevel:    envString("LOG_LEVEL", "info"),
		LogEncoding: envString("LOG_ENCODING", "console"),
	}

	var err error
	if cfg.Port, err = envInt("PORT", 5173); err != nil {
		return Config{}, err
	}
	if cfg.MetaTimeout, err = envDuration("META_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Metrics, err = envBool("METRICS", false); err != nil {
		return Config{}, err
	}
	if cfg.CacheAgeCatalogs, err = envDuration("CACHE_AGE_CATALOGS", 0); err != nil {
		return Config{}, err
	}
	if cfg.CacheAgeStreams, err = envDuration("CACHE_AGE_STREAMS", 0); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %v value %q: %w", key, v, err)
	}
	return i, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %v value %q: %w", key, v, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %v value %q: %w", key, v, err)
	}
	return d, nil
}
