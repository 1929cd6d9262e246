package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.BindAddr)
	require.Equal(t, 5173, cfg.Port)
	require.Equal(t, "streamsave", cfg.DBName)
	require.Equal(t, "movieCatalog", cfg.Collections.MovieCatalog)
	require.Equal(t, "movieStreams", cfg.Collections.MovieStreams)
	require.Equal(t, "seriesCatalog", cfg.Collections.SeriesCatalog)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 5*time.Second, cfg.MetaTimeout)
	require.False(t, cfg.Metrics)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_NAME", "mydb")
	t.Setenv("MOVIE_CATALOG", "films")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS", "true")
	t.Setenv("CACHE_AGE_CATALOGS", "24h")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "mydb", cfg.DBName)
	require.Equal(t, "films", cfg.Collections.MovieCatalog)
	require.Equal(t, "debug", cfg.LogLevel)
	require.True(t, cfg.Metrics)
	require.Equal(t, 24*time.Hour, cfg.CacheAgeCatalogs)
}

func TestFromEnvInvalidValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := FromEnv()
	require.Error(t, err)
}
