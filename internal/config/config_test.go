// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movie-tracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, "movie-tracker", cfg.TMDB.UserAgent)
	assert.Equal(t, 4, cfg.TMDB.MaxConcurrent)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TTL)
	assert.Empty(t, cfg.Cache.RedisURL)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.Library.DataDir)
	assert.Equal(t, "w342", cfg.Posters.Size)
	assert.Equal(t, 30*time.Second, cfg.Posters.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Posters.DownloadDelay)
	assert.Empty(t, cfg.Posters.Dir)
}

func TestConfigureReadsFile(t *testing.T) {
	path := writeConfig(t, `
tmdb:
  language: fr-FR
  timeout: 3s
  user_agent: tracker-test/1.0
  max_retries: 1
cache:
  redis_url: redis://localhost:6379/2
  ttl: 30m
library:
  data_dir: /tmp/movies
logging:
  level: debug
  format: json
`)
	v := viper.New()
	used, err := Configure(v, path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "fr-FR", cfg.TMDB.Language)
	assert.Equal(t, 3*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, "tracker-test/1.0", cfg.TMDB.UserAgent)
	assert.Equal(t, 1, cfg.TMDB.MaxRetries)
	assert.Equal(t, "redis://localhost:6379/2", cfg.Cache.RedisURL)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "/tmp/movies", cfg.Library.DataDir)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL, "unset keys keep defaults")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "tmdb:\n  language: fr-FR\n")
	t.Setenv("MOVIE_TRACKER_TMDB_LANGUAGE", "de-DE")
	t.Setenv("MOVIE_TRACKER_TMDB_API_KEY", "env-key")

	v := viper.New()
	_, err := Configure(v, path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "de-DE", cfg.TMDB.Language)
	assert.Equal(t, "env-key", cfg.TMDB.APIKey)
}

func TestConfigureMalformedFile(t *testing.T) {
	path := writeConfig(t, "tmdb: [unclosed\n")
	_, err := Configure(viper.New(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"negative rate", "tmdb:\n  requests_per_second: -1\n", "requests_per_second"},
		{"bad log format", "logging:\n  format: xml\n", "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			_, err := Configure(v, writeConfig(t, tt.content))
			require.NoError(t, err)
			_, err = Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
