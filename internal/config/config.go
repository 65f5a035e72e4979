// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config layers defaults, the movie-tracker.yaml file, and
// MOVIE_TRACKER_* environment variables into a types.AppConfig.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/movie-tracker/pkg/types"
)

const (
	// Name is the config file base name and the per-user directory name.
	Name = "movie-tracker"

	// EnvPrefix prefixes environment overrides, e.g. MOVIE_TRACKER_TMDB_API_KEY.
	EnvPrefix = "MOVIE_TRACKER"
)

// Dir returns the per-user configuration directory, ~/.config/movie-tracker.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", Name)
}

// Configure prepares v: defaults, config file search paths (or cfgFile when
// set), and environment overrides. It then reads the config file. A missing
// file is not an error; a malformed one is. It returns the file used, if any.
func Configure(v *viper.Viper, cfgFile string) (string, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// SetDefaults registers a default for every key. Keys must be known to v for
// AutomaticEnv to apply to Unmarshal, so empty defaults are set too.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.image_base_url", "https://image.tmdb.org/t/p")
	v.SetDefault("tmdb.language", "en-US")
	v.SetDefault("tmdb.timeout", 10*time.Second)
	v.SetDefault("tmdb.user_agent", Name)
	v.SetDefault("tmdb.requests_per_second", 20.0)
	v.SetDefault("tmdb.max_concurrent", 4)
	v.SetDefault("tmdb.max_retries", 3)

	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", 6*time.Hour)

	v.SetDefault("library.data_dir", Dir())

	v.SetDefault("posters.dir", "")
	v.SetDefault("posters.size", "w342")
	v.SetDefault("posters.timeout", 30*time.Second)
	v.SetDefault("posters.user_agent", Name)
	v.SetDefault("posters.download_delay", 250*time.Millisecond)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)
}

// Load unmarshals v into an AppConfig and validates it.
func Load(v *viper.Viper) (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func Validate(cfg types.AppConfig) error {
	if cfg.TMDB.RequestsPerSecond < 0 {
		return fmt.Errorf("tmdb.requests_per_second must not be negative, got %v", cfg.TMDB.RequestsPerSecond)
	}
	if cfg.TMDB.MaxConcurrent < 0 {
		return fmt.Errorf("tmdb.max_concurrent must not be negative, got %d", cfg.TMDB.MaxConcurrent)
	}
	if cfg.Library.DataDir == "" {
		return fmt.Errorf("library.data_dir must be set")
	}
	if cfg.Posters.DownloadDelay < 0 {
		return fmt.Errorf("posters.download_delay must not be negative, got %v", cfg.Posters.DownloadDelay)
	}
	switch cfg.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", cfg.Logging.Format)
	}
	return nil
}
