// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the movie-tracker CLI: search TMDB by
// title, actor, or director with genre and year filters, and keep a rated
// personal collection.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/movie-tracker/internal/config"
	"github.com/pdiddy/movie-tracker/internal/library"
	"github.com/pdiddy/movie-tracker/internal/logger"
	"github.com/pdiddy/movie-tracker/internal/metrics"
	"github.com/pdiddy/movie-tracker/internal/secrets"
	"github.com/pdiddy/movie-tracker/internal/tmdb"
	"github.com/pdiddy/movie-tracker/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// app holds what PersistentPreRunE prepared for the running command.
var app struct {
	cfg      types.AppConfig
	log      *logger.Logger
	registry *prometheus.Registry
	cache    *tmdb.ResponseCache
}

// rootCmd is the base command for the movie-tracker CLI.
var rootCmd = &cobra.Command{
	Use:   "movie-tracker",
	Short: "Search for movies and keep a rated personal collection",
	Long: `movie-tracker searches The Movie Database by title, actor, or director,
narrows results by genre and release year, and keeps the movies you add in a
local collection where you rate, review, and save them.

Set the TMDB API key in movie-tracker.yaml (tmdb.api_key), the
MOVIE_TRACKER_TMDB_API_KEY environment variable, or .secrets/tmdb-api-key.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./movie-tracker.yaml or ~/.config/movie-tracker/movie-tracker.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error, off")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the collection database")
	rootCmd.PersistentFlags().String("metrics-file", "", "write Prometheus metrics to this file on exit")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("library.data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

func setup(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	used, err := config.Configure(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	app.log = logger.New(cfg.Logging)
	log := app.log.WithComponent("cli")
	if used != "" {
		log.Debug().Str("file", used).Msg("using config file")
	}

	s, err := secrets.Load(".secrets/", log)
	if err != nil {
		return err
	}
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		log.Debug().Strs("keys", keys).Msg("loaded secrets")
	}
	cfg.TMDB.APIKey = secrets.Resolve(s, secrets.TMDBAPIKey, cfg.TMDB.APIKey)
	for _, ua := range []*string{&cfg.TMDB.UserAgent, &cfg.Posters.UserAgent} {
		if *ua == config.Name {
			*ua = config.Name + "/" + version
		}
	}

	app.cfg = cfg
	app.registry = prometheus.NewRegistry()
	metrics.Register(app.registry)
	return nil
}

func teardown(cmd *cobra.Command) error {
	if app.cache != nil {
		_ = app.cache.Close()
		app.cache = nil
	}
	path, _ := cmd.Flags().GetString("metrics-file")
	if path != "" && app.registry != nil {
		if err := metrics.WriteTextfile(path, app.registry); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	if app.log != nil {
		return app.log.Close()
	}
	return nil
}

func componentLogger(name string) zerolog.Logger {
	if app.log == nil {
		return zerolog.Nop()
	}
	return app.log.WithComponent(name)
}

// newProvider builds the TMDB client, with the Redis response cache when one
// is configured and reachable.
func newProvider(ctx context.Context) (*tmdb.Client, error) {
	if app.cfg.TMDB.APIKey == "" {
		return nil, fmt.Errorf("%w: set tmdb.api_key, MOVIE_TRACKER_TMDB_API_KEY, or .secrets/%s",
			tmdb.ErrAPIKeyMissing, secrets.TMDBAPIKey)
	}
	log := componentLogger("cli")
	cache, err := tmdb.NewResponseCache(ctx, app.cfg.Cache, componentLogger("cache"))
	if err != nil {
		log.Warn().Err(err).Msg("response cache unavailable, continuing without it")
		cache = nil
	}
	app.cache = cache
	return tmdb.NewClient(app.cfg.TMDB, cache, app.log.Logger), nil
}

// openLibrary opens the collection database and loads the collection. The
// returned close func releases the database.
func openLibrary(ctx context.Context) (*library.Library, func() error, error) {
	store, err := library.OpenSQLite(app.cfg.Library)
	if err != nil {
		return nil, nil, err
	}
	lib, err := library.Open(ctx, store, app.log.Logger)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return lib, store.Close, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
