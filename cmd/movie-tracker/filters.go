// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/movie-tracker/pkg/types"
)

// genreLister is the part of the provider the CLI uses to resolve genre names.
type genreLister interface {
	Genres(ctx context.Context) ([]types.Genre, error)
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("genre", "", "genre id or name (see 'movie-tracker genres')")
	cmd.Flags().String("genre-mode", "include", "include or exclude the genre")
	cmd.Flags().String("year", "", "four-digit release year")
	cmd.Flags().String("year-mode", "include", "include or exclude the year")
}

// criteriaFromFlags builds filter criteria from the filter flags. Genre names
// are resolved through genres, which may be nil when only ids are accepted.
func criteriaFromFlags(ctx context.Context, cmd *cobra.Command, genres genreLister) (types.FilterCriteria, error) {
	genre, _ := cmd.Flags().GetString("genre")
	genreMode, _ := cmd.Flags().GetString("genre-mode")
	year, _ := cmd.Flags().GetString("year")
	yearMode, _ := cmd.Flags().GetString("year-mode")

	var c types.FilterCriteria
	var err error
	if genre != "" {
		if c.Genre, err = resolveGenre(ctx, genres, genre); err != nil {
			return c, err
		}
		if c.GenreMode, err = types.ParseFilterMode(genreMode); err != nil {
			return c, err
		}
	}
	if year != "" {
		c.Year = strings.TrimSpace(year)
		if c.YearMode, err = types.ParseFilterMode(yearMode); err != nil {
			return c, err
		}
	}
	return c, c.Validate()
}

// resolveGenre accepts a numeric genre id or a genre name.
func resolveGenre(ctx context.Context, genres genreLister, s string) (int, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		if id <= 0 {
			return 0, fmt.Errorf("genre id must be positive, got %d", id)
		}
		return id, nil
	}
	if genres == nil {
		return 0, fmt.Errorf("genre %q: use a numeric genre id", s)
	}
	list, err := genres.Genres(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading genres: %w", err)
	}
	for _, g := range list {
		if strings.EqualFold(g.Name, s) {
			return g.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown genre %q: run 'movie-tracker genres' for the list", s)
}

// genreNames returns an id-to-name map for display. Failures yield nil so
// output falls back to no genre column.
func genreNames(ctx context.Context, genres genreLister) map[int]string {
	if genres == nil {
		return nil
	}
	list, err := genres.Genres(ctx)
	if err != nil {
		log := componentLogger("cli")
		log.Warn().Err(err).Msg("could not load genre names")
		return nil
	}
	names := make(map[int]string, len(list))
	for _, g := range list {
		names[g.ID] = g.Name
	}
	return names
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid movie id %q", part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
