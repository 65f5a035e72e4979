// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import "github.com/pdiddy/movie-tracker/pkg/types"

// Apply returns the movies that pass both the genre and the year test of c.
// The input slice is not modified. Apply is idempotent: applying the same
// criteria to its own output returns the same movies.
func Apply(movies []types.Movie, c types.FilterCriteria) []types.Movie {
	out := make([]types.Movie, 0, len(movies))
	for _, m := range movies {
		if Matches(m, c) {
			out = append(out, m)
		}
	}
	return out
}

// Matches reports whether a single movie passes c.
func Matches(m types.Movie, c types.FilterCriteria) bool {
	return genrePasses(m, c) && yearPasses(m, c)
}

func genrePasses(m types.Movie, c types.FilterCriteria) bool {
	if !c.HasGenre() {
		return true
	}
	return keep(c.GenreMode, m.HasGenre(c.Genre))
}

// yearPasses lets undated movies through any year filter, in either mode.
func yearPasses(m types.Movie, c types.FilterCriteria) bool {
	if !c.HasYear() || m.ReleaseDate == "" {
		return true
	}
	return keep(c.YearMode, m.Year() == c.Year)
}

// keep resolves a predicate result under a mode. An unset mode is include.
func keep(mode types.FilterMode, matches bool) bool {
	if mode == types.ModeExclude {
		return !matches
	}
	return matches
}
