// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import "github.com/pdiddy/movie-tracker/pkg/types"

// Normalize removes movies that share an ID. When an ID repeats, the later
// occurrence's fields replace the earlier ones; the entry stays at the
// position where the ID first appeared. Nil input yields an empty slice.
func Normalize(movies []types.Movie) []types.Movie {
	return dedupe(movies, func(m types.Movie) int { return m.ID })
}

// normalizePeople is Normalize for person results.
func normalizePeople(people []types.Person) []types.Person {
	return dedupe(people, func(p types.Person) int { return p.ID })
}

// dedupe keeps one element per key, last write wins.
func dedupe[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]int, len(items)) // key → index in out
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if idx, ok := seen[k]; ok {
			out[idx] = it
			continue
		}
		seen[k] = len(out)
		out = append(out, it)
	}
	return out
}
