// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/movie-tracker/pkg/types"
)

// FormatTable writes a session snapshot as a human-readable table to w. Idle,
// empty, and error sessions each get their own message so the reader can tell
// "nothing searched yet" from "nothing found". genres maps genre ids to names
// and may be nil.
func FormatTable(s Snapshot, genres map[int]string, w io.Writer) {
	switch {
	case s.Loading:
		fmt.Fprintln(w, "Searching...")
		return
	case s.State == StateIdle:
		fmt.Fprintln(w, "Enter a search to begin.")
		return
	case s.State == StateError && len(s.Movies) == 0 && len(s.People) == 0:
		fmt.Fprintf(w, "Error: %s\n", s.Error)
		return
	}

	if s.Kind.IsPerson() && s.SelectedPerson == nil {
		formatPeople(s.People, w)
		return
	}

	if s.SelectedPerson != nil {
		fmt.Fprintf(w, "Credits for %s\n\n", s.SelectedPerson.Name)
	}
	formatMovies(s.Movies, genres, w)

	if s.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", s.Error)
	}
	if s.HasMore && len(s.Movies) > 0 {
		fmt.Fprintln(w, "More results available (--more).")
	}
}

func formatMovies(movies []types.Movie, genres map[int]string, w io.Writer) {
	if len(movies) == 0 {
		fmt.Fprintln(w, "No movies found.")
		return
	}

	fmt.Fprintf(w, "%-8s  %-50s  %-4s  %-6s  %s\n", "ID", "Title", "Year", "Rating", "Genres")
	fmt.Fprintln(w, strings.Repeat("-", 96))
	for _, m := range movies {
		rating := ""
		if m.VoteAverage > 0 {
			rating = fmt.Sprintf("%.1f", m.VoteAverage)
		}
		fmt.Fprintf(w, "%-8d  %-50s  %-4s  %-6s  %s\n",
			m.ID, truncate(m.Title, 50), m.Year(), rating, formatGenres(m.GenreIDs, genres))
	}
	fmt.Fprintf(w, "\n%d movies\n", len(movies))
}

func formatPeople(people []types.Person, w io.Writer) {
	if len(people) == 0 {
		fmt.Fprintln(w, "No people found.")
		return
	}

	fmt.Fprintf(w, "%-8s  %-40s  %s\n", "ID", "Name", "Known for")
	fmt.Fprintln(w, strings.Repeat("-", 64))
	for _, p := range people {
		fmt.Fprintf(w, "%-8d  %-40s  %s\n", p.ID, truncate(p.Name, 40), p.KnownForDepartment)
	}
	fmt.Fprintf(w, "\n%d people (select one with --select)\n", len(people))
}

func formatGenres(ids []int, names map[int]string) string {
	if len(names) == 0 {
		return ""
	}
	var parts []string
	for _, id := range ids {
		if n, ok := names[id]; ok {
			parts = append(parts, n)
		}
	}
	return truncate(strings.Join(parts, ", "), 30)
}

// FormatJSON writes the snapshot as indented JSON to w.
func FormatJSON(s Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
