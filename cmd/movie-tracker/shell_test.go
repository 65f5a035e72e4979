// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/movie-tracker/internal/library"
	"github.com/pdiddy/movie-tracker/internal/search"
	"github.com/pdiddy/movie-tracker/pkg/types"
)

// stubProvider answers every search from fixed data.
type stubProvider struct {
	movies  []types.Movie
	people  []types.Person
	credits types.Credits
	genres  []types.Genre
}

func (p *stubProvider) SearchByTitle(_ context.Context, _ string, page int) (types.ResultPage, error) {
	return types.ResultPage{Movies: p.movies, Page: page, TotalPages: 1}, nil
}

func (p *stubProvider) SearchByPerson(context.Context, string) ([]types.Person, error) {
	return p.people, nil
}

func (p *stubProvider) CreditsForPerson(context.Context, int) (types.Credits, error) {
	return p.credits, nil
}

func (p *stubProvider) Discover(_ context.Context, _ types.FilterCriteria, page int) (types.ResultPage, error) {
	return types.ResultPage{Movies: p.movies, Page: page, TotalPages: 1}, nil
}

func (p *stubProvider) Genres(context.Context) ([]types.Genre, error) {
	return p.genres, nil
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		movies: []types.Movie{
			{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15", VoteAverage: 7.9, GenreIDs: []int{80, 18}},
			{ID: 1366, Title: "Collateral", ReleaseDate: "2004-08-06", VoteAverage: 7.3, GenreIDs: []int{80}},
		},
		people: []types.Person{
			{ID: 638, Name: "Michael Mann", KnownForDepartment: types.DepartmentDirecting},
		},
		credits: types.Credits{Crew: []types.CrewCredit{
			{Movie: types.Movie{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15"}, Job: types.JobDirector},
			{Movie: types.Movie{ID: 5000, Title: "Some Script", ReleaseDate: "2001-01-01"}, Job: "Writer"},
		}},
		genres: []types.Genre{{ID: 18, Name: "Drama"}, {ID: 80, Name: "Crime"}},
	}
}

func runScript(t *testing.T, p *stubProvider, lib *library.Library, script string) string {
	t.Helper()
	orch := search.New(p, zerolog.Nop())
	t.Cleanup(orch.Close)

	var out bytes.Buffer
	sh := newShell(orch, lib, p, &out)
	require.NoError(t, sh.run(context.Background(), strings.NewReader(script)))
	return out.String()
}

func TestShellSearchAndAdd(t *testing.T) {
	lib := library.New(zerolog.Nop())
	out := runScript(t, newStubProvider(), lib, "search heat\nadd 949\nlibrary\nquit\n")

	assert.Contains(t, out, "Heat")
	assert.Contains(t, out, "Crime, Drama")
	assert.Contains(t, out, "2 movies")
	assert.Contains(t, out, "Added Heat")
	assert.True(t, lib.Contains(949))
	assert.False(t, lib.Contains(1366))
}

func TestShellAddTwiceReportsExisting(t *testing.T) {
	lib := library.New(zerolog.Nop())
	out := runScript(t, newStubProvider(), lib, "search heat\nadd 949\nadd 949\n")

	assert.Contains(t, out, "Heat is already in your collection")
	assert.Equal(t, 1, lib.Len())
}

func TestShellAddUnknownResult(t *testing.T) {
	lib := library.New(zerolog.Nop())
	out := runScript(t, newStubProvider(), lib, "search heat\nadd 42\n")

	assert.Contains(t, out, "error: movie 42 is not in the results")
	assert.Zero(t, lib.Len())
}

func TestShellFilters(t *testing.T) {
	out := runScript(t, newStubProvider(), library.New(zerolog.Nop()),
		"genre drama exclude\nyear 1995\nsearch heat\n")

	assert.Contains(t, out, "filters: genre 18 (exclude)")
	assert.Contains(t, out, "filters: genre 18 (exclude), year 1995 (include)")
	// Heat is a 1995 drama, so the genre exclusion drops it.
	assert.Contains(t, out, "No movies found.")
}

func TestShellFilterOff(t *testing.T) {
	out := runScript(t, newStubProvider(), library.New(zerolog.Nop()),
		"genre 80\ngenre off\n")

	assert.Contains(t, out, "filters: genre 80 (include)")
	assert.Contains(t, out, "filters: none")
}

func TestShellRejectsBadInput(t *testing.T) {
	out := runScript(t, newStubProvider(), library.New(zerolog.Nop()),
		"year 95\ngenre Westerns\nkind alien\nfly\nselect\n")

	assert.Contains(t, out, "error: year must be four digits")
	assert.Contains(t, out, `error: unknown genre "Westerns"`)
	assert.Contains(t, out, `error: unknown search kind "alien"`)
	assert.Contains(t, out, `error: unknown command "fly"`)
	assert.Contains(t, out, "error: usage: select <person id>")
	assert.NotContains(t, out, "filters:")
}

func TestShellEmptyMovieSearchNeedsInput(t *testing.T) {
	out := runScript(t, newStubProvider(), library.New(zerolog.Nop()), "search\n")
	assert.Contains(t, out, "error: ")
}

func TestShellDirectorCredits(t *testing.T) {
	out := runScript(t, newStubProvider(), library.New(zerolog.Nop()),
		"kind director\nsearch mann\nselect 638\n")

	assert.Contains(t, out, "director> ")
	assert.Contains(t, out, "Michael Mann")
	assert.Contains(t, out, "Credits for Michael Mann")
	assert.Contains(t, out, "1 movies")
	assert.NotContains(t, out, "Some Script")
}

func TestShellMoreUntilExhausted(t *testing.T) {
	// The stub repeats the same movies on every page, so the first "more"
	// adds nothing and exhausts the session.
	out := runScript(t, newStubProvider(), library.New(zerolog.Nop()), "search heat\nmore\nmore\n")
	assert.Contains(t, out, "More results available (--more).")
	assert.Contains(t, out, "error: "+search.ErrNoMoreResults.Error())
}

func TestShellQuitStopsReading(t *testing.T) {
	lib := library.New(zerolog.Nop())
	runScript(t, newStubProvider(), lib, "quit\nsearch heat\nadd 949\n")
	assert.Zero(t, lib.Len())
}

func TestDescribeCriteria(t *testing.T) {
	assert.Equal(t, "none", describeCriteria(types.FilterCriteria{}))
	assert.Equal(t, "year 2004 (exclude)",
		describeCriteria(types.FilterCriteria{Year: "2004", YearMode: types.ModeExclude}))
}

func TestParseIDs(t *testing.T) {
	got, err := parseIDs([]string{"1,2", " 3 "})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)

	_, err = parseIDs([]string{"x"})
	assert.Error(t, err)
	_, err = parseIDs([]string{"-4"})
	assert.Error(t, err)
}

func TestFormatEntries(t *testing.T) {
	var buf bytes.Buffer
	formatEntries(nil, &buf)
	assert.Contains(t, buf.String(), "No movies in your collection match.")

	buf.Reset()
	formatEntries([]types.LibraryEntry{
		{Movie: types.Movie{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15"}, UserRating: 9, IsSaved: true, CombinedRating: 8.7},
		{Movie: types.Movie{ID: 1366, Title: "Collateral"}},
	}, &buf)
	out := buf.String()
	assert.Contains(t, out, "8.7")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "2 movies")
}
