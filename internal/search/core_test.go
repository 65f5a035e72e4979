// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/movie-tracker/pkg/types"
)

// --- Sequencer ---

func TestSequencerIssuesIncreasingTokens(t *testing.T) {
	var s Sequencer
	assert.Equal(t, Token(0), s.Current())
	assert.False(t, s.IsCurrent(0), "zero token is never current")

	t1 := s.Next()
	t2 := s.Next()
	assert.Less(t, uint64(t1), uint64(t2))
	assert.False(t, s.IsCurrent(t1))
	assert.True(t, s.IsCurrent(t2))
	assert.Equal(t, t2, s.Current())
}

func TestSequencerOlderTokenNeverBecomesCurrent(t *testing.T) {
	var s Sequencer
	t1 := s.Next()
	s.Next()
	s.Next()
	assert.False(t, s.IsCurrent(t1))
}

func TestSequencerConcurrentNext(t *testing.T) {
	var s Sequencer
	var wg sync.WaitGroup
	seen := make(chan Token, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- s.Next()
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[Token]bool{}
	for tok := range seen {
		unique[tok] = true
	}
	assert.Len(t, unique, 100)
	assert.Equal(t, Token(100), s.Current())
}

// --- Normalize ---

func TestNormalizeLastWriteWins(t *testing.T) {
	in := []types.Movie{
		{ID: 1, Title: "a"},
		{ID: 1, Title: "b"},
	}
	got := Normalize(in)
	assert.Equal(t, []types.Movie{{ID: 1, Title: "b"}}, got)
}

func TestNormalizeKeepsFirstPosition(t *testing.T) {
	in := []types.Movie{
		{ID: 1, Title: "one"},
		{ID: 2, Title: "two"},
		{ID: 1, Title: "one again"},
		{ID: 3, Title: "three"},
	}
	got := Normalize(in)
	if assert.Len(t, got, 3) {
		assert.Equal(t, "one again", got[0].Title)
		assert.Equal(t, 2, got[1].ID)
		assert.Equal(t, 3, got[2].ID)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.NotNil(t, Normalize(nil))
	assert.Empty(t, Normalize([]types.Movie{}))
}

func TestNormalizeNoDuplicateIDs(t *testing.T) {
	in := []types.Movie{{ID: 5}, {ID: 4}, {ID: 5}, {ID: 4}, {ID: 5}, {ID: 6}}
	seen := map[int]bool{}
	for _, m := range Normalize(in) {
		assert.False(t, seen[m.ID], "duplicate id %d", m.ID)
		seen[m.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestNormalizePeople(t *testing.T) {
	in := []types.Person{{ID: 7, Name: "x"}, {ID: 7, Name: "y"}}
	got := normalizePeople(in)
	assert.Equal(t, []types.Person{{ID: 7, Name: "y"}}, got)
}

// --- Filter ---

func TestApply(t *testing.T) {
	action := types.Movie{ID: 1, GenreIDs: []int{28}, ReleaseDate: "1999-03-31"}
	drama := types.Movie{ID: 2, GenreIDs: []int{18}, ReleaseDate: "2003-05-15"}
	undated := types.Movie{ID: 3, GenreIDs: []int{28}}
	all := []types.Movie{action, drama, undated}

	tests := []struct {
		name     string
		criteria types.FilterCriteria
		wantIDs  []int
	}{
		{"no criteria keeps all", types.FilterCriteria{}, []int{1, 2, 3}},
		{"include genre", types.FilterCriteria{Genre: 28, GenreMode: types.ModeInclude}, []int{1, 3}},
		{"exclude genre", types.FilterCriteria{Genre: 28, GenreMode: types.ModeExclude}, []int{2}},
		{"unset genre mode is include", types.FilterCriteria{Genre: 18}, []int{2}},
		{"include year keeps undated", types.FilterCriteria{Year: "1999", YearMode: types.ModeInclude}, []int{1, 3}},
		{"exclude year keeps undated", types.FilterCriteria{Year: "1999", YearMode: types.ModeExclude}, []int{2, 3}},
		{
			"genre and year combine with AND",
			types.FilterCriteria{Genre: 28, GenreMode: types.ModeInclude, Year: "2003", YearMode: types.ModeInclude},
			[]int{3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(all, tt.criteria)
			var ids []int
			for _, m := range got {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestApplySingleGenre(t *testing.T) {
	movies := []types.Movie{{ID: 1, GenreIDs: []int{28}}}

	assert.Equal(t, movies, Apply(movies, types.FilterCriteria{Genre: 28, GenreMode: types.ModeInclude}))
	assert.Empty(t, Apply(movies, types.FilterCriteria{Genre: 28, GenreMode: types.ModeExclude}))
}

func TestApplyIdempotent(t *testing.T) {
	movies := []types.Movie{
		{ID: 1, GenreIDs: []int{28, 12}, ReleaseDate: "2010-07-16"},
		{ID: 2, GenreIDs: []int{35}, ReleaseDate: "2010-01-01"},
		{ID: 3, GenreIDs: []int{12}},
		{ID: 4, GenreIDs: []int{12}, ReleaseDate: "1985-07-03"},
	}
	c := types.FilterCriteria{Genre: 12, GenreMode: types.ModeInclude, Year: "1985", YearMode: types.ModeExclude}

	once := Apply(movies, c)
	twice := Apply(once, c)
	assert.Equal(t, once, twice)
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	movies := []types.Movie{{ID: 1, GenreIDs: []int{28}}, {ID: 2}}
	Apply(movies, types.FilterCriteria{Genre: 28, GenreMode: types.ModeExclude})
	assert.Equal(t, 1, movies[0].ID)
	assert.Equal(t, 2, movies[1].ID)
}

// --- Pager ---

func TestPagerDefaults(t *testing.T) {
	p := NewPager()
	assert.Equal(t, 1, p.Page())
	assert.True(t, p.HasMore())
}

func TestPagerRecordZeroExhaustsUntilReset(t *testing.T) {
	p := NewPager()
	p.Record(0)
	assert.False(t, p.HasMore())

	p.Record(10)
	assert.False(t, p.HasMore(), "a later non-empty page does not revive the session")

	_, ok := p.Advance()
	assert.False(t, ok)
	assert.Equal(t, 1, p.Page())

	p.Reset()
	assert.Equal(t, 1, p.Page())
	assert.True(t, p.HasMore())
}

func TestPagerAdvanceAndRewind(t *testing.T) {
	p := NewPager()
	page, ok := p.Advance()
	assert.True(t, ok)
	assert.Equal(t, 2, page)

	p.Rewind()
	assert.Equal(t, 1, p.Page())
	p.Rewind()
	assert.Equal(t, 1, p.Page(), "never rewinds below page 1")
}

func TestPagerExhaust(t *testing.T) {
	p := NewPager()
	p.Exhaust()
	assert.False(t, p.HasMore())
}
