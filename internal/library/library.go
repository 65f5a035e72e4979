// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library holds the personal movie collection: movies accepted from
// search results, each with the user's rating, review, and saved state. The
// collection lives in memory and reports every mutation to an on-change hook,
// which the CLI wires to a SQLite store.
package library

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/movie-tracker/internal/search"
	"github.com/pdiddy/movie-tracker/pkg/types"
)

var (
	ErrAlreadyInLibrary = errors.New("movie is already in the library")
	ErrNotInLibrary     = errors.New("movie is not in the library")
	ErrInvalidRating    = errors.New("rating must be a whole number from 1 to 10")
	ErrSaved            = errors.New("entry is saved; edit it before changing it")
	ErrRatingRequired   = errors.New("give a rating before saving")
)

var ratingPattern = regexp.MustCompile(`^(10|[1-9])$`)

// Change describes one mutation of the collection.
type Change struct {
	Entry   types.LibraryEntry
	Removed bool
}

// ChangeFunc is called synchronously after every successful mutation. An
// error is returned to the caller of the mutating method; the in-memory
// change is kept.
type ChangeFunc func(ctx context.Context, c Change) error

// Library is the in-memory collection. It is safe for concurrent use.
type Library struct {
	mu       sync.Mutex
	entries  []types.LibraryEntry
	onChange ChangeFunc
	now      func() time.Time
	logger   zerolog.Logger
}

// New returns an empty library.
func New(logger zerolog.Logger) *Library {
	return &Library{
		now:    time.Now,
		logger: logger.With().Str("component", "library").Logger(),
	}
}

// Open loads every entry from store and wires the store as the change hook.
func Open(ctx context.Context, store Store, logger zerolog.Logger) (*Library, error) {
	l := New(logger)
	if err := l.Load(ctx, store); err != nil {
		return nil, err
	}
	l.OnChange(Persist(store))
	return l, nil
}

// Load replaces the collection with the entries in store. The change hook is
// not called.
func (l *Library) Load(ctx context.Context, store Store) error {
	entries, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("loading library: %w", err)
	}
	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
	l.logger.Debug().Int("entries", len(entries)).Msg("library loaded")
	return nil
}

// OnChange sets the hook called after every mutation.
func (l *Library) OnChange(fn ChangeFunc) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// Persist returns a change hook that writes each change to store.
func Persist(store Store) ChangeFunc {
	return func(ctx context.Context, c Change) error {
		if c.Removed {
			return store.Remove(ctx, c.Entry.ID)
		}
		return store.Upsert(ctx, c.Entry)
	}
}

// Add accepts a movie into the collection with no rating, no review, and not
// saved. A movie already present is left untouched and ErrAlreadyInLibrary
// is returned.
func (l *Library) Add(ctx context.Context, m types.Movie) (types.LibraryEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.indexLocked(m.ID); i >= 0 {
		return l.entries[i], ErrAlreadyInLibrary
	}
	e := types.LibraryEntry{Movie: m, AddedAt: l.now().UTC()}
	l.entries = append(l.entries, e)
	l.logger.Info().Int("movie_id", m.ID).Str("title", m.Title).Msg("movie added")
	return e, l.notifyLocked(ctx, Change{Entry: e})
}

// Import adds entries not already in the collection, keeping their rating,
// review, and saved state. It returns how many were added.
func (l *Library) Import(ctx context.Context, entries []types.LibraryEntry) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	added := 0
	for _, e := range entries {
		if e.ID == 0 || l.indexLocked(e.ID) >= 0 {
			continue
		}
		if e.AddedAt.IsZero() {
			e.AddedAt = l.now().UTC()
		}
		l.entries = append(l.entries, e)
		added++
		if err := l.notifyLocked(ctx, Change{Entry: e}); err != nil {
			return added, err
		}
	}
	l.logger.Info().Int("added", added).Int("offered", len(entries)).Msg("entries imported")
	return added, nil
}

// Rate sets the user rating from text input. The rating must be "1" to "10";
// an empty string clears it. Saved entries are read-only.
func (l *Library) Rate(ctx context.Context, movieID int, rating string) (types.LibraryEntry, error) {
	value := 0
	if rating != "" {
		if !ratingPattern.MatchString(rating) {
			return types.LibraryEntry{}, fmt.Errorf("%w: got %q", ErrInvalidRating, rating)
		}
		value, _ = strconv.Atoi(rating)
	}
	return l.update(ctx, movieID, func(e *types.LibraryEntry) error {
		if e.IsSaved {
			return ErrSaved
		}
		e.UserRating = value
		return nil
	})
}

// Review sets the free-text review. Saved entries are read-only.
func (l *Library) Review(ctx context.Context, movieID int, text string) (types.LibraryEntry, error) {
	return l.update(ctx, movieID, func(e *types.LibraryEntry) error {
		if e.IsSaved {
			return ErrSaved
		}
		e.UserReview = text
		return nil
	})
}

// Save finalizes an entry and computes its combined rating. It requires a
// user rating.
func (l *Library) Save(ctx context.Context, movieID int) (types.LibraryEntry, error) {
	return l.update(ctx, movieID, func(e *types.LibraryEntry) error {
		if e.UserRating == 0 {
			return ErrRatingRequired
		}
		e.IsSaved = true
		e.CombinedRating = CombinedRating(e.VoteAverage, e.UserRating)
		return nil
	})
}

// Edit reopens a saved entry for changes.
func (l *Library) Edit(ctx context.Context, movieID int) (types.LibraryEntry, error) {
	return l.update(ctx, movieID, func(e *types.LibraryEntry) error {
		e.IsSaved = false
		return nil
	})
}

// Remove deletes a movie from the collection.
func (l *Library) Remove(ctx context.Context, movieID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(movieID)
	if i < 0 {
		return ErrNotInLibrary
	}
	e := l.entries[i]
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	l.logger.Info().Int("movie_id", movieID).Msg("movie removed")
	return l.notifyLocked(ctx, Change{Entry: e, Removed: true})
}

// Get returns the entry for movieID.
func (l *Library) Get(movieID int) (types.LibraryEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(movieID); i >= 0 {
		return l.entries[i], true
	}
	return types.LibraryEntry{}, false
}

// Contains reports whether movieID is in the collection.
func (l *Library) Contains(movieID int) bool {
	_, ok := l.Get(movieID)
	return ok
}

// List returns a copy of every entry in the order added.
func (l *Library) List() []types.LibraryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]types.LibraryEntry(nil), l.entries...)
}

// Browse returns the entries whose movie passes criteria, evaluated against
// the collection as it is now.
func (l *Library) Browse(criteria types.FilterCriteria) []types.LibraryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []types.LibraryEntry
	for _, e := range l.entries {
		if search.Matches(e.Movie, criteria) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entries.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// CombinedRating blends the provider's vote average with the user's rating,
// weighted 30/70 and rounded to one decimal place.
func CombinedRating(voteAverage float64, userRating int) float64 {
	return math.Round((0.3*voteAverage+0.7*float64(userRating))*10) / 10
}

func (l *Library) update(ctx context.Context, movieID int, fn func(e *types.LibraryEntry) error) (types.LibraryEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(movieID)
	if i < 0 {
		return types.LibraryEntry{}, ErrNotInLibrary
	}
	e := l.entries[i]
	if err := fn(&e); err != nil {
		return l.entries[i], err
	}
	l.entries[i] = e
	return e, l.notifyLocked(ctx, Change{Entry: e})
}

func (l *Library) indexLocked(movieID int) int {
	for i := range l.entries {
		if l.entries[i].ID == movieID {
			return i
		}
	}
	return -1
}

func (l *Library) notifyLocked(ctx context.Context, c Change) error {
	if l.onChange == nil {
		return nil
	}
	if err := l.onChange(ctx, c); err != nil {
		l.logger.Error().Err(err).Int("movie_id", c.Entry.ID).Msg("change hook failed")
		return fmt.Errorf("persisting change: %w", err)
	}
	return nil
}
