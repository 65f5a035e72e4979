// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search coordinates asynchronous movie and person searches against a
// remote provider: it mints a token per user action, drops responses that a
// newer action has superseded, normalizes and filters results, paginates, and
// exposes a read-only snapshot to the display layer.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/movie-tracker/internal/metrics"
	"github.com/pdiddy/movie-tracker/pkg/types"
)

// Provider is the remote movie database. Each call is one network round trip
// and may block; implementations should honour ctx cancellation.
type Provider interface {
	SearchByTitle(ctx context.Context, query string, page int) (types.ResultPage, error)
	SearchByPerson(ctx context.Context, query string) ([]types.Person, error)
	CreditsForPerson(ctx context.Context, personID int) (types.Credits, error)
	Discover(ctx context.Context, criteria types.FilterCriteria, page int) (types.ResultPage, error)
}

// State is the coarse state of a search session.
type State string

const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateResults   State = "results"
	StateEmpty     State = "empty"
	StateError     State = "error"
)

// User-facing messages for provider failures.
const (
	MsgSearchFailed  = "search failed"
	MsgCreditsFailed = "failed to load credits"
)

// Errors returned by the session intents.
var (
	// ErrBusy rejects a duplicate of the action already in flight.
	ErrBusy = errors.New("that request is already in progress")

	// ErrNoMoreResults is returned by LoadMore when no further page may be
	// requested.
	ErrNoMoreResults = errors.New("no more results to load")

	// ErrClosed is returned by every intent after Close.
	ErrClosed = errors.New("search session is closed")
)

// ValidationError reports input rejected before any provider call was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Snapshot is a copy of the session state for display. Movies holds the
// title results or, after a person is selected, that person's credits.
type Snapshot struct {
	SessionID      string               `json:"session_id" yaml:"session_id"`
	State          State                `json:"state" yaml:"state"`
	Kind           types.SearchKind     `json:"kind" yaml:"kind"`
	Query          string               `json:"query,omitempty" yaml:"query,omitempty"`
	Criteria       types.FilterCriteria `json:"criteria,omitempty" yaml:"criteria,omitempty"`
	Movies         []types.Movie        `json:"movies" yaml:"movies"`
	People         []types.Person       `json:"people,omitempty" yaml:"people,omitempty"`
	SelectedPerson *types.Person        `json:"selected_person,omitempty" yaml:"selected_person,omitempty"`
	Loading        bool                 `json:"loading" yaml:"loading"`
	Error          string               `json:"error,omitempty" yaml:"error,omitempty"`
	HasMore        bool                 `json:"has_more" yaml:"has_more"`
	Page           int                  `json:"page" yaml:"page"`
}

const (
	opSubmit = "submit"
	opSelect = "select_person"
	opMore   = "load_more"
)

// action identifies the request in flight so a duplicate can be refused.
type action struct {
	op       string
	intent   types.SearchIntent
	personID int
}

// Orchestrator owns one search session, the lifetime of one "add movie"
// dialog. Intent methods return as soon as the provider call is launched;
// completions apply only if their token is still current. All session state
// is guarded by mu.
type Orchestrator struct {
	provider Provider
	logger   zerolog.Logger
	id       string
	seq      Sequencer

	mu       sync.Mutex
	pager    *Pager
	kind     types.SearchKind
	query    string
	criteria types.FilterCriteria
	movies   []types.Movie
	people   []types.Person
	selected *types.Person
	state    State
	loading  bool
	errMsg   string
	inFlight action
	cancel   context.CancelFunc
	closed   bool

	wg sync.WaitGroup
}

// New opens a search session against provider.
func New(provider Provider, logger zerolog.Logger) *Orchestrator {
	id := uuid.NewString()
	return &Orchestrator{
		provider: provider,
		logger:   logger.With().Str("component", "search").Str("session", id).Logger(),
		id:       id,
		pager:    NewPager(),
		kind:     types.KindMovie,
		state:    StateIdle,
	}
}

// ID returns the session identifier used in logs.
func (o *Orchestrator) ID() string { return o.id }

// Submit starts a new search and resets the session. Movie searches with a
// query search by title; without one they browse by the intent's criteria.
// Actor and director searches require a query. Input errors are returned as
// *ValidationError and recorded in the session without calling the provider.
// Submitting while another search is in flight supersedes it, unless the
// intent is identical, which returns ErrBusy.
func (o *Orchestrator) Submit(ctx context.Context, intent types.SearchIntent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}

	intent, err := normalizeIntent(intent)
	if err != nil {
		o.rejectLocked(err)
		return err
	}

	act := action{op: opSubmit, intent: intent}
	if o.loading && o.inFlight == act {
		return ErrBusy
	}

	o.kind = intent.Kind
	o.query = intent.Query
	o.criteria = intent.Criteria
	o.clearResultsLocked()
	o.pager.Reset()

	token, reqCtx := o.beginLocked(ctx, act)
	metrics.SearchesTotal.WithLabelValues(opSubmit).Inc()
	o.logger.Debug().
		Uint64("token", uint64(token)).
		Str("kind", string(intent.Kind)).
		Str("query", intent.Query).
		Msg("search submitted")

	if intent.Kind.IsPerson() {
		o.launch(func() { o.runPersonSearch(reqCtx, token, intent) })
	} else {
		o.launch(func() { o.runMovieFetch(reqCtx, token, opSubmit, intent.Query, intent.Criteria, 1) })
	}
	return nil
}

// SelectPerson loads the credits of a person from the current person results:
// acting credits for actor searches, directing credits for director searches.
// Credits are not paginated.
func (o *Orchestrator) SelectPerson(ctx context.Context, personID int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}

	if !o.kind.IsPerson() {
		err := invalid("person", "select a person after an actor or director search")
		o.rejectLocked(err)
		return err
	}
	var person *types.Person
	for i := range o.people {
		if o.people[i].ID == personID {
			p := o.people[i]
			person = &p
			break
		}
	}
	if person == nil {
		err := invalid("person", "person %d is not in the current results", personID)
		o.rejectLocked(err)
		return err
	}

	act := action{op: opSelect, personID: personID}
	if o.loading && o.inFlight == act {
		return ErrBusy
	}

	o.selected = person
	o.movies = nil
	token, reqCtx := o.beginLocked(ctx, act)
	metrics.SearchesTotal.WithLabelValues(opSelect).Inc()
	o.logger.Debug().
		Uint64("token", uint64(token)).
		Int("person_id", personID).
		Str("person", person.Name).
		Msg("person selected")

	kind := o.kind
	o.launch(func() { o.runCredits(reqCtx, token, kind, personID) })
	return nil
}

// LoadMore requests the next page of the current movie search and appends
// its new results. It is only valid for movie searches that have results,
// still have pages, and have nothing in flight.
func (o *Orchestrator) LoadMore(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	if o.loading {
		return ErrBusy
	}
	// A failed load-more leaves the results in place, so retrying from the
	// error state is allowed.
	if o.kind != types.KindMovie || len(o.movies) == 0 ||
		(o.state != StateResults && o.state != StateError) {
		return ErrNoMoreResults
	}
	page, ok := o.pager.Advance()
	if !ok {
		return ErrNoMoreResults
	}

	token, reqCtx := o.beginLocked(ctx, action{op: opMore})
	metrics.SearchesTotal.WithLabelValues(opMore).Inc()
	o.logger.Debug().
		Uint64("token", uint64(token)).
		Int("page", page).
		Msg("loading more results")

	query, criteria := o.query, o.criteria
	o.launch(func() { o.runMovieFetch(reqCtx, token, opMore, query, criteria, page) })
	return nil
}

// ChangeKind switches what the next submit searches. It clears the results
// and selected person and returns to idle; any request in flight is
// superseded.
func (o *Orchestrator) ChangeKind(kind types.SearchKind) error {
	k, err := types.ParseSearchKind(string(kind))
	if err != nil {
		return invalid("kind", "%v", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	o.kind = k
	o.resetLocked()
	return nil
}

// EditCriteria replaces the filter criteria used by the next fetch. Like
// ChangeKind, it clears the session back to idle without a network call.
func (o *Orchestrator) EditCriteria(c types.FilterCriteria) error {
	if err := c.Validate(); err != nil {
		return invalid("criteria", "%v", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	o.criteria = c
	o.resetLocked()
	return nil
}

// Snapshot returns a copy of the current session state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := Snapshot{
		SessionID: o.id,
		State:     o.state,
		Kind:      o.kind,
		Query:     o.query,
		Criteria:  o.criteria,
		Movies:    append([]types.Movie(nil), o.movies...),
		People:    append([]types.Person(nil), o.people...),
		Loading:   o.loading,
		Error:     o.errMsg,
		HasMore:   o.pager.HasMore(),
		Page:      o.pager.Page(),
	}
	if o.selected != nil {
		p := *o.selected
		s.SelectedPerson = &p
	}
	return s
}

// Result returns the movie with id from the current results. It is the
// lookup used when a result is accepted into the library.
func (o *Orchestrator) Result(id int) (types.Movie, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, m := range o.movies {
		if m.ID == id {
			return m, true
		}
	}
	return types.Movie{}, false
}

// Wait blocks until every launched provider call has completed and its
// result has been applied or discarded.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close ends the session. Requests still in flight are cancelled and their
// results discarded. Close waits for them to return.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.seq.Next()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.loading = false
	o.mu.Unlock()

	o.wg.Wait()
}

func (o *Orchestrator) launch(fn func()) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		fn()
	}()
}

// beginLocked supersedes any request in flight and mints the token for act.
// The superseded request's context is cancelled; its completion is dropped
// by the token check either way.
func (o *Orchestrator) beginLocked(ctx context.Context, act action) (Token, context.Context) {
	if o.cancel != nil {
		o.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.inFlight = act
	o.loading = true
	o.errMsg = ""
	o.state = StateSearching
	return o.seq.Next(), reqCtx
}

// finishLocked clears the loading gate. Only the current token's completion
// may call it.
func (o *Orchestrator) finishLocked() {
	o.loading = false
	o.inFlight = action{}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func (o *Orchestrator) resetLocked() {
	o.seq.Next()
	o.finishLocked()
	o.clearResultsLocked()
	o.pager.Reset()
	o.errMsg = ""
	o.state = StateIdle
}

func (o *Orchestrator) clearResultsLocked() {
	o.movies = nil
	o.people = nil
	o.selected = nil
}

func (o *Orchestrator) rejectLocked(err error) {
	o.errMsg = err.Error()
	o.state = StateError
}

func (o *Orchestrator) failLocked(msg string, err error) {
	o.errMsg = msg
	o.state = StateError
	o.logger.Warn().Err(err).Msg(msg)
}

// settleLocked records a successful apply for the current token. Any error
// left from a rejected or failed action is cleared.
func (o *Orchestrator) settleLocked(n int) {
	o.errMsg = ""
	if n == 0 {
		o.state = StateEmpty
		return
	}
	o.state = StateResults
}

func (o *Orchestrator) discardLocked(op string, token Token, err error) {
	metrics.StaleResponsesTotal.WithLabelValues(op).Inc()
	o.logger.Debug().
		Uint64("token", uint64(token)).
		Uint64("current", uint64(o.seq.Current())).
		Bool("failed", err != nil).
		Msg("discarding stale response")
}

// runMovieFetch performs a title search, or discovery when query is empty,
// and applies the page. Filters are evaluated against the criteria current
// when the response arrives.
func (o *Orchestrator) runMovieFetch(ctx context.Context, token Token, op, query string, criteria types.FilterCriteria, page int) {
	var (
		res types.ResultPage
		err error
	)
	if query != "" {
		res, err = o.provider.SearchByTitle(ctx, query, page)
	} else {
		res, err = o.provider.Discover(ctx, criteria, page)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.seq.IsCurrent(token) {
		o.discardLocked(op, token, err)
		return
	}
	defer o.finishLocked()

	if err != nil {
		if op == opMore {
			o.pager.Rewind()
		}
		o.failLocked(MsgSearchFailed, err)
		return
	}

	fresh := Apply(Normalize(res.Movies), o.criteria)
	if op == opMore {
		before := len(o.movies)
		combined := make([]types.Movie, 0, before+len(fresh))
		combined = append(combined, o.movies...)
		combined = append(combined, fresh...)
		o.movies = Normalize(combined)
		o.pager.Record(len(o.movies) - before)
	} else {
		o.movies = fresh
		o.pager.Record(len(fresh))
	}
	o.settleLocked(len(o.movies))

	o.logger.Debug().
		Uint64("token", uint64(token)).
		Int("page", page).
		Int("received", len(res.Movies)).
		Int("results", len(o.movies)).
		Bool("has_more", o.pager.HasMore()).
		Msg("movie results applied")
}

func (o *Orchestrator) runPersonSearch(ctx context.Context, token Token, intent types.SearchIntent) {
	people, err := o.provider.SearchByPerson(ctx, intent.Query)

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.seq.IsCurrent(token) {
		o.discardLocked(opSubmit, token, err)
		return
	}
	defer o.finishLocked()

	if err != nil {
		o.failLocked(MsgSearchFailed, err)
		return
	}

	dept := intent.Kind.Department()
	var matched []types.Person
	for _, p := range normalizePeople(people) {
		if p.KnownForDepartment == dept {
			matched = append(matched, p)
		}
	}
	o.people = matched
	o.pager.Exhaust()
	o.settleLocked(len(matched))

	o.logger.Debug().
		Uint64("token", uint64(token)).
		Int("received", len(people)).
		Int("people", len(matched)).
		Msg("person results applied")
}

func (o *Orchestrator) runCredits(ctx context.Context, token Token, kind types.SearchKind, personID int) {
	credits, err := o.provider.CreditsForPerson(ctx, personID)

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.seq.IsCurrent(token) {
		o.discardLocked(opSelect, token, err)
		return
	}
	defer o.finishLocked()

	if err != nil {
		o.failLocked(MsgCreditsFailed, err)
		return
	}

	movies := credits.Cast
	if kind == types.KindDirector {
		movies = credits.Directed()
	}
	o.movies = Apply(Normalize(movies), o.criteria)
	o.pager.Exhaust()
	o.settleLocked(len(o.movies))

	o.logger.Debug().
		Uint64("token", uint64(token)).
		Int("person_id", personID).
		Int("results", len(o.movies)).
		Msg("credits applied")
}

// normalizeIntent canonicalizes the kind and query and validates the intent.
func normalizeIntent(in types.SearchIntent) (types.SearchIntent, error) {
	kind, err := types.ParseSearchKind(string(in.Kind))
	if err != nil {
		return in, invalid("kind", "%v", err)
	}
	in.Kind = kind
	in.Query = strings.TrimSpace(in.Query)

	if err := in.Criteria.Validate(); err != nil {
		return in, invalid("criteria", "%v", err)
	}
	switch {
	case in.Kind.IsPerson() && in.Query == "":
		return in, invalid("query", "enter a name to search by %s", in.Kind)
	case in.Kind == types.KindMovie && in.Query == "" && in.Criteria.IsEmpty():
		return in, invalid("query", "enter a title or choose a genre or year filter")
	}
	return in, nil
}
