// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tmdb is the movie provider backed by The Movie Database v3 API:
// title search, person search, person credits, discovery by genre and year,
// and the genre list.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/pdiddy/movie-tracker/internal/httputil"
	"github.com/pdiddy/movie-tracker/internal/metrics"
	"github.com/pdiddy/movie-tracker/internal/search"
	"github.com/pdiddy/movie-tracker/pkg/types"
)

// Defaults applied when the configuration leaves a field empty.
const (
	DefaultBaseURL       = "https://api.themoviedb.org/3"
	DefaultImageBaseURL  = "https://image.tmdb.org/t/p"
	DefaultLanguage      = "en-US"
	DefaultMaxConcurrent = 4

	// PosterSize is the image width used for result posters.
	PosterSize = "w342"

	maxBodyBytes = 4 << 20
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrNotFound      = errors.New("TMDB resource not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
)

var _ search.Provider = (*Client)(nil)

// Client is a TMDB API client. It is safe for concurrent use; outbound
// requests are rate limited and bounded by MaxConcurrent.
type Client struct {
	httpClient *http.Client
	config     types.TMDBConfig
	cache      *ResponseCache
	limiter    *rate.Limiter
	sem        *semaphore.Weighted
	logger     zerolog.Logger
}

// NewClient creates a TMDB client. cache may be nil.
func NewClient(cfg types.TMDBConfig, cache *ResponseCache, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
		cache:      cache,
		sem:        semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		logger:     logger.With().Str("component", "tmdb").Logger(),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

// Name returns the provider name.
func (c *Client) Name() string { return "tmdb" }

// IsConfigured reports whether an API key is set.
func (c *Client) IsConfigured() bool { return c.config.APIKey != "" }

// SearchByTitle returns one page of movies whose title matches query.
func (c *Client) SearchByTitle(ctx context.Context, query string, page int) (types.ResultPage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("page", strconv.Itoa(pageOrFirst(page)))

	var resp movieListResponse
	if err := c.get(ctx, "search_title", "/search/movie", params, &resp); err != nil {
		return types.ResultPage{}, err
	}
	c.logger.Debug().
		Str("query", query).
		Int("page", resp.Page).
		Int("total_pages", resp.TotalPages).
		Int("results", len(resp.Results)).
		Msg("title search completed")
	return resp.toPage(), nil
}

// SearchByPerson returns the first page of people whose name matches query.
// Department filtering is left to the caller.
func (c *Client) SearchByPerson(ctx context.Context, query string) ([]types.Person, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var resp personListResponse
	if err := c.get(ctx, "search_person", "/search/person", params, &resp); err != nil {
		return nil, err
	}
	people := make([]types.Person, 0, len(resp.Results))
	for _, p := range resp.Results {
		people = append(people, types.Person{
			ID:                 p.ID,
			Name:               p.Name,
			KnownForDepartment: p.KnownForDepartment,
			ProfilePath:        p.ProfilePath,
			Popularity:         p.Popularity,
		})
	}
	c.logger.Debug().Str("query", query).Int("results", len(people)).Msg("person search completed")
	return people, nil
}

// CreditsForPerson returns the movie cast and crew credits of a person.
func (c *Client) CreditsForPerson(ctx context.Context, personID int) (types.Credits, error) {
	var resp movieCreditsResponse
	path := fmt.Sprintf("/person/%d/movie_credits", personID)
	if err := c.get(ctx, "person_credits", path, url.Values{}, &resp); err != nil {
		return types.Credits{}, err
	}
	c.logger.Debug().
		Int("person_id", personID).
		Int("cast", len(resp.Cast)).
		Int("crew", len(resp.Crew)).
		Msg("credits loaded")
	return resp.toCredits(), nil
}

// Discover returns one page of popular movies narrowed by criteria. The genre
// predicate is sent in either mode; the year is sent only for include, since
// the API cannot exclude a single year.
func (c *Client) Discover(ctx context.Context, criteria types.FilterCriteria, page int) (types.ResultPage, error) {
	params := discoverParams(criteria)
	params.Set("page", strconv.Itoa(pageOrFirst(page)))

	var resp movieListResponse
	if err := c.get(ctx, "discover", "/discover/movie", params, &resp); err != nil {
		return types.ResultPage{}, err
	}
	c.logger.Debug().
		Int("genre", criteria.Genre).
		Str("year", criteria.Year).
		Int("page", resp.Page).
		Int("results", len(resp.Results)).
		Msg("discover completed")
	return resp.toPage(), nil
}

// Genres returns the movie genre list.
func (c *Client) Genres(ctx context.Context) ([]types.Genre, error) {
	var resp genreListResponse
	if err := c.get(ctx, "genres", "/genre/movie/list", url.Values{}, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// ImageURL returns the full image URL for path at size (e.g. "w342").
// It returns "" when path is empty.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.config.ImageBaseURL, size, path)
}

// PosterURL returns the poster image URL for a movie, or "" if it has none.
func (c *Client) PosterURL(m types.Movie) string {
	return c.ImageURL(m.PosterPath, PosterSize)
}

func discoverParams(criteria types.FilterCriteria) url.Values {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")
	if criteria.HasGenre() {
		key := "with_genres"
		if criteria.GenreMode == types.ModeExclude {
			key = "without_genres"
		}
		params.Set(key, strconv.Itoa(criteria.Genre))
	}
	if criteria.HasYear() && criteria.YearMode != types.ModeExclude {
		params.Set("primary_release_year", criteria.Year)
	}
	return params
}

func pageOrFirst(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// get performs a GET against path and decodes the JSON body into out.
// Responses are served from and stored into the cache when one is set.
func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}
	params.Set("language", c.config.Language)

	key := cacheKey(path, params)
	if body, ok := c.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(body, out); err == nil {
			metrics.CacheHitsTotal.Inc()
			return nil
		}
	}
	if c.cache != nil {
		metrics.CacheMissesTotal.Inc()
	}

	body, err := c.fetch(ctx, op, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	c.cache.Set(ctx, key, body)
	return nil
}

func (c *Client) fetch(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("api_key", c.config.APIKey)
	reqURL := c.config.BaseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	start := time.Now()
	resp, err := httputil.DoWithRetry(c.logger.WithContext(ctx), c.httpClient, req, c.config.MaxRetries)
	metrics.ProviderRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(op, "error").Inc()
		c.logger.Error().Err(err).Str("path", path).Msg("HTTP request failed")
		return nil, fmt.Errorf("TMDB %s request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Str("path", path).
				Msg("TMDB API error")
		}
		return nil, c.statusError(op, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("reading %s response: %w", op, err)
	}
	metrics.ProviderRequestsTotal.WithLabelValues(op, "ok").Inc()
	return body, nil
}

func (c *Client) statusError(op string, status int) error {
	switch status {
	case http.StatusNotFound:
		metrics.ProviderRequestsTotal.WithLabelValues(op, "not_found").Inc()
		return ErrNotFound
	case http.StatusUnauthorized:
		metrics.ProviderRequestsTotal.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("%w: invalid API key", ErrAPIError)
	case http.StatusTooManyRequests:
		metrics.ProviderRequestsTotal.WithLabelValues(op, "rate_limited").Inc()
		return ErrRateLimited
	default:
		metrics.ProviderRequestsTotal.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("%w: status %d", ErrAPIError, status)
	}
}
