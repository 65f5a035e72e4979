// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pdiddy/movie-tracker/pkg/types"
)

const (
	cacheKeyPrefix  = "movietracker:tmdb:"
	defaultCacheTTL = 6 * time.Hour
	pingTimeout     = 2 * time.Second
)

// ResponseCache stores raw TMDB response bodies in Redis, keyed by endpoint
// and query parameters. A nil *ResponseCache is valid and caches nothing.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewResponseCache connects to the Redis server named by cfg.RedisURL. It
// returns nil and no error when no URL is configured.
func NewResponseCache(ctx context.Context, cfg types.CacheConfig, logger zerolog.Logger) (*ResponseCache, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	opts.DialTimeout = pingTimeout
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	logger = logger.With().Str("component", "tmdb-cache").Logger()
	logger.Debug().Str("addr", opts.Addr).Dur("ttl", ttl).Msg("response cache connected")
	return &ResponseCache{client: client, ttl: ttl, logger: logger}, nil
}

// Get returns the cached body for key. Misses and Redis errors both report
// false; errors are logged.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Msg("cache read failed")
		}
		return nil, false
	}
	return data, true
}

// Set stores body under key for the cache TTL.
func (c *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+key, body, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("cache write failed")
	}
}

// Close releases the Redis connection pool.
func (c *ResponseCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// cacheKey builds a stable key from path and params. The API key is left out
// so cached entries survive key rotation and never hold the credential.
func cacheKey(path string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "api_key" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(path)
	for i, k := range keys {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(params[k], ","))
	}
	return b.String()
}
