// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for the provider client.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

// MaxRetryAfter caps how long a server-supplied Retry-After may stall a
// request.
var MaxRetryAfter = 30 * time.Second

const defaultMaxRetries = 3

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests). The wait honours the Retry-After header when the server sends
// one in seconds, capped at MaxRetryAfter; otherwise it backs off
// exponentially from RetryBaseDelay (1 s, 2 s, 4 s).
//
// When maxRetries is 0 the default (3) is used. On each 429 the response
// body is drained and closed before sleeping. If the context is cancelled
// during a backoff wait the function returns ctx.Err(). After exhausting
// retries the last 429 response is returned so the caller can inspect it.
// Retries are logged through the logger attached to ctx, if any.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	log := zerolog.Ctx(ctx)

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Exhausted retries: return the 429 response as-is.
		if attempt >= maxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := retryDelay(resp.Header.Get("Retry-After"), attempt)
		log.Debug().
			Str("url", req.URL.Path).
			Dur("backoff", backoff).
			Int("attempt", attempt+1).
			Int("max_retries", maxRetries).
			Msg("rate limited, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// retryDelay returns the Retry-After duration when header holds a positive
// number of seconds, else the exponential backoff for attempt.
func retryDelay(header string, attempt int) time.Duration {
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		d := time.Duration(secs) * time.Second
		if d > MaxRetryAfter {
			d = MaxRetryAfter
		}
		return d
	}
	return time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
}
