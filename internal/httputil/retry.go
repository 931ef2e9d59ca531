// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the API adapters.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryPolicy controls DoWithRetry. The zero value is usable: every zero
// field falls back to the package default.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int

	// BaseDelay is the first backoff duration; it doubles every attempt.
	BaseDelay time.Duration

	// Statuses lists the HTTP status codes that trigger a retry.
	Statuses []int
}

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 500 * time.Millisecond
)

var defaultStatuses = []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable}

func (p RetryPolicy) maxRetries() int {
	if p.MaxRetries <= 0 {
		return defaultMaxRetries
	}
	return p.MaxRetries
}

func (p RetryPolicy) baseDelay() time.Duration {
	if p.BaseDelay <= 0 {
		return defaultBaseDelay
	}
	return p.BaseDelay
}

func (p RetryPolicy) retryable(status int) bool {
	statuses := p.Statuses
	if len(statuses) == 0 {
		statuses = defaultStatuses
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// DoWithRetry executes an HTTP request and retries on the policy's status
// codes with exponential backoff: BaseDelay, 2*BaseDelay, 4*BaseDelay, ...
//
// On each retryable response the body is drained and closed before
// sleeping. If the context is cancelled during a backoff wait the function
// returns ctx.Err(). After exhausting retries the last retryable response
// is returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, policy RetryPolicy) (*http.Response, error) {
	maxRetries := policy.maxRetries()

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !policy.retryable(resp.StatusCode) {
			return resp, nil
		}

		// Exhausted retries: return the response as-is.
		if attempt >= maxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * policy.baseDelay()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
