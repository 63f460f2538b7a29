package carrier

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"shipnotify/internal/types"
)

// RetryPolicy configures retry behavior for carrier HTTP calls.
type RetryPolicy struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// DefaultRetryPolicy returns sensible defaults for the tracking API.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		MinWait:    500 * time.Millisecond,
		MaxWait:    5 * time.Second,
	}
}

// httpClient wraps an *http.Client with a circuit breaker and bounded
// retries so one sick carrier endpoint cannot stall the whole batch.
// Retries fire on 429/5xx and transport errors; 4xx responses return
// as-is for the caller to interpret.
type httpClient struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	retry   RetryPolicy
	sleepFn func(time.Duration) // injectable for tests
}

func newHTTPClient(client *http.Client, retry RetryPolicy) *httpClient {
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "carrier-tracking",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	return &httpClient{
		client:  client,
		breaker: cb,
		retry:   retry,
		sleepFn: time.Sleep,
	}
}

// do executes the request, replaying the body on each retry attempt.
// The caller owns the response body on success.
func (c *httpClient) do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalUnexpected,
				"failed to buffer carrier request body", err)
		}
		req.Body.Close()
	}

	var lastErr error
	var lastStatus int
	maxAttempts := 1 + c.retry.MaxRetries
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
			req.ContentLength = int64(len(body))
		}

		// The breaker yields a nil response on failure, so the status
		// has to be captured inside the closure for mapError.
		lastStatus = 0
		resp, err := c.breaker.Execute(func() (*http.Response, error) {
			r, doErr := c.client.Do(req)
			if doErr != nil {
				return nil, doErr
			}
			if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
				lastStatus = r.StatusCode
				r.Body.Close()
				return nil, fmt.Errorf("carrier returned %d", r.StatusCode)
			}
			return r, nil
		})
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			break
		}
		if attempt < maxAttempts-1 {
			c.sleepFn(c.backoff(attempt))
		}
	}

	return nil, c.mapError(lastStatus, lastErr)
}

// backoff computes exponential backoff with full jitter, clamped to
// [MinWait, MaxWait].
func (c *httpClient) backoff(attempt int) time.Duration {
	base := float64(c.retry.MinWait) * math.Pow(2, float64(attempt))
	if maxWait := float64(c.retry.MaxWait); base > maxWait {
		base = maxWait
	}
	minWait := float64(c.retry.MinWait)
	if base <= minWait {
		return c.retry.MinWait
	}
	return time.Duration(minWait + rand.Float64()*(base-minWait))
}

func (c *httpClient) mapError(status int, err error) *types.AppError {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return types.NewAppError(types.ErrCodeCarrierUnavailable,
			"carrier circuit breaker is open", err)
	}
	if status == http.StatusTooManyRequests {
		return types.NewAppError(types.ErrCodeUpstreamRateLimited,
			"carrier rate limit exceeded", err)
	}
	return types.NewAppError(types.ErrCodeCarrierUnavailable,
		"carrier request failed after retries", err)
}
