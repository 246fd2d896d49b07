package ghclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/spiffcs/prsweep/internal/constants"
	"github.com/spiffcs/prsweep/internal/log"
)

// ErrRateLimited is returned when the GitHub API rate limit has been exceeded
// and waiting it out is not an option.
var ErrRateLimited = errors.New("rate limited")

// RateLimitState tracks the last rate limit headers seen by a client.
type RateLimitState struct {
	mu        sync.RWMutex
	limited   bool
	resetAt   time.Time
	remaining int
	limit     int
}

// IsLimited returns true if the primary limit is exhausted and has not reset yet.
func (s *RateLimitState) IsLimited() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limited && time.Now().Before(s.resetAt)
}

// SetLimited marks the state as limited until resetAt.
func (s *RateLimitState) SetLimited(resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limited = true
	s.resetAt = resetAt
}

// Update records the values from a response.
func (s *RateLimitState) Update(remaining, limit int, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = remaining
	s.limit = limit
	s.resetAt = resetAt
	s.limited = remaining == 0
}

// Status returns the last recorded values.
func (s *RateLimitState) Status() (remaining, limit int, resetAt time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remaining, s.limit, s.resetAt
}

// rateLimitTransport records rate limit headers and replays requests that
// hit a secondary rate limit, waiting as instructed by the response.
type rateLimitTransport struct {
	base       http.RoundTripper
	state      *RateLimitState
	maxRetries int
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
}

func newRateLimitTransport(base http.RoundTripper, state *RateLimitState) *rateLimitTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &rateLimitTransport{
		base:       base,
		state:      state,
		maxRetries: constants.MaxRateLimitRetries,
		now:        time.Now,
		sleep:      sleepContext,
	}
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.state.IsLimited() {
		return nil, ErrRateLimited
	}

	attemptReq := req
	for attempt := 0; ; attempt++ {
		resp, err := t.base.RoundTrip(attemptReq)
		if err != nil {
			return resp, err
		}

		remaining, limit, resetAt := parseRateLimitHeaders(resp)
		if remaining >= 0 && limit > 0 {
			t.state.Update(remaining, limit, resetAt)
		}
		if remaining <= constants.RateLimitLowWatermark && remaining > 0 {
			log.Debug("rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
		}

		if !isRateLimited(resp) {
			return resp, nil
		}

		wait := retryDelay(resp, resetAt, attempt, t.now())
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		if attempt >= t.maxRetries || wait > constants.MaxBackoff {
			t.state.SetLimited(resetAt)
			return nil, fmt.Errorf("%w: %s %s", ErrRateLimited, req.Method, req.URL.Path)
		}

		log.Warn("rate limited, backing off", "method", req.Method, "path", req.URL.Path, "wait", wait, "attempt", attempt+1)
		if err := t.sleep(req.Context(), wait); err != nil {
			return nil, err
		}

		attemptReq, err = rewind(req)
		if err != nil {
			return nil, err
		}
	}
}

// rewind clones req with a fresh body so it can be sent again.
func rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("cannot replay %s %s: request body is not rewindable", req.Method, req.URL.Path)
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("failed to rewind request body: %w", err)
	}
	clone.Body = body
	return clone, nil
}

// isRateLimited reports whether resp is a primary or secondary rate limit rejection.
func isRateLimited(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.Header.Get("Retry-After") != ""
	}
	return false
}

// retryDelay picks how long to wait before the next attempt: Retry-After,
// then the reset time, then exponential backoff.
func retryDelay(resp *http.Response, resetAt time.Time, attempt int, now time.Time) time.Duration {
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if resp.Header.Get("X-RateLimit-Remaining") == "0" && !resetAt.IsZero() {
		if d := resetAt.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	return constants.InitialBackoff << attempt
}

// parseRateLimitHeaders extracts rate limit info from response headers.
// Missing values are reported as -1.
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1

	if v := resp.Header.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			remaining = n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			resetAt = time.Unix(ts, 0)
		}
	}
	return remaining, limit, resetAt
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
