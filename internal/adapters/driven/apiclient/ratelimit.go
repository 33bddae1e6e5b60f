package apiclient

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
const HeaderRetryAfter = "Retry-After"

// RateLimiter throttles requests proactively and backs off after a 429.
type RateLimiter struct {
	mu           sync.Mutex
	bucket       *rate.Limiter
	blockedUntil time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests per second.
// A non-positive rate disables proactive throttling.
func NewRateLimiter(perSecond float64) *RateLimiter {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = int(math.Max(1, math.Ceil(perSecond)))
	}
	return &RateLimiter{bucket: rate.NewLimiter(limit, burst)}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	until := r.blockedUntil
	r.mu.Unlock()

	if wait := time.Until(until); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// CheckRateLimit returns a RateLimitError for a 429 response and records
// the Retry-After deadline.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	retryAt := parseRetryAfter(resp.Header.Get(HeaderRetryAfter), time.Now())
	if !retryAt.IsZero() {
		r.mu.Lock()
		if retryAt.After(r.blockedUntil) {
			r.blockedUntil = retryAt
		}
		r.mu.Unlock()
	}
	return &RateLimitError{RetryAt: retryAt}
}

// BlockedUntil returns the Retry-After deadline, zero if none.
func (r *RateLimiter) BlockedUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blockedUntil
}

func parseRetryAfter(v string, now time.Time) time.Time {
	if v == "" {
		return time.Time{}
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return now.Add(time.Duration(seconds) * time.Second)
	}
	if t, err := http.ParseTime(v); err == nil {
		return t
	}
	return time.Time{}
}
