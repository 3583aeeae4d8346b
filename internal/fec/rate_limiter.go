package fec

import (
	"context"
	"log"
	"sync"
	"time"
)

// RateLimiter manages FEC API rate limiting
type RateLimiter interface {
	Wait(ctx context.Context) error
	CheckLimit() (remaining int, resetTime time.Time)
	UpdateLimit(remaining int)
}

// fecRateLimiter implements RateLimiter for the FEC API
type fecRateLimiter struct {
	mu        sync.Mutex
	remaining int
	resetTime time.Time
	minDelay  time.Duration
	lastCall  time.Time
}

// defaultHourlyLimit is the FEC API key quota.
const defaultHourlyLimit = 1000

// NewRateLimiter creates a new rate limiter
func NewRateLimiter() RateLimiter {
	return &fecRateLimiter{
		remaining: defaultHourlyLimit,
		resetTime: time.Now().Add(time.Hour),
		minDelay:  100 * time.Millisecond, // Minimum delay between requests
	}
}

// Wait waits until it's safe to make another API call
func (r *fecRateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check if we need to wait for rate limit reset
	if r.remaining <= 5 {
		waitDuration := time.Until(r.resetTime)
		if waitDuration > 0 {
			log.Printf("fec rate limit low (%d remaining), waiting %v until reset", r.remaining, waitDuration.Round(time.Second))
			r.mu.Unlock()
			select {
			case <-ctx.Done():
				r.mu.Lock()
				return ctx.Err()
			case <-time.After(waitDuration):
				r.mu.Lock()
			}
		}
		// Reset after waiting
		r.remaining = defaultHourlyLimit
		r.resetTime = time.Now().Add(time.Hour)
	}

	// Ensure minimum delay between requests
	elapsed := time.Since(r.lastCall)
	if elapsed < r.minDelay {
		r.mu.Unlock()
		select {
		case <-ctx.Done():
			r.mu.Lock()
			return ctx.Err()
		case <-time.After(r.minDelay - elapsed):
			r.mu.Lock()
		}
	}

	r.lastCall = time.Now()
	return nil
}

// CheckLimit returns the current rate limit status
func (r *fecRateLimiter) CheckLimit() (remaining int, resetTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining, r.resetTime
}

// UpdateLimit updates the remaining quota from API response headers
func (r *fecRateLimiter) UpdateLimit(remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = remaining
}
