// Package retrylimit paces and retries wallet RPC calls. The limiter adapts
// to the node: it speeds up while calls succeed and backs off when the node
// errors under load. Application-level RPC errors are never retried; only
// failures marked transient (network faults, node overload) are.
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// AdaptiveLimiter wraps a token bucket whose rate drifts with observed
// outcomes, between min and max requests per second.
type AdaptiveLimiter struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	minLimit rate.Limit
	maxLimit rate.Limit
	lastErr  time.Time
}

func NewAdaptiveLimiter(initial, min, max rate.Limit) *AdaptiveLimiter {
	if initial < min {
		initial = min
	}
	if initial > max {
		initial = max
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, 1),
		minLimit: min,
		maxLimit: max,
	}
}

// Wait blocks until a token is available or ctx is done.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success nudges the rate up after a quiet period without errors.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastErr) > 10*time.Second {
		a.setLimit(a.limiter.Limit() + 1)
	}
}

// Backoff halves the rate after a transient failure.
func (a *AdaptiveLimiter) Backoff() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastErr = time.Now()
	a.setLimit(a.limiter.Limit() / 2)
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) setLimit(l rate.Limit) {
	if l > a.maxLimit {
		l = a.maxLimit
	}
	if l < a.minLimit {
		l = a.minLimit
	}
	if l != a.limiter.Limit() {
		a.limiter.SetLimit(l)
	}
}

// TransientError marks a failure as retryable.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err so WithRetry will retry it.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err is marked retryable.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// WithRetry runs fn up to maxAttempts times, pacing each attempt through lim
// and backing off exponentially with jitter between transient failures.
// Non-transient errors are returned immediately.
func WithRetry(ctx context.Context, lim *AdaptiveLimiter, maxAttempts int, fn func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	delay := 500 * time.Millisecond
	var err error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if lim != nil {
			if werr := lim.Wait(ctx); werr != nil {
				return werr
			}
		}

		err = fn()
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if lim != nil {
			lim.Backoff()
		}
		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay + time.Duration(rand.Int63n(int64(delay/4)+1))):
		}
		delay *= 2
		if delay > 10*time.Second {
			delay = 10 * time.Second
		}
	}
	return fmt.Errorf("max attempts (%d) exceeded: %w", maxAttempts, err)
}
