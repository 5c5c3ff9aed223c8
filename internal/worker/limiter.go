package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces oracle calls. Unlike a crawler, every call here goes to a
// single API endpoint, so one shared token bucket is enough; it is safe
// for use from concurrent batch workers.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a rate limiter allowing requestsPerSecond sustained
// calls with the given burst.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until the next call is allowed or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
