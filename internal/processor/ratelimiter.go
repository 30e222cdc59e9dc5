package processor

import (
	"context"

	"golang.org/x/time/rate"
)

// defaultRPS is used when a caller passes a non-positive rate.
const defaultRPS = 100

// RateLimiter wraps a token bucket shared across API requests. Allow rejects
// immediately when the bucket is empty; Wait blocks for a token instead.
type RateLimiter struct {
	limiter *rate.Limiter
	logger  Logger
}

// NewRateLimiter builds a limiter admitting rps requests per second with the
// given burst. Non-positive rps falls back to defaultRPS, non-positive burst
// to rps.
func NewRateLimiter(rps, burst int, logger Logger) *RateLimiter {
	if rps <= 0 {
		rps = defaultRPS
	}
	if burst <= 0 {
		burst = rps
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		r.logger.Warn("Rate limiter wait aborted", "error", err)
		return err
	}
	return nil
}

// Allow reports whether a request may proceed right now, consuming a token
// when it may.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// SetLimit replaces the sustained rate at runtime.
func (r *RateLimiter) SetLimit(rps int) {
	r.limiter.SetLimit(rate.Limit(rps))
	r.logger.Info("Rate limit updated", "rps", rps)
}

// SetBurst replaces the burst size at runtime.
func (r *RateLimiter) SetBurst(burst int) {
	r.limiter.SetBurst(burst)
	r.logger.Info("Rate limit burst updated", "burst", burst)
}
