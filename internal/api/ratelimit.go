package api

import (
	"time"

	"github.com/listenupapp/movielens/internal/ratelimit"
)

// NewRateLimiter creates a per-client limiter allowing ratePerInterval
// requests each interval with the given burst.
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *ratelimit.KeyedRateLimiter {
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}
