package main

import (
	"time"

	"bazaar/internal/ratelimiter"
)

// sweepRateLimiterEvery drops expired rate-limit windows so the per-IP map
// does not grow without bound on the public intake endpoints.
func (app *application) sweepRateLimiterEvery(interval time.Duration) {
	fw, ok := app.rateLimiter.(*ratelimiter.FixedWindowRateLimiter)
	if !ok {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			fw.Sweep()
		}
	}()
}
