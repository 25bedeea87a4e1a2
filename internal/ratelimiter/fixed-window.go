package ratelimiter

import (
	"sync"
	"time"
)

// FixedWindowRateLimiter counts requests per client IP inside a fixed
// window. Counts reset when the window rolls over, so a burst straddling
// the boundary can briefly see up to 2x the limit. Good enough for
// keeping enquiry spam off the public endpoints.
type FixedWindowRateLimiter struct {
	sync.Mutex
	clients map[string]*windowCount
	limit   int
	window  time.Duration
}

type windowCount struct {
	count   int
	started time.Time
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*windowCount),
		limit:   limit,
		window:  window,
	}
}

// Allow reports whether the request may proceed. When the limit is hit it
// returns the time remaining until the client's window resets.
func (rl *FixedWindowRateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.Lock()
	defer rl.Unlock()

	now := time.Now()
	wc, ok := rl.clients[ip]
	if !ok || now.Sub(wc.started) >= rl.window {
		rl.clients[ip] = &windowCount{count: 1, started: now}
		return true, 0
	}

	if wc.count < rl.limit {
		wc.count++
		return true, 0
	}

	return false, rl.window - now.Sub(wc.started)
}

// Sweep drops expired windows. Callers run it on a ticker so the clients
// map does not grow unbounded with one-off IPs.
func (rl *FixedWindowRateLimiter) Sweep() {
	rl.Lock()
	defer rl.Unlock()

	now := time.Now()
	for ip, wc := range rl.clients {
		if now.Sub(wc.started) >= rl.window {
			delete(rl.clients, ip)
		}
	}
}
