package service

import (
	"sync"
	"time"
)

// SlidingWindow is a simple in-memory per-key rate limiter: at most limit
// requests are allowed inside any rolling window. It is safe for
// concurrent use. Stale keys are automatically cleaned up.
type SlidingWindow struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
}

// NewSlidingWindow creates a rate limiter that allows up to limit requests
// per key in any rolling window. It starts a background goroutine that
// periodically removes stale keys.
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	sw := &SlidingWindow{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
	}
	go sw.cleanup()
	return sw
}

// Allow reports whether the given key is allowed to proceed under the rate
// limit. Allowed calls count against the window; rejected calls do not.
func (sw *SlidingWindow) Allow(key string) bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := time.Now()
	recent := sw.prune(sw.hits[key], now)

	if len(recent) >= sw.limit {
		sw.hits[key] = recent
		return false
	}

	sw.hits[key] = append(recent, now)
	return true
}

// prune drops timestamps that have fallen out of the window.
func (sw *SlidingWindow) prune(times []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-sw.window)
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	return times[i:]
}

// cleanup runs periodically and removes keys with no requests inside the
// current window.
func (sw *SlidingWindow) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		sw.mu.Lock()
		now := time.Now()
		for key, times := range sw.hits {
			if len(sw.prune(times, now)) == 0 {
				delete(sw.hits, key)
			}
		}
		sw.mu.Unlock()
	}
}
