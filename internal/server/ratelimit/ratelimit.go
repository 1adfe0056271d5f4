// Package ratelimit provides fixed-window request rate limiting keyed
// by client identifier. The limiter is an explicit service owning its
// own map and lock; it is injected into the request boundary rather
// than living as module-level state.
package ratelimit

import (
	"sync"
	"time"
)

// Result contains the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// window tracks request counts for one client key within the current
// fixed window.
type window struct {
	count   int
	resetAt time.Time
}

// Limiter manages per-key fixed expiring windows.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	config  *Config

	sweepTicker *time.Ticker
	sweepStop   chan struct{}
}

// NewLimiter creates a limiter and, when sweeping is configured, starts
// the background sweeper that prunes expired windows on a fixed
// interval. Call Stop to halt the sweeper.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}

	l := &Limiter{
		windows: make(map[string]*window),
		config:  config,
	}

	if config.Enabled && config.SweepInterval > 0 {
		l.sweepTicker = time.NewTicker(config.SweepInterval)
		l.sweepStop = make(chan struct{})
		go l.sweep()
	}

	return l
}

// Check records a request for key against the given limit and window
// and reports whether it is allowed. The first request in an expired or
// missing window opens a fresh one.
func (l *Limiter) Check(key string, limit int, windowSize time.Duration) Result {
	if !l.config.Enabled {
		return Result{Allowed: true}
	}
	if l.config.Whitelist[key] {
		return Result{Allowed: true}
	}
	if l.config.Blacklist[key] {
		return Result{Allowed: false, Limit: limit}
	}

	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists || w.resetAt.Before(now) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(windowSize)}
		return Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - 1,
			ResetAt:   now.Add(windowSize),
		}
	}

	w.count++
	if w.count > limit {
		retryAfter := time.Until(w.resetAt)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return Result{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    w.resetAt,
			RetryAfter: retryAfter,
		}
	}

	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - w.count,
		ResetAt:   w.resetAt,
	}
}

// Allow checks key against the limiter's configured default limit and
// window.
func (l *Limiter) Allow(key string) Result {
	return l.Check(key, l.config.Requests, l.config.Window)
}

// SweepExpired removes windows whose reset time has passed.
func (l *Limiter) SweepExpired() {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, w := range l.windows {
		if w.resetAt.Before(now) {
			delete(l.windows, key)
		}
	}
}

// sweep runs SweepExpired on the configured interval until Stop.
func (l *Limiter) sweep() {
	for {
		select {
		case <-l.sweepTicker.C:
			l.SweepExpired()
		case <-l.sweepStop:
			return
		}
	}
}

// Stop halts the background sweeper.
func (l *Limiter) Stop() {
	if l.sweepTicker != nil {
		l.sweepTicker.Stop()
	}
	if l.sweepStop != nil {
		close(l.sweepStop)
	}
}
