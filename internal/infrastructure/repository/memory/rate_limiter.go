package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/gate"
)

const rateLimitSweepInterval = time.Minute

// RateLimiter is a sliding-window log per key for single-process
// deployments. Count and insert happen under one mutex.
type RateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*hitWindow
	lastSweep time.Time
}

type hitWindow struct {
	hits []time.Time
	span time.Duration
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{windows: make(map[string]*hitWindow)}
}

func (l *RateLimiter) Hit(_ context.Context, key string, policy gate.Policy, now time.Time) (gate.Decision, error) {
	if policy.Limit <= 0 {
		return gate.Decision{Allowed: true}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	w, ok := l.windows[key]
	if !ok {
		w = &hitWindow{}
		l.windows[key] = w
	}
	w.span = policy.Window
	w.prune(now)

	if len(w.hits) >= policy.Limit {
		return gate.Deny(len(w.hits), w.hits[0], now, policy.Window), nil
	}

	w.hits = append(w.hits, now)
	return gate.Decision{Allowed: true, Count: len(w.hits)}, nil
}

// sweep drops keys whose every hit has left its window.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < rateLimitSweepInterval {
		return
	}
	l.lastSweep = now
	for key, w := range l.windows {
		if w.prune(now); len(w.hits) == 0 {
			delete(l.windows, key)
		}
	}
}

func (w *hitWindow) prune(now time.Time) {
	cutoff := now.Add(-w.span)
	kept := w.hits[:0]
	for _, at := range w.hits {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	w.hits = kept
}
