package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimitedError reports an exhausted budget along with the remaining
// block time the client should wait before retrying.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// Limiter is a per-identifier attempt budget. Consume either succeeds or
// fails with *RateLimitedError. Reset clears the identifier's counter, used
// after a successful login so legitimate users are not penalized.
type Limiter interface {
	Consume(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Policy describes one budget: Points attempts per Window, then Block after
// exhaustion.
type Policy struct {
	Points int
	Window time.Duration
	Block  time.Duration
}

type memoryEntry struct {
	points       int
	windowEnd    time.Time
	blockedUntil time.Time
}

// MemoryLimiter is the single-instance implementation: a mutex-protected
// map of counters with periodic garbage collection of expired entries.
// Horizontal scaling fragments the budget; use the Redis limiter for
// multi-instance deployments.
type MemoryLimiter struct {
	policy Policy

	mu      sync.Mutex
	entries map[string]*memoryEntry
	lastGC  time.Time

	now func() time.Time // overridable in tests
}

// NewMemoryLimiter builds an in-memory limiter for one policy.
func NewMemoryLimiter(policy Policy) *MemoryLimiter {
	return &MemoryLimiter{
		policy:  policy,
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// Consume atomically checks and increments the counter for key.
func (l *MemoryLimiter) Consume(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.gc(now)

	e, ok := l.entries[key]
	if !ok {
		e = &memoryEntry{windowEnd: now.Add(l.policy.Window)}
		l.entries[key] = e
	}

	if e.blockedUntil.After(now) {
		return &RateLimitedError{RetryAfter: e.blockedUntil.Sub(now)}
	}

	if now.After(e.windowEnd) {
		e.points = 0
		e.windowEnd = now.Add(l.policy.Window)
	}

	if e.points >= l.policy.Points {
		e.blockedUntil = now.Add(l.policy.Block)
		return &RateLimitedError{RetryAfter: l.policy.Block}
	}

	e.points++
	return nil
}

// Reset clears the counter for key.
func (l *MemoryLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}

// gc drops entries whose window and block have both elapsed. Runs at most
// once per window so Consume stays O(1) in the common case.
func (l *MemoryLimiter) gc(now time.Time) {
	if now.Sub(l.lastGC) < l.policy.Window {
		return
	}
	l.lastGC = now
	for key, e := range l.entries {
		if now.After(e.windowEnd) && now.After(e.blockedUntil) {
			delete(l.entries, key)
		}
	}
}
