package admission

import (
	"context"
	"sync"
	"time"
)

// MemoryCounter is an in-process sliding-window counter. It is the default
// backend when Redis is not configured, and the one tests run against.
type MemoryCounter struct {
	mu        sync.Mutex
	events    map[string][]time.Time
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryCounter creates an empty counter.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		events: make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Count implements WindowCounter. Events older than the window are pruned on
// every call, and keys that have gone fully idle are swept out at most once
// per window, so memory stays bounded even across many one-off callers.
func (m *MemoryCounter) Count(_ context.Context, key string, policy Policy) (int, error) {
	now := m.now()
	cutoff := now.Add(-policy.Window)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep(now, cutoff, policy.Window)

	kept := m.events[key][:0]
	for _, ts := range m.events[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, now)
	m.events[key] = kept

	return len(kept), nil
}

// sweep drops keys whose newest event has fallen out of the window. Caller
// holds the lock.
func (m *MemoryCounter) sweep(now, cutoff time.Time, window time.Duration) {
	if now.Sub(m.lastSweep) < window {
		return
	}
	m.lastSweep = now

	for key, events := range m.events {
		if len(events) == 0 || !events[len(events)-1].After(cutoff) {
			delete(m.events, key)
		}
	}
}
