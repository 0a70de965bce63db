package admission

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounterCountsWithinWindow(t *testing.T) {
	counter := NewMemoryCounter()
	policy := Policy{Window: time.Minute, Capacity: 5}
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		count, err := counter.Count(ctx, "caller", policy)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}
}

func TestMemoryCounterEvictsIdleKeys(t *testing.T) {
	counter := NewMemoryCounter()
	now := time.Now()
	counter.now = func() time.Time { return now }

	policy := Policy{Window: time.Minute, Capacity: 5}
	ctx := context.Background()

	// a burst of one-off callers, each seen exactly once
	for i := 0; i < 1000; i++ {
		_, err := counter.Count(ctx, fmt.Sprintf("10.0.%d.%d", i/256, i%256), policy)
		require.NoError(t, err)
	}
	require.Len(t, counter.events, 1000)

	// once their windows lapse, the next call sweeps them all out
	now = now.Add(policy.Window + time.Second)
	count, err := counter.Count(ctx, "fresh-caller", policy)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, counter.events, 1, "idle callers must not be retained")
}

func TestMemoryCounterSweepKeepsActiveKeys(t *testing.T) {
	counter := NewMemoryCounter()
	now := time.Now()
	counter.now = func() time.Time { return now }

	policy := Policy{Window: time.Minute, Capacity: 5}
	ctx := context.Background()

	_, err := counter.Count(ctx, "idle", policy)
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = counter.Count(ctx, "active", policy)
	require.NoError(t, err)

	// past the idle key's window but inside the active one's
	now = now.Add(45 * time.Second)
	count, err := counter.Count(ctx, "active", policy)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "recent events for an active caller survive the sweep")
	assert.NotContains(t, counter.events, "idle")
}
