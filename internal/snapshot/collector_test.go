//go:build linux

package snapshot

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCollectorSnapshotSeesSelf(t *testing.T) {
	c := NewCollector(zap.NewNop())
	assert.GreaterOrEqual(t, c.Cores(), 1)

	samples, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, samples)

	self := int32(os.Getpid())
	found := false
	for _, s := range samples {
		if s.PID == self {
			found = true
			assert.NotEmpty(t, s.Name)
			assert.Equal(t, uint32(os.Getuid()), s.UID)
			assert.Greater(t, s.RSSBytes, uint64(0))
			assert.GreaterOrEqual(t, s.Threads, int32(1))
			// First sighting has no CPU baseline yet.
			assert.Zero(t, s.CPUPercent)
		}
	}
	assert.True(t, found, "own pid missing from snapshot")
}

func TestCollectorCPUDelta(t *testing.T) {
	c := NewCollector(zap.NewNop())
	ctx := context.Background()

	_, err := c.Snapshot(ctx)
	require.NoError(t, err)

	// Burn a little CPU so the delta is observable but bounded.
	deadline := time.Now().Add(50 * time.Millisecond)
	for time.Now().Before(deadline) {
	}

	samples, err := c.Snapshot(ctx)
	require.NoError(t, err)

	self := int32(os.Getpid())
	for _, s := range samples {
		if s.PID == self {
			assert.GreaterOrEqual(t, s.CPUPercent, 0.0)
			return
		}
	}
	t.Fatal("own pid missing from second snapshot")
}

func TestCollectorPrunesDeadPids(t *testing.T) {
	c := NewCollector(zap.NewNop())
	c.prev[999999999] = cpuState{total: 1, at: time.Now()}

	_, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	_, ok := c.prev[999999999]
	assert.False(t, ok)
}
