package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *BucketStore[string] {
	t.Helper()
	s := NewBucketStore[string](context.Background(), nil, time.Minute, time.Hour)
	s.SetBucketGroup("pdf", &BucketConf{Burst: 2, Increment: 1, Period: time.Second})
	return s
}

func TestAllowBurstThenRefill(t *testing.T) {
	s := newStore(t)
	now := time.Unix(100, 0)

	assert.True(t, s.Allow("pdf", "u1", now))
	assert.True(t, s.Allow("pdf", "u1", now))
	assert.False(t, s.Allow("pdf", "u1", now))

	// other keys have their own bucket
	assert.True(t, s.Allow("pdf", "u2", now))

	now = now.Add(1500 * time.Millisecond)
	assert.True(t, s.Allow("pdf", "u1", now))
	assert.False(t, s.Allow("pdf", "u1", now))

	// refill is capped at burst
	now = now.Add(time.Minute)
	assert.True(t, s.Allow("pdf", "u1", now))
	assert.True(t, s.Allow("pdf", "u1", now))
	assert.False(t, s.Allow("pdf", "u1", now))
}

func TestUnknownGroupIsBlocked(t *testing.T) {
	s := newStore(t)
	assert.False(t, s.Allow("nope", "u1", time.Now()))
}

func TestCleanupRemovesIdleBuckets(t *testing.T) {
	s := newStore(t)
	now := time.Unix(100, 0)
	s.Allow("pdf", "idle", now)
	s.Allow("pdf", "busy", now.Add(2*time.Hour))

	assert.Equal(t, 1, s.Cleanup(now.Add(2*time.Hour)))
	_, ok := s.GetBucket("pdf", "idle")
	assert.False(t, ok)
	_, ok = s.GetBucket("pdf", "busy")
	assert.True(t, ok)
}

func TestServiceLifecycle(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Start())
	assert.Error(t, s.Start())
	s.Stop()
	select {
	case err := <-s.Done():
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
