package memkv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "b", "2", 0))

	v, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "a")
	assert.False(t, ok)
	ok, _ = c.Exists(ctx, "b")
	assert.True(t, ok)
}

func TestSetNXAndGetDel(t *testing.T) {
	c := New()
	ctx := context.Background()

	ok, _ := c.SetNX(ctx, "k", "first", 0)
	assert.True(t, ok)
	ok, _ = c.SetNX(ctx, "k", "second", 0)
	assert.False(t, ok)

	v, ok, _ := c.GetDel(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "first", v)
	_, ok, _ = c.GetDel(ctx, "k")
	assert.False(t, ok)
}

func TestDeleteAndExpire(t *testing.T) {
	c := New()
	ctx := context.Background()
	_ = c.Set(ctx, "x", "1", 0)
	_ = c.Set(ctx, "y", "1", 0)

	n, _ := c.Delete(ctx, "x", "y", "z")
	assert.Equal(t, int64(2), n)

	updated, _ := c.Expire(ctx, "x", time.Second)
	assert.False(t, updated)
}
