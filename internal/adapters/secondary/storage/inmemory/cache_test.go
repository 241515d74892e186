package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YusufBro01/ymastar/internal/ports/cache"
)

func TestCache_TTL(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := NewCache(fc)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "found", "v", time.Minute))
	require.NoError(t, c.Set(ctx, "forever", "v", 0))

	got, err := c.Get(ctx, "found")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	fc.Advance(time.Minute)
	ok, _ := c.Exists(ctx, "found")
	assert.True(t, ok, "alive exactly at ttl")

	fc.Advance(time.Second)
	_, err = c.Get(ctx, "found")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	assert.Equal(t, 1, c.Purge())
	ok, _ = c.Exists(ctx, "forever")
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "forever"))
	_, err = c.Get(ctx, "forever")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}
