package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, c.Set(ctx, "key", payload{Name: "badges", Count: 3}, time.Minute))

	var got payload
	hit, err := c.Get(ctx, "key", &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "badges", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestMemoryCacheMissAndDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	var got string
	hit, err := c.Get(ctx, "absent", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "key", "value", 0))
	require.NoError(t, c.Delete(ctx, "key"))

	hit, err = c.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", "value", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got string
	hit, err := c.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.False(t, hit, "expired entries read as misses")
}
