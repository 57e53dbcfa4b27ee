package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAdapter_SetAndGet(t *testing.T) {
	c := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 60))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryAdapter_GetMissing(t *testing.T) {
	c := NewMemoryAdapter()

	_, err := c.Get(context.Background(), "missing")
	assert.Error(t, err)
}

func TestMemoryAdapter_Delete(t *testing.T) {
	c := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 60))
	require.NoError(t, c.Delete(ctx, "k"))

	_, err := c.Get(ctx, "k")
	assert.Error(t, err)
}

func TestMemoryAdapter_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
