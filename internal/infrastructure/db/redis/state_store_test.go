package redis

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a live server when REDIS_TEST_ADDR is set.
func TestStateStore_Live(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr})
	require.NoError(t, err)
	defer client.Close()

	s := NewStateStore(client, "console-test:")
	defer s.Remove(ctx, "token")

	_, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "token", "abc"))
	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, s.Remove(ctx, "token"))
	_, ok, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)
}
