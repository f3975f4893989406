package dedupe

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsStablePerTurn(t *testing.T) {
	assert.Equal(t, Key("c1", "وين طلبي"), Key("c1", "وين طلبي"))
	assert.NotEqual(t, Key("c1", "وين طلبي"), Key("c2", "وين طلبي"))
	assert.NotEqual(t, Key("c1", "a"), Key("c1", "b"))
}

func TestNopGuardAlwaysAcquires(t *testing.T) {
	ok, err := NopGuard{}.Acquire(context.Background(), "c1", "m")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, NopGuard{}.Release(context.Background(), "c1", "m"))
}

func TestRedisGuardIntegration(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	g, err := NewRedisGuard(ctx, url, time.Minute)
	require.NoError(t, err)
	defer g.Close()

	conv := "test-" + time.Now().Format(time.RFC3339Nano)
	defer g.Client.Del(ctx, Key(conv, "hello"))

	first, err := g.Acquire(ctx, conv, "hello")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := g.Acquire(ctx, conv, "hello")
	require.NoError(t, err)
	assert.False(t, second)

	require.NoError(t, g.Release(ctx, conv, "hello"))
	again, err := g.Acquire(ctx, conv, "hello")
	require.NoError(t, err)
	assert.True(t, again)
}
