package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewClient("redis://"+mr.Addr(), "test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient("not-a-url", "test")
	assert.Error(t, err)
}

func TestClientSetGet(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute))

	got, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestClientGetMissing(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNil(err))
}

func TestClientIncrExpire(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	n, err := client.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = client.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, client.Expire(ctx, "counter", time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("counter"))

	// Advancing past the window drops the counter
	mr.FastForward(time.Hour + time.Second)
	n, err = client.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestClientDelete(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, client.Delete(ctx, "k"))

	_, err := client.Get(ctx, "k")
	assert.True(t, IsNil(err))
}

func TestClientHealth(t *testing.T) {
	client, mr := newTestClient(t)

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}
