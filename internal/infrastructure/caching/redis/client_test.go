package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func TestClientRoundTrip(t *testing.T) {
	_, c := newTestClient(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, c.Set(ctx, "k1", payload{Name: "pot", Count: 3}, time.Minute))

	var got payload
	found, err := c.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "pot", Count: 3}, got)
}

func TestClientMissingKey(t *testing.T) {
	_, c := newTestClient(t)

	var got string
	found, err := c.Get(context.Background(), "nope", &got)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestClientTTL(t *testing.T) {
	mr, c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", "v", 30*time.Second))
	mr.FastForward(31 * time.Second)

	var got string
	found, err := c.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClientDelete(t *testing.T) {
	_, c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", "v", time.Minute))
	require.NoError(t, c.Set(ctx, "k2", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k1", "k2"))
	require.NoError(t, c.Delete(ctx))

	var got string
	found, err := c.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClientCorruptValue(t *testing.T) {
	mr, c := newTestClient(t)
	mr.Set("k1", "{not json")

	var got map[string]string
	found, err := c.Get(context.Background(), "k1", &got)

	assert.Error(t, err)
	assert.False(t, found)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("not-a-url")
	assert.Error(t, err)
}
