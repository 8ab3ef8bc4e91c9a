package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemPebble(t *testing.T) *PebbleBackend {
	t.Helper()

	b, err := NewPebbleBackend("", WithPebbleOptions(func(o *pebble.Options) {
		o.FS = vfs.NewMem()
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func newMiniRedis(t *testing.T, opts ...RedisOption) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()

	srv, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	b, err := NewRedisBackend(redis.NewClient(&redis.Options{Addr: srv.Addr()}), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b, srv
}

func backends(t *testing.T) map[string]Backend {
	rb, _ := newMiniRedis(t)
	return map[string]Backend{
		"pebble": newMemPebble(t),
		"redis":  rb,
	}
}

func TestBackend_Contract(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := b.Get(ctx, "event:missing")
			assert.True(t, errors.Is(err, ErrNotFound))
			assert.True(t, errors.Is(b.Delete(ctx, "event:missing"), ErrNotFound))

			require.NoError(t, b.Put(ctx, "event:b", Payload{Format: "json", Data: []byte(`{"a":1}`)}))
			require.NoError(t, b.Put(ctx, "event:a", Payload{Format: "yaml", Data: []byte("a: 1\n")}))
			require.NoError(t, b.Put(ctx, "eventx:c", Payload{Format: "json", Data: []byte(`{}`)}))
			require.NoError(t, b.Put(ctx, "talk:d", Payload{Format: "json", Data: []byte(`{}`)}))

			p, err := b.Get(ctx, "event:a")
			require.NoError(t, err)
			assert.Equal(t, Payload{Format: "yaml", Data: []byte("a: 1\n")}, p)

			keys, err := b.Keys(ctx, "event:")
			require.NoError(t, err)
			assert.Equal(t, []string{"event:a", "event:b"}, keys)

			require.NoError(t, b.Put(ctx, "event:a", Payload{Format: "json", Data: []byte(`{"a":2}`)}))
			p, err = b.Get(ctx, "event:a")
			require.NoError(t, err)
			assert.Equal(t, "json", p.Format)
			assert.Equal(t, `{"a":2}`, string(p.Data))

			require.NoError(t, b.Delete(ctx, "event:a"))
			_, err = b.Get(ctx, "event:a")
			assert.True(t, errors.Is(err, ErrNotFound))

			keys, err = b.Keys(ctx, "event:")
			require.NoError(t, err)
			assert.Equal(t, []string{"event:b"}, keys)
		})
	}
}

func TestPebbleBackend_CancelledContext(t *testing.T) {
	b := newMemPebble(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, b.Put(ctx, "k", Payload{Format: "json"}), context.Canceled)
	_, err := b.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisBackend_KeyPrefix(t *testing.T) {
	b, srv := newMiniRedis(t, WithKeyPrefix("talks::"))
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "event:a", Payload{Format: "json", Data: []byte(`{}`)}))
	assert.True(t, srv.Exists("talks::event:a"))
	assert.Equal(t, "json", srv.HGet("talks::event:a", "format"))

	// keys outside the namespace are invisible
	srv.HSet("other::event:b", "format", "json")
	keys, err := b.Keys(ctx, "event:")
	require.NoError(t, err)
	assert.Equal(t, []string{"event:a"}, keys)
}

func TestNewRedisBackend_Validation(t *testing.T) {
	_, err := NewRedisBackend(nil)
	assert.Error(t, err)

	_, err = NewRedisBackendWithOptions(nil)
	assert.Error(t, err)
}

func TestPrefixUpperBound(t *testing.T) {
	assert.Equal(t, []byte("event;"), prefixUpperBound([]byte("event:")))
	assert.Equal(t, []byte{0x01}, prefixUpperBound([]byte{0x00, 0xff}))
	assert.Nil(t, prefixUpperBound([]byte{0xff, 0xff}))
	assert.Nil(t, prefixUpperBound(nil))
}
