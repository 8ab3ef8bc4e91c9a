package store

import (
	"context"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	redis "github.com/redis/go-redis/v9"
)

const (
	fieldData   = "data"
	fieldFormat = "format"

	defaultKeyPrefix = "recordkit::"
)

// RedisOption configures a RedisBackend
type RedisOption func(*RedisBackend)

// WithKeyPrefix overrides the namespace prepended to every key
func WithKeyPrefix(prefix string) RedisOption {
	return func(b *RedisBackend) {
		b.keyPrefix = prefix
	}
}

// RedisBackend stores each payload as a hash with data and format fields
type RedisBackend struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisBackend wraps an existing redis client
func NewRedisBackend(client redis.UniversalClient, opts ...RedisOption) (*RedisBackend, error) {
	if client == nil {
		return nil, errors.New("store: redis client is nil")
	}

	b := &RedisBackend{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// NewRedisBackendWithOptions creates a redis client and wraps it
func NewRedisBackendWithOptions(options *redis.Options, opts ...RedisOption) (*RedisBackend, error) {
	if options == nil {
		return nil, errors.New("store: redis options are required")
	}
	return NewRedisBackend(redis.NewClient(options), opts...)
}

// Put stores a payload under key
func (b *RedisBackend) Put(ctx context.Context, key string, p Payload) error {
	fields := map[string]any{
		fieldData:   p.Data,
		fieldFormat: p.Format,
	}
	return errors.Wrapf(b.client.HSet(ctx, b.keyPrefix+key, fields).Err(), "put %s", key)
}

// Get reads the payload stored under key
func (b *RedisBackend) Get(ctx context.Context, key string) (Payload, error) {
	result, err := b.client.HGetAll(ctx, b.keyPrefix+key).Result()
	if err != nil {
		return Payload{}, errors.Wrapf(err, "get %s", key)
	}
	if len(result) == 0 {
		return Payload{}, errors.Wrapf(ErrNotFound, "key %s", key)
	}

	return Payload{
		Format: result[fieldFormat],
		Data:   []byte(result[fieldData]),
	}, nil
}

// Delete removes key
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	n, err := b.client.Del(ctx, b.keyPrefix+key).Result()
	if err != nil {
		return errors.Wrapf(err, "delete %s", key)
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "key %s", key)
	}
	return nil
}

// Keys returns the keys starting with prefix
func (b *RedisBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := b.client.Scan(ctx, 0, escapePattern(b.keyPrefix+prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), b.keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "scan keys")
	}

	// SCAN may return a key more than once
	sort.Strings(keys)
	out := keys[:0]
	for i, k := range keys {
		if i == 0 || k != keys[i-1] {
			out = append(out, k)
		}
	}
	return out, nil
}

// Close closes the underlying client
func (b *RedisBackend) Close() error {
	return b.client.Close()
}

// escapePattern quotes glob metacharacters for SCAN MATCH
func escapePattern(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
