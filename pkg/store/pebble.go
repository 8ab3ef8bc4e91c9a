package store

import (
	"bytes"
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
)

// PebbleBackend stores payloads in a pebble database. Values are laid out
// as [format][0x00][data].
type PebbleBackend struct {
	db   *pebble.DB
	sync bool
}

// PebbleOption configures a PebbleBackend
type PebbleOption func(*PebbleBackend, *pebble.Options)

// WithSync makes every write durable before returning
func WithSync() PebbleOption {
	return func(b *PebbleBackend, _ *pebble.Options) {
		b.sync = true
	}
}

// WithPebbleOptions applies fn to the options used to open the database
func WithPebbleOptions(fn func(*pebble.Options)) PebbleOption {
	return func(_ *PebbleBackend, o *pebble.Options) {
		fn(o)
	}
}

// NewPebbleBackend opens (or creates) a pebble database at path
func NewPebbleBackend(path string, opts ...PebbleOption) (*PebbleBackend, error) {
	b := &PebbleBackend{}
	o := &pebble.Options{}
	for _, opt := range opts {
		opt(b, o)
	}

	db, err := pebble.Open(path, o)
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble at %s", path)
	}
	b.db = db
	return b, nil
}

func (b *PebbleBackend) writeOptions() *pebble.WriteOptions {
	if b.sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

// Put stores a payload under key
func (b *PebbleBackend) Put(ctx context.Context, key string, p Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value := make([]byte, 0, len(p.Format)+1+len(p.Data))
	value = append(value, p.Format...)
	value = append(value, 0)
	value = append(value, p.Data...)

	return errors.Wrapf(b.db.Set([]byte(key), value, b.writeOptions()), "put %s", key)
}

// Get reads the payload stored under key
func (b *PebbleBackend) Get(ctx context.Context, key string) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return Payload{}, err
	}

	data, closer, err := b.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return Payload{}, errors.Wrapf(ErrNotFound, "key %s", key)
	}
	if err != nil {
		return Payload{}, errors.Wrapf(err, "get %s", key)
	}
	defer closer.Close()

	// data is only valid until closer.Close
	sep := bytes.IndexByte(data, 0)
	if sep < 0 {
		return Payload{}, errors.Newf("key %s: malformed payload", key)
	}
	return Payload{
		Format: string(data[:sep]),
		Data:   append([]byte(nil), data[sep+1:]...),
	}, nil
}

// Delete removes key
func (b *PebbleBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.Get(ctx, key); err != nil {
		return err
	}
	return errors.Wrapf(b.db.Delete([]byte(key), b.writeOptions()), "delete %s", key)
}

// Keys returns the keys starting with prefix
func (b *PebbleBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	iter, err := b.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: prefixUpperBound([]byte(prefix)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create iterator")
	}

	var keys []string
	for iter.First(); iter.Valid(); iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	if err := iter.Error(); err != nil {
		_ = iter.Close()
		return nil, errors.Wrap(err, "iterate keys")
	}
	return keys, errors.Wrap(iter.Close(), "close iterator")
}

// Close closes the database
func (b *PebbleBackend) Close() error {
	return b.db.Close()
}

// prefixUpperBound returns the smallest key greater than every key with the
// given prefix, or nil when no such key exists
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
