package store

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"

	"github.com/hultner-technologies/recordkit/pkg/codec"
	"github.com/hultner-technologies/recordkit/pkg/record"
)

const keySeparator = ":"

// Entry is a stored record with its id
type Entry struct {
	ID     ksuid.KSUID
	Record *record.Frozen
}

// RecordStore saves records through a codec into a Backend
type RecordStore struct {
	backend Backend
	codec   *codec.RecordCodec
}

// New creates a RecordStore. A nil codec writes canonical JSON.
func New(backend Backend, c *codec.RecordCodec) *RecordStore {
	if c == nil {
		c = codec.NewRecordCodec()
	}
	return &RecordStore{backend: backend, codec: c}
}

// Key returns the backend key for a record of the given shape
func Key(shape string, id ksuid.KSUID) string {
	return shape + keySeparator + id.String()
}

// Save stores a record under a freshly generated id
func (s *RecordStore) Save(ctx context.Context, inst record.Instance) (ksuid.KSUID, error) {
	id := ksuid.New()
	if err := s.Put(ctx, id, inst); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

// Put stores a record under id, replacing any previous value
func (s *RecordStore) Put(ctx context.Context, id ksuid.KSUID, inst record.Instance) error {
	data, err := s.codec.Serialize(inst)
	if err != nil {
		return errors.Wrap(err, "serialize record")
	}

	p := Payload{Format: s.codec.Format().Name(), Data: data}
	return s.backend.Put(ctx, Key(inst.Shape().Name(), id), p)
}

// Load reads a record back as an immutable instance of shape. The payload
// is decoded with the format it was written in.
func (s *RecordStore) Load(ctx context.Context, shape *record.Shape, id ksuid.KSUID) (*record.Frozen, error) {
	p, err := s.backend.Get(ctx, Key(shape.Name(), id))
	if err != nil {
		return nil, err
	}
	return decodePayload(p, shape)
}

// Raw returns the stored payload without decoding it
func (s *RecordStore) Raw(ctx context.Context, shape string, id ksuid.KSUID) (Payload, error) {
	return s.backend.Get(ctx, Key(shape, id))
}

// Delete removes a record
func (s *RecordStore) Delete(ctx context.Context, shape string, id ksuid.KSUID) error {
	return s.backend.Delete(ctx, Key(shape, id))
}

// IDs returns the ids stored for a shape, oldest first
func (s *RecordStore) IDs(ctx context.Context, shape string) ([]ksuid.KSUID, error) {
	prefix := shape + keySeparator
	keys, err := s.backend.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}

	ids := make([]ksuid.KSUID, 0, len(keys))
	for _, k := range keys {
		id, err := ksuid.Parse(strings.TrimPrefix(k, prefix))
		if err != nil {
			// keys written outside the store
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// List loads every record stored for shape, oldest first
func (s *RecordStore) List(ctx context.Context, shape *record.Shape) ([]Entry, error) {
	ids, err := s.IDs(ctx, shape.Name())
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		f, err := s.Load(ctx, shape, id)
		if errors.Is(err, ErrNotFound) {
			// deleted between the scan and the read
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", Key(shape.Name(), id))
		}
		entries = append(entries, Entry{ID: id, Record: f})
	}
	return entries, nil
}

// Close closes the backend
func (s *RecordStore) Close() error {
	return s.backend.Close()
}

func decodePayload(p Payload, shape *record.Shape) (*record.Frozen, error) {
	format, err := codec.FormatByName(p.Format)
	if err != nil {
		return nil, errors.Wrap(err, "stored payload")
	}
	return codec.NewRecordCodec(codec.WithFormat(format)).DeserializeFrozen(p.Data, shape)
}
