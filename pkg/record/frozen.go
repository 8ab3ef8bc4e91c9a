package record

import (
	"encoding/binary"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Frozen is an immutable record instance. It is safe to share between
// goroutines once constructed.
type Frozen struct {
	fieldSet
}

// Construct builds an immutable record from normalized input. Timestamp
// fields must already hold time.Time values; use Create for textual input.
func Construct(s *Shape, in Values) (*Frozen, error) {
	values, err := build(s, in, rejectText)
	if err != nil {
		return nil, err
	}
	return &Frozen{fieldSet{shape: s, values: values}}, nil
}

// Prepare coerces raw input into the normalized form Construct accepts.
// Timestamp text is parsed and nested maps are built into frozen records.
// Names the shape does not declare are passed through untouched so that
// Construct can report them.
func Prepare(s *Shape, raw Values) (Values, error) {
	out := make(Values, len(raw))
	for name, v := range raw {
		f, ok := s.Field(name)
		if !ok || v == nil {
			out[name] = v
			continue
		}

		switch f.Kind {
		case KindTimestamp:
			if text, isText := v.(string); isText {
				t, err := ParseTimestamp(text)
				if err != nil {
					return nil, &FormatError{Field: name, Text: text, Err: err}
				}
				v = t
			}
		case KindRecord:
			stored, err := conformNested(f, v, coerceText)
			if err != nil {
				return nil, err
			}
			v = stored
		}
		out[name] = v
	}
	return out, nil
}

// Create prepares raw input and constructs an immutable record from it
func Create(s *Shape, raw Values) (*Frozen, error) {
	in, err := Prepare(s, raw)
	if err != nil {
		return nil, err
	}
	return Construct(s, in)
}

// Set always fails: frozen records cannot be mutated
func (f *Frozen) Set(name string, _ any) error {
	return &MutationError{Field: name}
}

// Replace returns a new frozen record built from the current values
// overridden by changes
func (f *Frozen) Replace(changes Values) (*Frozen, error) {
	in := f.Values()
	for k, v := range changes {
		in[k] = v
	}
	return Create(f.shape, in)
}

// Thaw returns a mutable copy of the record
func (f *Frozen) Thaw() *Record {
	values := make([]any, len(f.values))
	copy(values, f.values)
	return &Record{fieldSet{shape: f.shape, values: values}}
}

// Hash returns a hash of the shape name and field values. Records that are
// Equal hash to the same value.
func (f *Frozen) Hash() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(f.shape.name)

	var buf [8]byte
	for i, field := range f.shape.fields {
		_, _ = d.WriteString(field.Name)
		switch v := f.values[i].(type) {
		case nil:
			_, _ = d.Write([]byte{0})
		case string:
			_, _ = d.Write([]byte{byte(KindString)})
			_, _ = d.WriteString(v)
		case int64:
			_, _ = d.Write([]byte{byte(KindInteger)})
			binary.LittleEndian.PutUint64(buf[:], uint64(v))
			_, _ = d.Write(buf[:])
		case time.Time:
			_, _ = d.Write([]byte{byte(KindTimestamp)})
			binary.LittleEndian.PutUint64(buf[:], uint64(v.UnixNano()))
			_, _ = d.Write(buf[:])
		case *Frozen:
			_, _ = d.Write([]byte{byte(KindRecord)})
			binary.LittleEndian.PutUint64(buf[:], v.Hash())
			_, _ = d.Write(buf[:])
		}
	}
	return d.Sum64()
}
