package codec

import (
	"github.com/hultner-technologies/recordkit/pkg/record"
)

// RecordCodec serializes records to text in a single format
type RecordCodec struct {
	format Format
}

// Option configures a RecordCodec
type Option func(*RecordCodec)

// WithFormat selects the text format (JSON by default)
func WithFormat(f Format) Option {
	return func(c *RecordCodec) {
		if f != nil {
			c.format = f
		}
	}
}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec(opts ...Option) *RecordCodec {
	c := &RecordCodec{format: JSON}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Format returns the codec's text format
func (c *RecordCodec) Format() Format {
	return c.format
}

// ContentType returns the MIME type of the codec's text format
func (c *RecordCodec) ContentType() string {
	return c.format.ContentType()
}

// Serialize encodes a record and renders it as text
func (c *RecordCodec) Serialize(inst record.Instance) ([]byte, error) {
	return c.format.Marshal(Encode(inst))
}

// Deserialize parses text and decodes it into a mutable record
func (c *RecordCodec) Deserialize(data []byte, shape *record.Shape) (*record.Record, error) {
	tree, err := c.format.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return Decode(tree, shape)
}

// DeserializeFrozen parses text and decodes it into an immutable record
func (c *RecordCodec) DeserializeFrozen(data []byte, shape *record.Shape) (*record.Frozen, error) {
	tree, err := c.format.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return DecodeFrozen(tree, shape)
}

var defaultCodec = NewRecordCodec()

// Serialize renders a record as canonical JSON
func Serialize(inst record.Instance) ([]byte, error) {
	return defaultCodec.Serialize(inst)
}

// Deserialize parses canonical JSON into a mutable record
func Deserialize(data []byte, shape *record.Shape) (*record.Record, error) {
	return defaultCodec.Deserialize(data, shape)
}

// DeserializeFrozen parses canonical JSON into an immutable record
func DeserializeFrozen(data []byte, shape *record.Shape) (*record.Frozen, error) {
	return defaultCodec.DeserializeFrozen(data, shape)
}
