// Package codec provides record serialization and deserialization.
//
// The codec converts record instances into an ordered primitive tree and
// renders that tree as text. Decoding reverses both steps and hands the raw
// values to record construction, so decoded input is checked exactly like
// caller-supplied input.
//
// # Primitive Tree
//
// A Tree is an insertion-ordered list of entries, one per set field, in the
// order the shape declares them:
//   - String fields pass through unchanged
//   - Integer fields pass through as int64
//   - Timestamp fields become canonical ISO-8601 text
//   - Record fields become a nested Tree
//
// # Canonical Text
//
// The default format is compact JSON with entries in field order, no HTML
// escaping and no trailing newline:
//
//	{"location":"Stockholm","date":"2018-12-12T00:00:00","year":2018}
//
// Timestamps are written as YYYY-MM-DDTHH:MM:SS, with a .ffffff suffix when
// the value has a non-zero microsecond part and a ±HH:MM suffix when the
// value is not in UTC.
//
// # Usage
//
// Basic serialization:
//
//	text, err := codec.Serialize(rec)
//	if err != nil {
//	    return err
//	}
//
//	back, err := codec.Deserialize(text, shape)
//	if err != nil {
//	    return err
//	}
//
// A RecordCodec can be configured with another format:
//
//	c := codec.NewRecordCodec(codec.WithFormat(codec.YAML))
//
// # Error Handling
//
// Text that cannot be parsed, or whose top-level value is not an object,
// fails with a *ParseError. Everything after parsing is reported by record
// construction (*record.MissingFieldError, *record.UnknownFieldError,
// *record.TypeMismatchError, *record.FormatError).
//
// # Round Trip
//
// Deserialize(Serialize(r), shape) is field-wise equal to r for any record
// whose timestamps carry no sub-microsecond component.
//
// # Thread Safety
//
// RecordCodec instances are safe for concurrent use.
package codec
