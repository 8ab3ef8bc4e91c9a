//go:build fuzz
// +build fuzz

package codec

import (
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/hultner-technologies/recordkit/pkg/record"
)

// FuzzRecordCodec_RoundTrip tests serialize/deserialize round-trip with random inputs
func FuzzRecordCodec_RoundTrip(f *testing.F) {
	f.Add("Stockholm", int64(1544572800), int64(2018))
	f.Add("", int64(0), int64(0))
	f.Add("\"quoted\" <html> & ünïcode", int64(-86400), int64(-1))

	shape := eventShape()

	f.Fuzz(func(t *testing.T, location string, unix int64, year int64) {
		if !utf8.ValidString(location) {
			t.Skip("JSON text is UTF-8 only")
		}
		// four-digit years only
		if unix < -62135596800 || unix > 253402300799 {
			t.Skip("Timestamp outside of ISO-8601 year range")
		}

		date := time.Unix(unix, 0).UTC()
		for _, format := range []Format{JSON, YAML} {
			c := NewRecordCodec(WithFormat(format))

			rec, err := record.Create(shape, record.Values{"location": location, "date": date, "year": year})
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			text, err := c.Serialize(rec)
			if err != nil {
				t.Fatalf("%s: Serialize failed: %v", format.Name(), err)
			}

			back, err := c.DeserializeFrozen(text, shape)
			if err != nil {
				t.Fatalf("%s: Deserialize failed for %q: %v", format.Name(), text, err)
			}

			if !record.Equal(rec, back) {
				t.Errorf("%s: round trip mismatch: got %v, want %v", format.Name(), back, rec)
			}
		}
	})
}

// FuzzDeserialize_MalformedData tests handling of arbitrary input text
func FuzzDeserialize_MalformedData(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("{"))
	f.Add([]byte(`{"location":"Stockholm","date":"2018-12-12"}`))
	f.Add([]byte(`{"location":"Stockholm","date":"2018-12-12","year":1e99}`))
	f.Add([]byte(`[{"location":"Stockholm"}]`))

	shape := eventShape()

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 100000 {
			t.Skip("Input too large for fuzz test")
		}

		rec, err := Deserialize(data, shape)
		if err == nil {
			if rec == nil {
				t.Fatal("nil record without error")
			}
			return
		}

		// every failure must be one of the documented error types
		var (
			parseErr   *ParseError
			missingErr *record.MissingFieldError
			unknownErr *record.UnknownFieldError
			typeErr    *record.TypeMismatchError
			formatErr  *record.FormatError
		)
		if !errors.As(err, &parseErr) && !errors.As(err, &missingErr) && !errors.As(err, &unknownErr) &&
			!errors.As(err, &typeErr) && !errors.As(err, &formatErr) {
			t.Errorf("undocumented error %T: %v", err, err)
		}
	})
}
