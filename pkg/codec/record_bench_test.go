//go:build bench
// +build bench

package codec

import (
	"strings"
	"testing"

	"github.com/hultner-technologies/recordkit/pkg/record"
)

func benchRecords(b *testing.B) []struct {
	name string
	rec  *record.Frozen
} {
	b.Helper()

	sizes := []struct {
		name     string
		location string
	}{
		{name: "small", location: "Stockholm"},
		{name: "medium", location: strings.Repeat("l", 1000)},
		{name: "large", location: strings.Repeat("l", 100000)},
	}

	out := make([]struct {
		name string
		rec  *record.Frozen
	}, 0, len(sizes))
	for _, s := range sizes {
		f, err := record.Create(eventShape(), record.Values{"location": s.location, "date": "2018-12-12T10:00:00.5", "year": 2018})
		if err != nil {
			b.Fatal(err)
		}
		out = append(out, struct {
			name string
			rec  *record.Frozen
		}{s.name, f})
	}
	return out
}

func BenchmarkRecordCodec_Serialize(b *testing.B) {
	for _, format := range []Format{JSON, YAML} {
		c := NewRecordCodec(WithFormat(format))
		for _, bm := range benchRecords(b) {
			b.Run(format.Name()+"/"+bm.name, func(b *testing.B) {
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := c.Serialize(bm.rec); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkRecordCodec_Deserialize(b *testing.B) {
	shape := eventShape()
	for _, format := range []Format{JSON, YAML} {
		c := NewRecordCodec(WithFormat(format))
		for _, bm := range benchRecords(b) {
			text, err := c.Serialize(bm.rec)
			if err != nil {
				b.Fatal(err)
			}

			b.Run(format.Name()+"/"+bm.name, func(b *testing.B) {
				b.SetBytes(int64(len(text)))
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := c.DeserializeFrozen(text, shape); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	f := benchRecords(b)[0].rec
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Encode(f)
	}
}
