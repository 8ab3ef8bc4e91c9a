package codec

import (
	"time"

	"github.com/hultner-technologies/recordkit/pkg/record"
)

// Encode converts a record into a primitive tree in shape field order.
// Unset optional fields are omitted.
func Encode(inst record.Instance) Tree {
	shape := inst.Shape()
	tree := make(Tree, 0, shape.Len())
	for _, name := range shape.Names() {
		v, ok := inst.Get(name)
		if !ok {
			continue
		}
		tree = append(tree, Entry{Name: name, Value: encodeValue(v)})
	}
	return tree
}

func encodeValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return record.FormatTimestamp(x)
	case record.Instance:
		return Encode(x)
	default:
		// string and int64 pass through
		return x
	}
}

// Decode builds a mutable record from a tree. Values are handed to
// construction as raw input, so textual timestamps are coerced and absent
// keys are reported by the missing-field check.
func Decode(tree Tree, shape *record.Shape) (*record.Record, error) {
	return record.New(shape, Values(tree, shape))
}

// DecodeFrozen builds an immutable record from a tree via record.Create
func DecodeFrozen(tree Tree, shape *record.Shape) (*record.Frozen, error) {
	return record.Create(shape, Values(tree, shape))
}

// Values converts a tree into construction input for shape. Nested trees
// under record fields become nested Values; everything else is passed
// through for construction to check.
func Values(tree Tree, shape *record.Shape) record.Values {
	in := make(record.Values, len(tree))
	for _, e := range tree {
		v := e.Value
		if nested, ok := v.(Tree); ok {
			if f, declared := shape.Field(e.Name); declared && f.Kind == record.KindRecord {
				v = Values(nested, f.Shape)
			}
		}
		in[e.Name] = v
	}
	return in
}
