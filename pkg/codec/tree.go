package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf8"
)

// Entry is one named value of a primitive tree
type Entry struct {
	Name  string
	Value any
}

// Tree is an insertion-ordered mapping from field name to primitive value.
// Encoded values are string, int64 or a nested Tree. Parsed trees may also
// carry float64, bool, nil or []any, which record construction rejects.
type Tree []Entry

// Get returns the value stored under name
func (t Tree) Get(name string) (any, bool) {
	for _, e := range t {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the entry names in order
func (t Tree) Keys() []string {
	keys := make([]string, len(t))
	for i, e := range t {
		keys[i] = e.Name
	}
	return keys
}

// MarshalJSON writes the tree as a JSON object with entries in order
func (t Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONObject(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order
func (t *Tree) UnmarshalJSON(data []byte) error {
	tree, err := parseJSON(data)
	if err != nil {
		return err
	}
	*t = tree
	return nil
}

func writeJSONObject(buf *bytes.Buffer, t Tree) error {
	buf.Grow(len(t) * 24)
	buf.WriteByte('{')
	for i, e := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(buf, e.Name); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeJSONValue(buf, e.Value); err != nil {
			return fmt.Errorf("entry %q: %w", e.Name, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONValue(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case string:
		return writeJSONString(buf, x)
	case int64:
		buf.WriteString(strconv.FormatInt(x, 10))
		return nil
	case Tree:
		return writeJSONObject(buf, x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

// writeJSONString quotes s without HTML escaping
func writeJSONString(buf *bytes.Buffer, s string) error {
	if !utf8.ValidString(s) {
		return errInvalidUTF8
	}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

var errInvalidUTF8 = errors.New("invalid UTF-8")

func parseJSON(data []byte) (Tree, error) {
	// the decoder would replace invalid bytes with U+FFFD
	if !utf8.Valid(data) {
		return nil, errInvalidUTF8
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("top-level value must be an object, got %v", tok)
	}

	tree, err := readJSONObject(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level object")
	}
	return tree, nil
}

// readJSONObject reads entries up to and including the closing brace
func readJSONObject(dec *json.Decoder) (Tree, error) {
	tree := Tree{}
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = true

		v, err := readJSONValue(dec)
		if err != nil {
			return nil, err
		}
		tree = append(tree, Entry{Name: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return tree, nil
}

func readJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return readJSONObject(dec)
		case '[':
			var items []any
			for dec.More() {
				item, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return items, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return numberValue(f), nil
	default:
		// string, bool or nil
		return v, nil
	}
}

// numberValue returns integral floats such as 1e3 as int64
func numberValue(f float64) any {
	if math.Trunc(f) == f && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f)
	}
	return f
}
