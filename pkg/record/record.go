package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Instance is the read side shared by mutable and immutable records
type Instance interface {
	Shape() *Shape
	Get(name string) (any, bool)
	Set(name string, v any) error
	AsMap() map[string]any
	AsTuple() []any
}

var (
	_ Instance = (*Record)(nil)
	_ Instance = (*Frozen)(nil)
)

// fieldSet holds the values of a record in shape declaration order
type fieldSet struct {
	shape  *Shape
	values []any
}

// Shape returns the record's shape
func (fs *fieldSet) Shape() *Shape {
	return fs.shape
}

// Get returns the value of a field. The second result is false for unknown
// names and for optional fields left unset.
func (fs *fieldSet) Get(name string) (any, bool) {
	i, ok := fs.shape.index[name]
	if !ok || fs.values[i] == nil {
		return nil, false
	}
	return fs.values[i], true
}

// Str returns a string field, or "" when unset
func (fs *fieldSet) Str(name string) string {
	v, _ := fs.Get(name)
	s, _ := v.(string)
	return s
}

// Int returns an integer field, or 0 when unset
func (fs *fieldSet) Int(name string) int64 {
	v, _ := fs.Get(name)
	n, _ := v.(int64)
	return n
}

// Time returns a timestamp field, or the zero time when unset
func (fs *fieldSet) Time(name string) time.Time {
	v, _ := fs.Get(name)
	t, _ := v.(time.Time)
	return t
}

// Nested returns a nested record field, or nil when unset
func (fs *fieldSet) Nested(name string) *Frozen {
	v, _ := fs.Get(name)
	f, _ := v.(*Frozen)
	return f
}

// AsMap converts the record to a map, nested records included. Unset
// optional fields are omitted.
func (fs *fieldSet) AsMap() map[string]any {
	m := make(map[string]any, len(fs.values))
	for i, f := range fs.shape.fields {
		v := fs.values[i]
		if v == nil {
			continue
		}
		if n, ok := v.(*Frozen); ok {
			v = n.AsMap()
		}
		m[f.Name] = v
	}
	return m
}

// AsTuple returns the field values in declaration order, nested records
// converted recursively
func (fs *fieldSet) AsTuple() []any {
	t := make([]any, len(fs.values))
	for i, v := range fs.values {
		if n, ok := v.(*Frozen); ok {
			v = n.AsTuple()
		}
		t[i] = v
	}
	return t
}

// Values returns a copy of the set fields as construction input
func (fs *fieldSet) Values() Values {
	in := make(Values, len(fs.values))
	for i, f := range fs.shape.fields {
		if fs.values[i] != nil {
			in[f.Name] = fs.values[i]
		}
	}
	return in
}

func (fs *fieldSet) String() string {
	var b strings.Builder
	b.WriteString(fs.shape.name)
	b.WriteByte('(')
	for i, f := range fs.shape.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteByte('=')
		b.WriteString(formatValue(fs.values[i]))
	}
	b.WriteByte(')')
	return b.String()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<unset>"
	case string:
		return strconv.Quote(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return FormatTimestamp(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Record is a mutable record instance
type Record struct {
	fieldSet
}

// New constructs a mutable record. Timestamp fields accept ISO-8601 text,
// which is parsed by the normalization step that runs before New returns.
// Shape hooks registered with WithPostInit run after that step.
func New(s *Shape, in Values) (*Record, error) {
	values, err := build(s, in, keepText)
	if err != nil {
		return nil, err
	}

	r := &Record{fieldSet{shape: s, values: values}}
	if err := r.postInit(); err != nil {
		return nil, err
	}
	return r, nil
}

// postInit runs exactly once per construction
func (r *Record) postInit() error {
	for i, f := range r.shape.fields {
		text, ok := r.values[i].(string)
		if !ok || f.Kind != KindTimestamp {
			continue
		}
		t, err := ParseTimestamp(text)
		if err != nil {
			return &FormatError{Field: f.Name, Text: text, Err: err}
		}
		r.values[i] = t
	}

	for _, hook := range r.shape.hooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// Set assigns a field. Timestamp text is parsed; nested records are stored
// as frozen snapshots.
func (r *Record) Set(name string, v any) error {
	i, ok := r.shape.index[name]
	if !ok {
		return &UnknownFieldError{Shape: r.shape.name, Fields: []string{name}}
	}

	f := r.shape.fields[i]
	if v == nil {
		if f.Required {
			return &TypeMismatchError{Field: name, Kind: f.Kind, Value: v}
		}
		r.values[i] = nil
		return nil
	}

	stored, err := conform(f, v, coerceText)
	if err != nil {
		return err
	}
	r.values[i] = stored
	return nil
}

// Replace returns a new record built from the current values overridden by
// changes. Construction and normalization run again.
func (r *Record) Replace(changes Values) (*Record, error) {
	in := r.Values()
	for k, v := range changes {
		in[k] = v
	}
	return New(r.shape, in)
}

// Freeze returns an immutable snapshot of the record
func (r *Record) Freeze() *Frozen {
	values := make([]any, len(r.values))
	copy(values, r.values)
	return &Frozen{fieldSet{shape: r.shape, values: values}}
}

// Equal reports whether two records have the same shape and field values
func Equal(a, b Instance) bool {
	if a == nil || b == nil {
		return a == b
	}
	sa, sb := a.Shape(), b.Shape()
	if sa.name != sb.name || len(sa.fields) != len(sb.fields) {
		return false
	}

	for _, f := range sa.fields {
		va, oka := a.Get(f.Name)
		vb, okb := b.Get(f.Name)
		if oka != okb {
			return false
		}
		if oka && !valueEqual(va, vb) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	switch x := a.(type) {
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case *Frozen:
		y, ok := b.(*Frozen)
		return ok && Equal(x, y)
	default:
		return a == b
	}
}
