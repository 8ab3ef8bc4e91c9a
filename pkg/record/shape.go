package record

import (
	"fmt"
	"strings"
)

// Kind identifies the type of value a field holds
type Kind int

const (
	KindString Kind = iota + 1
	KindInteger
	KindTimestamp
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindTimestamp:
		return "timestamp"
	case KindRecord:
		return "record"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a kind name as used in shape files to a Kind
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "str", "text":
		return KindString, nil
	case "integer", "int":
		return KindInteger, nil
	case "timestamp", "datetime", "date":
		return KindTimestamp, nil
	case "record":
		return KindRecord, nil
	}
	return 0, fmt.Errorf("unknown field kind %q", name)
}

// Generator produces a default value each time a record is constructed
type Generator func() any

// Hook runs once on a freshly constructed mutable record
type Hook func(r *Record) error

// Field describes a single named, typed field of a shape
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Shape    *Shape // nested shape, KindRecord only

	def       any
	hasDef    bool
	generator Generator
}

// FieldOption configures a field declaration
type FieldOption func(*Field)

// Required marks the field as mandatory on construction
func Required() FieldOption {
	return func(f *Field) {
		f.Required = true
	}
}

// Default sets a static default value
func Default(v any) FieldOption {
	return func(f *Field) {
		f.def = v
		f.hasDef = true
	}
}

// DefaultFunc sets a generator invoked at every construction that omits the field
func DefaultFunc(gen Generator) FieldOption {
	return func(f *Field) {
		f.generator = gen
	}
}

// String declares a string field
func String(name string, opts ...FieldOption) Field {
	return newField(name, KindString, nil, opts)
}

// Integer declares an integer field
func Integer(name string, opts ...FieldOption) Field {
	return newField(name, KindInteger, nil, opts)
}

// Timestamp declares a timestamp field
func Timestamp(name string, opts ...FieldOption) Field {
	return newField(name, KindTimestamp, nil, opts)
}

// Nested declares a field holding a record of another shape
func Nested(name string, shape *Shape, opts ...FieldOption) Field {
	return newField(name, KindRecord, shape, opts)
}

func newField(name string, kind Kind, shape *Shape, opts []FieldOption) Field {
	f := Field{Name: name, Kind: kind, Shape: shape}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// HasDefault reports whether the field has a static default or a generator
func (f Field) HasDefault() bool {
	return f.hasDef || f.generator != nil
}

// defaultValue returns the static default or a freshly generated value
func (f Field) defaultValue() (any, bool) {
	if f.generator != nil {
		return f.generator(), true
	}
	return f.def, f.hasDef
}

// Shape declares the ordered field set of a record type
type Shape struct {
	name   string
	fields []Field
	index  map[string]int
	hooks  []Hook
}

// NewShape validates the field declarations and returns a shape
func NewShape(name string, fields ...Field) (*Shape, error) {
	if name == "" {
		return nil, &ShapeError{Shape: name, Message: "name is required"}
	}

	s := &Shape{
		name:   name,
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	for i, f := range fields {
		if f.Name == "" {
			return nil, &ShapeError{Shape: name, Message: fmt.Sprintf("field %d has no name", i)}
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, &ShapeError{Shape: name, Message: fmt.Sprintf("duplicate field %q", f.Name)}
		}
		if f.Required && f.HasDefault() {
			return nil, &ShapeError{Shape: name, Message: fmt.Sprintf("required field %q cannot have a default", f.Name)}
		}
		if f.Kind < KindString || f.Kind > KindRecord {
			return nil, &ShapeError{Shape: name, Message: fmt.Sprintf("field %q has invalid kind %s", f.Name, f.Kind)}
		}
		if f.Kind == KindRecord && f.Shape == nil {
			return nil, &ShapeError{Shape: name, Message: fmt.Sprintf("record field %q has no nested shape", f.Name)}
		}
		if f.hasDef && f.def != nil {
			v, err := conform(f, f.def, coerceText)
			if err != nil {
				return nil, &ShapeError{Shape: name, Message: fmt.Sprintf("default for %q: %v", f.Name, err)}
			}
			f.def = v
		}

		s.fields[i] = f
		s.index[f.Name] = i
	}

	return s, nil
}

// MustShape is like NewShape but panics on an invalid declaration
func MustShape(name string, fields ...Field) *Shape {
	s, err := NewShape(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// WithPostInit returns a copy of the shape that runs hook after the
// built-in normalization of every mutable record it constructs
func (s *Shape) WithPostInit(hook Hook) *Shape {
	c := *s
	c.hooks = append(append([]Hook(nil), s.hooks...), hook)
	return &c
}

// Name returns the shape name
func (s *Shape) Name() string {
	return s.name
}

// Len returns the number of declared fields
func (s *Shape) Len() int {
	return len(s.fields)
}

// Fields returns the field declarations in order
func (s *Shape) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a field declaration by name
func (s *Shape) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Names returns the field names in declaration order
func (s *Shape) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}
