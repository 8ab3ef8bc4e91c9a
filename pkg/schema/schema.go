// Package schema loads record shapes from YAML definitions and keeps them
// in a registry keyed by shape name.
package schema

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/segmentio/ksuid"
	"gopkg.in/yaml.v3"

	"github.com/hultner-technologies/recordkit/pkg/record"
)

// File is the on-disk layout of a shape definition file
type File struct {
	Shapes []ShapeDef `yaml:"shapes"`
}

// ShapeDef declares one shape
type ShapeDef struct {
	Name   string     `yaml:"name"`
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef declares one field of a shape
type FieldDef struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	Required    bool   `yaml:"required,omitempty"`
	Default     any    `yaml:"default,omitempty"`
	DefaultFunc string `yaml:"default_func,omitempty"`
	Shape       string `yaml:"shape,omitempty"`
}

// Generators maps default_func names to generator functions
var Generators = map[string]record.Generator{
	"now":          record.CurrentTime,
	"current_year": record.CurrentYear,
	"ksuid":        NewID,
}

// NewID is a Generator returning a fresh KSUID string
func NewID() any {
	return ksuid.New().String()
}

// Registry holds shapes by name and is safe for concurrent use
type Registry struct {
	mu     sync.RWMutex
	shapes map[string]*record.Shape
}

// NewRegistry creates a registry preloaded with the built-in shapes
func NewRegistry() *Registry {
	r := &Registry{shapes: make(map[string]*record.Shape)}
	for _, s := range Builtins() {
		r.shapes[s.Name()] = s
	}
	return r
}

// Register adds or replaces a shape
func (r *Registry) Register(s *record.Shape) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shapes[s.Name()] = s
}

// Get looks up a shape by name
func (r *Registry) Get(name string) (*record.Shape, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shapes[name]
	return s, ok
}

// Names returns the registered shape names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.shapes))
	for name := range r.shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFile reads a shape definition file and registers every shape in it
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read shapes file: %w", err)
	}
	return r.Load(data)
}

// Load parses shape definitions and registers them. Shapes may refer to
// built-in shapes, already registered shapes and shapes declared earlier in
// the same document. Nothing is registered if any definition is invalid.
func (r *Registry) Load(data []byte) error {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse shapes file: %w", err)
	}

	pending := make(map[string]*record.Shape, len(file.Shapes))
	lookup := func(name string) (*record.Shape, bool) {
		if s, ok := pending[name]; ok {
			return s, true
		}
		return r.Get(name)
	}

	ordered := make([]*record.Shape, 0, len(file.Shapes))
	for _, def := range file.Shapes {
		if _, dup := pending[def.Name]; dup {
			return fmt.Errorf("shape %q declared twice", def.Name)
		}
		s, err := def.Build(lookup)
		if err != nil {
			return err
		}
		pending[def.Name] = s
		ordered = append(ordered, s)
	}

	for _, s := range ordered {
		r.Register(s)
	}
	return nil
}

// Build turns a definition into a shape. lookup resolves nested shape names.
func (d ShapeDef) Build(lookup func(string) (*record.Shape, bool)) (*record.Shape, error) {
	fields := make([]record.Field, 0, len(d.Fields))
	for _, fd := range d.Fields {
		kind, err := record.ParseKind(fd.Kind)
		if err != nil {
			return nil, fmt.Errorf("shape %q field %q: %w", d.Name, fd.Name, err)
		}

		var opts []record.FieldOption
		if fd.Required {
			opts = append(opts, record.Required())
		}
		if fd.Default != nil {
			opts = append(opts, record.Default(normalizeDefault(fd.Default)))
		}
		if fd.DefaultFunc != "" {
			gen, ok := Generators[fd.DefaultFunc]
			if !ok {
				return nil, fmt.Errorf("shape %q field %q: unknown default_func %q", d.Name, fd.Name, fd.DefaultFunc)
			}
			opts = append(opts, record.DefaultFunc(gen))
		}

		switch kind {
		case record.KindString:
			fields = append(fields, record.String(fd.Name, opts...))
		case record.KindInteger:
			fields = append(fields, record.Integer(fd.Name, opts...))
		case record.KindTimestamp:
			fields = append(fields, record.Timestamp(fd.Name, opts...))
		case record.KindRecord:
			nested, ok := lookup(fd.Shape)
			if !ok {
				return nil, fmt.Errorf("shape %q field %q: unknown nested shape %q", d.Name, fd.Name, fd.Shape)
			}
			fields = append(fields, record.Nested(fd.Name, nested, opts...))
		}
	}

	return record.NewShape(d.Name, fields...)
}

// normalizeDefault converts YAML-decoded defaults into construction input
func normalizeDefault(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case map[string]any:
		m := make(record.Values, len(x))
		for k, e := range x {
			m[k] = normalizeDefault(e)
		}
		return m
	default:
		// strings, and time.Time for unquoted YAML timestamps
		return x
	}
}
