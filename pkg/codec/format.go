package codec

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Format converts primitive trees to and from text
type Format interface {
	Name() string
	ContentType() string
	Marshal(t Tree) ([]byte, error)
	Unmarshal(data []byte) (Tree, error)
}

var (
	// JSON is the canonical format: compact, UTF-8, entries in field order
	JSON Format = jsonFormat{}
	// YAML writes one block mapping per record with quoted strings
	YAML Format = yamlFormat{}
)

// ParseError reports text that could not be parsed into a tree
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatByName resolves "json" or "yaml" (case-insensitive, "yml" allowed)
func FormatByName(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return nil, fmt.Errorf("unsupported format %q", name)
}

type jsonFormat struct{}

func (jsonFormat) Name() string        { return "json" }
func (jsonFormat) ContentType() string { return "application/json" }

func (jsonFormat) Marshal(t Tree) ([]byte, error) {
	return t.MarshalJSON()
}

func (jsonFormat) Unmarshal(data []byte) (Tree, error) {
	t, err := parseJSON(data)
	if err != nil {
		return nil, &ParseError{Format: "json", Err: err}
	}
	return t, nil
}

type yamlFormat struct{}

func (yamlFormat) Name() string        { return "yaml" }
func (yamlFormat) ContentType() string { return "application/yaml" }

func (yamlFormat) Marshal(t Tree) ([]byte, error) {
	return yaml.Marshal(t)
}

func (yamlFormat) Unmarshal(data []byte) (Tree, error) {
	if !utf8.Valid(data) {
		return nil, &ParseError{Format: "yaml", Err: errInvalidUTF8}
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &ParseError{Format: "yaml", Err: err}
	}
	if node.Kind == 0 {
		return nil, &ParseError{Format: "yaml", Err: fmt.Errorf("empty document")}
	}
	t, err := nodeTree(&node)
	if err != nil {
		return nil, &ParseError{Format: "yaml", Err: err}
	}
	return t, nil
}
