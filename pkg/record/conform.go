package record

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Values holds raw field input keyed by field name
type Values map[string]any

// textMode controls how textual timestamps are treated while checking input
type textMode int

const (
	// keepText accepts timestamp text as-is; the post-init hook parses it
	keepText textMode = iota
	// coerceText parses timestamp text immediately
	coerceText
	// rejectText treats timestamp text as a type mismatch
	rejectText
)

// conform checks v against the declared kind of f and returns the stored
// representation of the value
func conform(f Field, v any, mode textMode) (any, error) {
	switch f.Kind {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}

	case KindInteger:
		if n, ok := toInt64(v); ok {
			return n, nil
		}

	case KindTimestamp:
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case *time.Time:
			if t != nil {
				return *t, nil
			}
		case string:
			switch mode {
			case keepText:
				return t, nil
			case coerceText:
				ts, err := ParseTimestamp(t)
				if err != nil {
					return nil, &FormatError{Field: f.Name, Text: t, Err: err}
				}
				return ts, nil
			}
		}

	case KindRecord:
		return conformNested(f, v, mode)
	}

	return nil, &TypeMismatchError{Field: f.Name, Kind: f.Kind, Value: v}
}

// conformNested stores nested records as frozen snapshots regardless of
// the variant of the enclosing record
func conformNested(f Field, v any, mode textMode) (any, error) {
	switch n := v.(type) {
	case *Record:
		if n != nil && n.shape.name == f.Shape.name {
			return n.Freeze(), nil
		}
	case *Frozen:
		if n != nil && n.shape.name == f.Shape.name {
			return n, nil
		}
	case Values:
		return buildNested(f.Shape, n, mode)
	case map[string]any:
		return buildNested(f.Shape, Values(n), mode)
	}
	return nil, &TypeMismatchError{Field: f.Name, Kind: f.Kind, Value: v}
}

func buildNested(s *Shape, in Values, mode textMode) (*Frozen, error) {
	switch mode {
	case keepText:
		r, err := New(s, in)
		if err != nil {
			return nil, err
		}
		return r.Freeze(), nil
	case coerceText:
		return Create(s, in)
	default:
		return Construct(s, in)
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) <= math.MaxInt64 {
			return int64(n), true
		}
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	}
	return 0, false
}

// build runs the construction checks in order (unknown, missing, type) and
// returns the field values in declaration order. Unset optional fields hold nil.
func build(s *Shape, in Values, mode textMode) ([]any, error) {
	var unknown []string
	for name := range in {
		if _, ok := s.index[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnknownFieldError{Shape: s.name, Fields: unknown}
	}

	var missing []string
	for _, f := range s.fields {
		if f.Required && in[f.Name] == nil {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldError{Shape: s.name, Fields: missing}
	}

	values := make([]any, len(s.fields))
	for i, f := range s.fields {
		raw := in[f.Name]
		fieldMode := mode
		if raw == nil {
			def, ok := f.defaultValue()
			if !ok || def == nil {
				continue
			}
			// defaults belong to the shape, not the caller
			raw, fieldMode = def, coerceText
		}

		v, err := conform(f, raw, fieldMode)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	return values, nil
}

var errIntegerSyntax = errors.New("not a decimal integer")

// ParseInteger parses base-10 integer text with an optional sign. Leading
// zeros are plain digits; base prefixes and digit separators are rejected.
func ParseInteger(text string) (int64, error) {
	digits := strings.TrimLeft(text, "+-")
	if len(text)-len(digits) > 1 || digits == "" {
		return 0, errIntegerSyntax
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, errIntegerSyntax
		}
	}

	// cast reads a leading zero as an octal prefix
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return cast.ToInt64E(text[:len(text)-len(digits)] + trimmed)
}
