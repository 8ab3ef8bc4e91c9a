package record

import (
	"fmt"
	"strings"
)

// MissingFieldError reports required fields absent from the input
type MissingFieldError struct {
	Shape  string
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field(s): %s", e.Shape, strings.Join(e.Fields, ", "))
}

// UnknownFieldError reports input names the shape does not declare
type UnknownFieldError struct {
	Shape  string
	Fields []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: unknown field(s): %s", e.Shape, strings.Join(e.Fields, ", "))
}

// TypeMismatchError reports a value whose type disagrees with the field kind
type TypeMismatchError struct {
	Field string
	Kind  Kind
	Value any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q: expected %s, got %T", e.Field, e.Kind, e.Value)
}

// FormatError reports coercible text that could not be parsed
type FormatError struct {
	Field string
	Text  string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("field %q: invalid %s value %q: %v", e.Field, KindTimestamp, e.Text, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// MutationError reports a write to an immutable record
type MutationError struct {
	Field string
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("cannot assign to field %q: record is immutable", e.Field)
}

// ShapeError reports an invalid shape declaration
type ShapeError struct {
	Shape   string
	Message string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape %q: %s", e.Shape, e.Message)
}
