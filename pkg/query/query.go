// Package query filters records by typed field conditions such as
// "year>=2018" or "event.location=Stockholm".
package query

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/hultner-technologies/recordkit/pkg/record"
)

// operators ordered so two-character forms match before their prefixes
var operators = []string{">=", "<=", "!=", "=", ">", "<"}

// FieldQuery represents a single field-based query condition
type FieldQuery struct {
	Field    string // dotted path into nested records, e.g. "event.year"
	Operator string // "=", "!=", ">", "<", ">=", "<="
	Value    string // operand text, interpreted by the field kind
}

// Parse splits an expression like "year>=2018" at its first operator
func Parse(expr string) (FieldQuery, error) {
	for i := 0; i < len(expr); i++ {
		for _, op := range operators {
			if strings.HasPrefix(expr[i:], op) {
				q := FieldQuery{
					Field:    strings.TrimSpace(expr[:i]),
					Operator: op,
					Value:    strings.TrimSpace(expr[i+len(op):]),
				}
				return q, q.Validate()
			}
		}
	}
	return FieldQuery{}, fmt.Errorf("no operator in condition %q", expr)
}

// Validate checks if the query is properly formed
func (q FieldQuery) Validate() error {
	if q.Field == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	for _, op := range operators {
		if q.Operator == op {
			return nil
		}
	}
	return fmt.Errorf("invalid operator: %s", q.Operator)
}

func (q FieldQuery) String() string {
	return q.Field + q.Operator + q.Value
}

// Condition is a FieldQuery resolved against a shape
type Condition struct {
	query   FieldQuery
	path    []string
	kind    record.Kind
	operand any
}

// Compile resolves the field path and converts the operand to the field's
// kind. Record-valued fields cannot be compared.
func (q FieldQuery) Compile(shape *record.Shape) (*Condition, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	path := strings.Split(q.Field, ".")
	s := shape
	var f record.Field
	for i, name := range path {
		var ok bool
		f, ok = s.Field(name)
		if !ok {
			return nil, fmt.Errorf("%s: unknown field %q", s.Name(), name)
		}
		if i < len(path)-1 {
			if f.Kind != record.KindRecord {
				return nil, fmt.Errorf("field %q is a %s, not a record", name, f.Kind)
			}
			s = f.Shape
		}
	}

	c := &Condition{query: q, path: path, kind: f.Kind}
	switch f.Kind {
	case record.KindString:
		c.operand = q.Value
	case record.KindInteger:
		n, err := record.ParseInteger(q.Value)
		if err != nil {
			return nil, fmt.Errorf("condition %s: %q is not an integer", q, q.Value)
		}
		c.operand = n
	case record.KindTimestamp:
		t, err := record.ParseTimestamp(q.Value)
		if err != nil {
			return nil, fmt.Errorf("condition %s: %w", q, err)
		}
		c.operand = t
	default:
		return nil, fmt.Errorf("condition %s: cannot compare %s fields", q, f.Kind)
	}
	return c, nil
}

// Match reports whether inst satisfies the condition. Unset fields never
// match.
func (c *Condition) Match(inst record.Instance) bool {
	v, ok := lookup(inst, c.path)
	if !ok || v == nil {
		return false
	}

	var order int
	switch c.kind {
	case record.KindString:
		order = cmp.Compare(v.(string), c.operand.(string))
	case record.KindInteger:
		order = cmp.Compare(v.(int64), c.operand.(int64))
	case record.KindTimestamp:
		order = v.(time.Time).Compare(c.operand.(time.Time))
	}

	switch c.query.Operator {
	case "=":
		return order == 0
	case "!=":
		return order != 0
	case ">":
		return order > 0
	case "<":
		return order < 0
	case ">=":
		return order >= 0
	default:
		return order <= 0
	}
}

func lookup(inst record.Instance, path []string) (any, bool) {
	v, ok := inst.Get(path[0])
	if !ok || len(path) == 1 {
		return v, ok
	}
	nested, isRecord := v.(*record.Frozen)
	if !isRecord || nested == nil {
		return nil, false
	}
	return lookup(nested, path[1:])
}

// Filter is a conjunction of conditions
type Filter []*Condition

// Compile parses and compiles every expression against shape
func Compile(shape *record.Shape, exprs ...string) (Filter, error) {
	f := make(Filter, 0, len(exprs))
	for _, expr := range exprs {
		q, err := Parse(expr)
		if err != nil {
			return nil, err
		}
		c, err := q.Compile(shape)
		if err != nil {
			return nil, err
		}
		f = append(f, c)
	}
	return f, nil
}

// Match reports whether inst satisfies every condition. An empty filter
// matches everything.
func (f Filter) Match(inst record.Instance) bool {
	for _, c := range f {
		if !c.Match(inst) {
			return false
		}
	}
	return true
}
