package schema

import "github.com/hultner-technologies/recordkit/pkg/record"

// Event is the location/date/year record used throughout the examples.
// year defaults to the year at construction time.
var Event = record.MustShape("event",
	record.String("location", record.Required()),
	record.Timestamp("date", record.Required()),
	record.Integer("year", record.DefaultFunc(record.CurrentYear)),
)

// Builtins returns the shapes every registry starts with
func Builtins() []*record.Shape {
	return []*record.Shape{Event}
}
