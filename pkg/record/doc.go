// Package record provides shape-declared records with auto-checked
// construction, defaults, post-construction normalization and equality.
//
// A Shape declares an ordered set of typed fields:
//
//	event := record.MustShape("event",
//	    record.String("location", record.Required()),
//	    record.Timestamp("date", record.Required()),
//	    record.Integer("year", record.DefaultFunc(record.CurrentYear)),
//	)
//
// # Kinds
//
// Field values belong to a closed set of kinds:
//   - String: stored as string
//   - Integer: stored as int64 (any Go integer type is accepted on input)
//   - Timestamp: stored as time.Time, also accepted as ISO-8601 text
//   - Record: a nested *Record or *Frozen of the declared nested shape
//
// # Mutable records
//
// New builds a *Record. After the field checks pass, the shape's
// normalization hooks run exactly once before the record is returned. The
// built-in hook parses textual timestamps; a malformed value fails the whole
// construction with a *FormatError.
//
//	r, err := record.New(event, record.Values{
//	    "location": "Stockholm",
//	    "date":     "2018-12-12",
//	})
//
// # Immutable records
//
// A *Frozen cannot run hooks after construction, so textual input is
// normalized up front. Prepare coerces raw values, Construct builds the
// record from normalized values, and Create composes the two:
//
//	f, err := record.Create(event, record.Values{
//	    "location": "Stockholm",
//	    "date":     "2018-12-12",
//	})
//	err = f.Set("year", 2019) // *MutationError
//
// # Errors
//
// Construction fails atomically with one of *UnknownFieldError,
// *MissingFieldError, *TypeMismatchError or *FormatError. Use errors.As to
// inspect them.
package record
