package record

import (
	"errors"
	"time"
)

const (
	isoDate    = "2006-01-02"
	isoSeconds = "2006-01-02T15:04:05"
	isoMicros  = "2006-01-02T15:04:05.000000"
	isoOffset  = "-07:00"
)

var errTimestampSyntax = errors.New("not an ISO-8601 date or date-time")

// naiveLayouts are tried in order for text without a UTC offset.
// Fractional seconds are accepted after the seconds field by time.Parse.
var naiveLayouts = []string{
	isoDate,
	"2006-01-02T15:04",
	isoSeconds,
}

var offsetLayouts = []string{
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z07:00",
}

// ParseTimestamp parses ISO-8601 text. Text without an offset is naive and
// is returned in time.UTC, as is text with a zero offset ("Z" or "+00:00").
// Any other offset is kept. Surrounding whitespace is not accepted.
func ParseTimestamp(text string) (time.Time, error) {
	s := text
	if len(s) > len(isoDate) && s[len(isoDate)] == ' ' {
		s = s[:len(isoDate)] + "T" + s[len(isoDate)+1:]
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if _, offset := t.Zone(); offset == 0 {
				// time.Parse may report a zero offset in time.Local
				return t.UTC(), nil
			}
			return t, nil
		}
	}

	return time.Time{}, errTimestampSyntax
}

// FormatTimestamp renders t in canonical ISO-8601 form. Microseconds are
// written only when non-zero and the offset only when t is not in UTC.
func FormatTimestamp(t time.Time) string {
	layout := isoSeconds
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		layout = isoMicros
	}
	if t.Location() != time.UTC {
		layout += isoOffset
	}
	return t.Format(layout)
}

// CurrentYear is a Generator returning the year at construction time
func CurrentYear() any {
	return int64(time.Now().Year())
}

// CurrentTime is a Generator returning the construction time in UTC,
// truncated to the microsecond precision of the canonical text form
func CurrentTime() any {
	return time.Now().UTC().Truncate(time.Microsecond)
}
