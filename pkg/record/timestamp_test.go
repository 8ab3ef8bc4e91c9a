package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	cet := time.FixedZone("", 3600)

	testCases := []struct {
		text string
		want time.Time
	}{
		{text: "2018-12-12", want: time.Date(2018, 12, 12, 0, 0, 0, 0, time.UTC)},
		{text: "2018-12-12T08:30", want: time.Date(2018, 12, 12, 8, 30, 0, 0, time.UTC)},
		{text: "2018-12-12T08:30:15", want: time.Date(2018, 12, 12, 8, 30, 15, 0, time.UTC)},
		{text: "2018-12-12 08:30:15", want: time.Date(2018, 12, 12, 8, 30, 15, 0, time.UTC)},
		{text: "2018-12-12T08:30:15.250000", want: time.Date(2018, 12, 12, 8, 30, 15, 250000000, time.UTC)},
		{text: "2018-12-12T08:30:15Z", want: time.Date(2018, 12, 12, 8, 30, 15, 0, time.UTC)},
		{text: "2018-12-12T08:30:15+01:00", want: time.Date(2018, 12, 12, 8, 30, 15, 0, cet)},
		{text: "2018-12-12T08:30:15+00:00", want: time.Date(2018, 12, 12, 8, 30, 15, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			got, err := ParseTimestamp(tc.text)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %v, want %v", got, tc.want)
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, text := range []string{"", "not-a-date", "12/12/2018", "2018-13-01", "2018-12-12T25:00:00", "2018-12-12T08:30:15+1", "  2018-12-12  ", "2018-12-12\n", "\t2018-12-12T08:30"} {
		_, err := ParseTimestamp(text)
		assert.Error(t, err, text)
	}
}

func TestFormatTimestamp(t *testing.T) {
	testCases := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "naive midnight", in: time.Date(2018, 12, 12, 0, 0, 0, 0, time.UTC), want: "2018-12-12T00:00:00"},
		{name: "microseconds kept", in: time.Date(2018, 12, 12, 8, 0, 0, 123456000, time.UTC), want: "2018-12-12T08:00:00.123456"},
		{name: "nanoseconds dropped", in: time.Date(2018, 12, 12, 8, 0, 0, 999, time.UTC), want: "2018-12-12T08:00:00"},
		{name: "offset rendered", in: time.Date(2018, 12, 12, 8, 0, 0, 0, time.FixedZone("", -5*3600)), want: "2018-12-12T08:00:00-05:00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatTimestamp(tc.in))
		})
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	for _, text := range []string{"2018-12-12T00:00:00", "2018-12-12T08:00:00.000001", "2018-12-12T08:00:00+05:30"} {
		ts, err := ParseTimestamp(text)
		require.NoError(t, err)
		assert.Equal(t, text, FormatTimestamp(ts))
	}
}

func TestZeroOffsetIsNaive(t *testing.T) {
	for _, text := range []string{"2018-12-12T08:30:15Z", "2018-12-12T08:30:15+00:00", "2018-12-12T08:30:15-00:00"} {
		ts, err := ParseTimestamp(text)
		require.NoError(t, err, text)
		assert.Same(t, time.UTC, ts.Location(), text)
		assert.Equal(t, "2018-12-12T08:30:15", FormatTimestamp(ts), text)
	}
}
