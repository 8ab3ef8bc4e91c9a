package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	f, err := Create(eventShape(), Values{"location": "Stockholm", "date": "2018-12-12"})
	require.NoError(t, err)

	assert.Equal(t, "Stockholm", f.Str("location"))
	assert.Equal(t, time.Date(2018, 12, 12, 0, 0, 0, 0, time.UTC), f.Time("date"))
	assert.Equal(t, int64(time.Now().Year()), f.Int("year"))
}

func TestCreate_MalformedDate(t *testing.T) {
	f, err := Create(eventShape(), Values{"location": "Stockholm", "date": "not-a-date"})
	assert.Nil(t, f)

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "date", formatErr.Field)
}

func TestPrepare(t *testing.T) {
	raw := Values{"location": "Stockholm", "date": "2018-12-12T10:15:00", "extra": 1}

	in, err := Prepare(eventShape(), raw)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2018, 12, 12, 10, 15, 0, 0, time.UTC), in["date"])
	assert.Equal(t, "Stockholm", in["location"])
	assert.Equal(t, 1, in["extra"], "undeclared names pass through for Construct to reject")
	assert.Equal(t, "2018-12-12T10:15:00", raw["date"], "raw input is left untouched")
}

func TestConstruct_RejectsText(t *testing.T) {
	_, err := Construct(eventShape(), Values{"location": "Stockholm", "date": "2018-12-12"})

	var typeErr *TypeMismatchError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "date", typeErr.Field)

	f, err := Construct(eventShape(), Values{
		"location": "Stockholm",
		"date":     time.Date(2018, 12, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "Stockholm", f.Str("location"))
}

func TestFrozen_SetAlwaysFails(t *testing.T) {
	f, err := Create(eventShape(), Values{"location": "Stockholm", "date": "2018-12-12"})
	require.NoError(t, err)

	// location and date were supplied, year was defaulted
	for _, name := range []string{"location", "date", "year", "undeclared"} {
		err := f.Set(name, "value")

		var mutationErr *MutationError
		require.ErrorAs(t, err, &mutationErr, name)
		assert.Equal(t, name, mutationErr.Field)
	}

	assert.Equal(t, "Stockholm", f.Str("location"))
}

func TestFrozen_Instance(t *testing.T) {
	var inst Instance
	inst, err := Create(eventShape(), Values{"location": "Stockholm", "date": "2018-12-12"})
	require.NoError(t, err)

	var mutationErr *MutationError
	assert.ErrorAs(t, inst.Set("location", "Oslo"), &mutationErr)
}

func TestFrozen_ReplaceAndThaw(t *testing.T) {
	f, err := Create(eventShape(), Values{"location": "Stockholm", "date": "2018-12-12", "year": 2018})
	require.NoError(t, err)

	g, err := f.Replace(Values{"date": "2020-06-01"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 12, 12, 0, 0, 0, 0, time.UTC), f.Time("date"))
	assert.Equal(t, time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), g.Time("date"))

	r := f.Thaw()
	require.NoError(t, r.Set("location", "Oslo"))
	assert.Equal(t, "Stockholm", f.Str("location"), "thawed copy must not alias the frozen record")

	back := r.Freeze()
	require.NoError(t, r.Set("location", "Bergen"))
	assert.Equal(t, "Oslo", back.Str("location"), "frozen snapshot must not alias the mutable record")
}

func TestFrozen_Hash(t *testing.T) {
	event := eventShape()
	a, err := Create(event, Values{"location": "Stockholm", "date": "2018-12-12", "year": 2018})
	require.NoError(t, err)
	b, err := Create(event, Values{"location": "Stockholm", "date": "2018-12-12T01:00:00+01:00", "year": 2018})
	require.NoError(t, err)
	c, err := Create(event, Values{"location": "Oslo", "date": "2018-12-12", "year": 2018})
	require.NoError(t, err)

	require.True(t, Equal(a, b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())

	seen := map[uint64]*Frozen{a.Hash(): a}
	assert.Same(t, a, seen[b.Hash()])
}
