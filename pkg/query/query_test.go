package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hultner-technologies/recordkit/pkg/record"
)

var (
	event = record.MustShape("event",
		record.String("location", record.Required()),
		record.Timestamp("date", record.Required()),
		record.Integer("year"),
	)
	talk = record.MustShape("talk",
		record.String("title", record.Required()),
		record.Nested("event", event),
	)
)

func newTalk(t *testing.T, title, location, date string, year any) *record.Frozen {
	t.Helper()
	ev := record.Values{"location": location, "date": date}
	if year != nil {
		ev["year"] = year
	}
	f, err := record.Create(talk, record.Values{"title": title, "event": ev})
	require.NoError(t, err)
	return f
}

func TestParse(t *testing.T) {
	tests := []struct {
		expr    string
		want    FieldQuery
		wantErr bool
	}{
		{expr: "year>=2018", want: FieldQuery{Field: "year", Operator: ">=", Value: "2018"}},
		{expr: "location = Stockholm", want: FieldQuery{Field: "location", Operator: "=", Value: "Stockholm"}},
		{expr: "event.location!=Malmö", want: FieldQuery{Field: "event.location", Operator: "!=", Value: "Malmö"}},
		{expr: "date<2019-01-01T00:00:00+01:00", want: FieldQuery{Field: "date", Operator: "<", Value: "2019-01-01T00:00:00+01:00"}},
		{expr: "title=a=b", want: FieldQuery{Field: "title", Operator: "=", Value: "a=b"}},
		{expr: "year", wantErr: true},
		{expr: ">=2018", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Parse(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldQuery_Validate(t *testing.T) {
	assert.NoError(t, FieldQuery{Field: "year", Operator: "<="}.Validate())
	assert.Error(t, FieldQuery{Field: "", Operator: "="}.Validate())
	assert.Error(t, FieldQuery{Field: "year", Operator: "~"}.Validate())
}

func TestCompileErrors(t *testing.T) {
	tests := []string{
		"venue=Waterfront",
		"title.x=1",
		"event.year=soon",
		"event.date>tomorrow",
		"event=x",
		"event.city=Stockholm",
		"event.year=0x10",
		"event.year=0o17",
		"event.year=1_000",
	}

	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			_, err := Compile(talk, expr)
			assert.Error(t, err)
		})
	}
}

func TestFilter_Match(t *testing.T) {
	stockholm := newTalk(t, "Data Classes", "Stockholm", "2018-12-12", 2018)
	malmo := newTalk(t, "Generators", "Malmö", "2019-05-01 10:30", 2019)
	undated := newTalk(t, "Typing", "Gothenburg", "2020-02-02", nil)

	tests := []struct {
		exprs []string
		want  []*record.Frozen
	}{
		{exprs: nil, want: []*record.Frozen{stockholm, malmo, undated}},
		{exprs: []string{"event.location=Stockholm"}, want: []*record.Frozen{stockholm}},
		{exprs: []string{"event.location!=Stockholm"}, want: []*record.Frozen{malmo, undated}},
		{exprs: []string{"event.year>=2018"}, want: []*record.Frozen{stockholm, malmo}},
		{exprs: []string{"event.year<2019"}, want: []*record.Frozen{stockholm}},
		{exprs: []string{"event.date>2019-05-01T10:00"}, want: []*record.Frozen{malmo, undated}},
		{exprs: []string{"event.date<=2018-12-12"}, want: []*record.Frozen{stockholm}},
		{exprs: []string{"title>H", "event.year>2000"}, want: nil},
		{exprs: []string{"title<H", "event.year=2019"}, want: []*record.Frozen{malmo}},
		{exprs: []string{"event.year=02019"}, want: []*record.Frozen{malmo}},
	}

	for _, tt := range tests {
		t.Run(joinExprs(tt.exprs), func(t *testing.T) {
			f, err := Compile(talk, tt.exprs...)
			require.NoError(t, err)

			var got []*record.Frozen
			for _, r := range []*record.Frozen{stockholm, malmo, undated} {
				if f.Match(r) {
					got = append(got, r)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCondition_MatchesMutableRecords(t *testing.T) {
	r, err := record.New(event, record.Values{"location": "Stockholm", "date": "2018-12-12", "year": 2018})
	require.NoError(t, err)

	f, err := Compile(event, "year=2018", "date=2018-12-12T00:00:00")
	require.NoError(t, err)
	assert.True(t, f.Match(r))

	require.NoError(t, r.Set("year", 2017))
	assert.False(t, f.Match(r))
}

func joinExprs(exprs []string) string {
	if len(exprs) == 0 {
		return "all"
	}
	out := exprs[0]
	for _, e := range exprs[1:] {
		out += "&" + e
	}
	return out
}
