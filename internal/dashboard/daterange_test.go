package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/bikedash/internal/model"
)

var (
	minDay = day("2011-01-01")
	maxDay = day("2012-12-31")
)

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseRangeValid(t *testing.T) {
	rng, err := parseRange("2011-03-01", " 2011-03-31 ", minDay, maxDay)
	require.NoError(t, err)
	assert.Equal(t, day("2011-03-01"), rng.Start)
	assert.Equal(t, day("2011-03-31"), rng.End)
}

func TestParseRangeEmptyFieldsUseBounds(t *testing.T) {
	rng, err := parseRange("", "", minDay, maxDay)
	require.NoError(t, err)
	assert.Equal(t, model.DateRange{Start: minDay, End: maxDay}, rng)
}

func TestParseRangeSingleDay(t *testing.T) {
	rng, err := parseRange("2012-02-29", "2012-02-29", minDay, maxDay)
	require.NoError(t, err)
	assert.Equal(t, 1, rng.Days())
}

func TestParseRangeErrors(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{"bad start", "2011/03/01", "", "invalid start date (expected YYYY-MM-DD)"},
		{"bad end", "", "31-03-2011", "invalid end date (expected YYYY-MM-DD)"},
		{"start before data", "2010-12-31", "", "start date must be between 2011-01-01 and 2012-12-31"},
		{"end after data", "", "2013-01-01", "end date must be between 2011-01-01 and 2012-12-31"},
		{"inverted", "2012-01-02", "2012-01-01", "start date must not be after end date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseRange(tc.start, tc.end, minDay, maxDay)
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestShiftRangeKeepsLength(t *testing.T) {
	rng := model.DateRange{Start: day("2011-03-01"), End: day("2011-03-10")}

	next := shiftRange(rng, 1, minDay, maxDay)
	assert.Equal(t, day("2011-03-11"), next.Start)
	assert.Equal(t, day("2011-03-20"), next.End)

	prev := shiftRange(rng, -1, minDay, maxDay)
	assert.Equal(t, day("2011-02-19"), prev.Start)
	assert.Equal(t, day("2011-02-28"), prev.End)
}

func TestShiftRangeClampsAtBounds(t *testing.T) {
	rng := model.DateRange{Start: day("2011-01-05"), End: day("2011-01-14")}
	prev := shiftRange(rng, -1, minDay, maxDay)
	assert.Equal(t, model.DateRange{Start: minDay, End: day("2011-01-10")}, prev)

	rng = model.DateRange{Start: day("2012-12-20"), End: day("2012-12-29")}
	next := shiftRange(rng, 1, minDay, maxDay)
	assert.Equal(t, model.DateRange{Start: day("2012-12-22"), End: maxDay}, next)
	assert.Equal(t, rng.Days(), next.Days())
}

func TestShiftRangeFullSpan(t *testing.T) {
	full := model.DateRange{Start: minDay, End: maxDay}
	assert.Equal(t, full, shiftRange(full, 1, minDay, maxDay))
	assert.Equal(t, full, shiftRange(full, -1, minDay, maxDay))
}
