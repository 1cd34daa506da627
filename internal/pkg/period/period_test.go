package period

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWorkingDaysInMonth(t *testing.T) {
	cases := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		// Feb 2024 is a leap month starting on Thursday; Sundays fall on
		// the 4th, 11th, 18th and 25th.
		{"february 2024 leap", 2024, time.February, 25},
		{"january 2024", 2024, time.January, 27},
		// Feb 2023: 28 days, Sundays on 5, 12, 19, 26.
		{"february 2023", 2023, time.February, 24},
		{"april 2024", 2024, time.April, 26},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := WorkingDaysInMonth(c.year, c.month, DefaultRestDay)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestWorkingDaysInMonth_NonSundayRestDay(t *testing.T) {
	// Feb 2024 has 4 Saturdays (3, 10, 17, 24).
	got := WorkingDaysInMonth(2024, time.February, time.Saturday)
	assert.Equal(t, 25, got)
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, time.February)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), end)

	start, end = MonthRange(2023, time.December)
	assert.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestInclusiveDayCount(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, 1, InclusiveDayCount(day(4), day(4)))
	assert.Equal(t, 3, InclusiveDayCount(day(4), day(6)))
	assert.Equal(t, 31, InclusiveDayCount(day(1), day(31)))
	// Reversed endpoints still count the span.
	assert.Equal(t, 3, InclusiveDayCount(day(6), day(4)))
}

func TestWorkingHours(t *testing.T) {
	in := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	out := time.Date(2024, time.March, 4, 17, 30, 0, 0, time.UTC)

	got := WorkingHours(&in, &out)
	assert.True(t, decimal.NewFromFloat(8.5).Equal(got), "got %s", got)

	// 7h20m rounds to 7.33.
	out2 := in.Add(7*time.Hour + 20*time.Minute)
	got = WorkingHours(&in, &out2)
	assert.True(t, decimal.NewFromFloat(7.33).Equal(got), "got %s", got)

	assert.True(t, WorkingHours(nil, &out).IsZero())
	assert.True(t, WorkingHours(&in, nil).IsZero())
}

func TestTruncate(t *testing.T) {
	ts := time.Date(2024, time.March, 4, 15, 42, 7, 123, time.FixedZone("x", 3600))
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), Truncate(ts))
}
