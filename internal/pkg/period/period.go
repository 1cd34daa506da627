package period

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRestDay is the weekly rest day excluded from working-day counts.
// No holiday calendar is consulted on top of this.
const DefaultRestDay = time.Weekday(time.Sunday)

// WorkingDaysInMonth counts the calendar days of a month whose weekday is not
// the given rest day.
func WorkingDaysInMonth(year int, month time.Month, restDay time.Weekday) int {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := start.AddDate(0, 1, -1).Day()

	count := 0
	weekday := start.Weekday()
	for d := 0; d < days; d++ {
		if weekday != restDay {
			count++
		}
		weekday = (weekday + 1) % 7
	}
	return count
}

// MonthRange returns the first and last calendar day of the month, both at
// midnight UTC.
func MonthRange(year int, month time.Month) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end
}

// InclusiveDayCount returns the number of calendar days between start and end
// with both endpoints counted. A leave from Monday to Wednesday is 3 days.
func InclusiveDayCount(start, end time.Time) int {
	hours := end.Sub(start).Hours()
	if hours < 0 {
		hours = -hours
	}
	return int(math.Ceil(hours/24)) + 1
}

// WorkingHours returns the duration between checkIn and checkOut in hours,
// rounded to 2 decimals. Missing timestamps yield zero.
func WorkingHours(checkIn, checkOut *time.Time) decimal.Decimal {
	if checkIn == nil || checkOut == nil {
		return decimal.Zero
	}
	hours := checkOut.Sub(*checkIn).Hours()
	return decimal.NewFromFloat(hours).Round(2)
}

// Truncate drops the time-of-day component, keeping the calendar day in UTC.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
