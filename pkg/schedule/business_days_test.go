package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsBusinessDay(t *testing.T) {
	cal := NewCalendar(date(2026, time.September, 16)) // holiday on a Wednesday

	require.True(t, cal.IsBusinessDay(date(2026, time.September, 14)))  // Monday
	require.False(t, cal.IsBusinessDay(date(2026, time.September, 12))) // Saturday
	require.False(t, cal.IsBusinessDay(date(2026, time.September, 13))) // Sunday
	require.False(t, cal.IsBusinessDay(date(2026, time.September, 16))) // holiday
}

func TestBusinessDaysBetween(t *testing.T) {
	cal := NewCalendar()

	// Friday to Monday spans a weekend: exactly one business day elapsed.
	require.Equal(t, 1, cal.BusinessDaysBetween(date(2026, time.September, 11), date(2026, time.September, 14)))

	// Full week, Monday to next Monday.
	require.Equal(t, 5, cal.BusinessDaysBetween(date(2026, time.September, 14), date(2026, time.September, 21)))

	// Same day and reversed ranges are zero.
	require.Equal(t, 0, cal.BusinessDaysBetween(date(2026, time.September, 14), date(2026, time.September, 14)))
	require.Equal(t, 0, cal.BusinessDaysBetween(date(2026, time.September, 15), date(2026, time.September, 14)))
}

func TestBusinessDaysBetweenSkipsHolidays(t *testing.T) {
	cal := NewCalendar(date(2026, time.September, 16))

	// Mon -> Fri normally 4, minus the Wednesday holiday.
	require.Equal(t, 3, cal.BusinessDaysBetween(date(2026, time.September, 14), date(2026, time.September, 18)))
}

func TestParseCalendar(t *testing.T) {
	cal := ParseCalendar("2026-12-25, 2026-01-01, nonsense,")

	require.False(t, cal.IsBusinessDay(date(2026, time.December, 25)))
	require.False(t, cal.IsBusinessDay(date(2026, time.January, 1)))
	require.True(t, cal.IsBusinessDay(date(2026, time.December, 24)))
}
