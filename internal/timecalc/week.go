package timecalc

import (
	"fmt"
	"time"
)

// WeekBoundaries returns the first and last day (both at 00:00) of the week
// that lies offset weeks away from the week containing the engine's current
// instant. Weeks begin on startDay.
func (e *Engine) WeekBoundaries(offset int, startDay time.Weekday) (time.Time, time.Time) {
	if startDay < time.Sunday || startDay > time.Saturday {
		panic(fmt.Sprintf("timecalc: unknown weekday %d", int(startDay)))
	}
	ref := StartOfDay(e.now()).AddDate(0, 0, 7*offset)

	// Snap to startDay inside the Monday-based week of ref. When that lands
	// after ref, the week containing ref began one week earlier.
	first := ref.AddDate(0, 0, isoIndex(startDay)-isoIndex(ref.Weekday()))
	if first.After(ref) {
		first = first.AddDate(0, 0, -7)
	}
	last := first.AddDate(0, 0, 6)

	e.logger().Debug("week boundaries", "offset", offset, "start_day", startDay,
		"first", first.Format("2006-01-02"), "last", last.Format("2006-01-02"))
	return first, last
}

// isoIndex maps Monday..Sunday to 0..6.
func isoIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
