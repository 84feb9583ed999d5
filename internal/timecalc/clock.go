package timecalc

import (
	"fmt"
	"time"
)

// FormatClockTime renders the time of day of t. Seconds are shown only for
// ResolutionMedium combined with PrecisionSecond. Hours12Clock renders a
// zero-padded 12-hour clock followed by an AM/PM marker.
func FormatClockTime(t time.Time, res Resolution, style HourStyle, p Precision) string {
	return t.Format(clockLayout(res, style, p))
}

func clockLayout(res Resolution, style HourStyle, p Precision) string {
	var rest string
	switch res {
	case ResolutionShort:
		rest = ":04"
	case ResolutionMedium:
		rest = ":04"
		if withSeconds(p) {
			rest = ":04:05"
		}
	default:
		panic(fmt.Sprintf("timecalc: unknown resolution %d", int(res)))
	}

	switch style {
	case Hours24Clock:
		return "15" + rest
	case Hours12Clock:
		return "03" + rest + " PM"
	}
	panic(fmt.Sprintf("timecalc: unknown hour style %d", int(style)))
}

func withSeconds(p Precision) bool {
	switch p {
	case PrecisionSecond:
		return true
	case PrecisionMinute:
		return false
	}
	panic(fmt.Sprintf("timecalc: unknown precision %d", int(p)))
}
