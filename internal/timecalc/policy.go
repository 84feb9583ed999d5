package timecalc

import (
	"fmt"
	"strings"
	"time"
)

// Precision is the granularity instants are truncated to before any
// interval arithmetic.
type Precision int

const (
	PrecisionSecond Precision = iota
	PrecisionMinute
)

func (p Precision) String() string {
	switch p {
	case PrecisionSecond:
		return "second"
	case PrecisionMinute:
		return "minute"
	}
	return fmt.Sprintf("Precision(%d)", int(p))
}

// DayLength is the number of hours counted as one day when a long duration
// is split into days.
type DayLength int

const (
	Hours24 DayLength = iota
	Hours8
)

// Hours returns the length of one day in hours.
func (d DayLength) Hours() int64 {
	switch d {
	case Hours24:
		return 24
	case Hours8:
		return 8
	}
	panic(fmt.Sprintf("timecalc: unknown day length %d", int(d)))
}

func (d DayLength) String() string {
	switch d {
	case Hours24:
		return "24h"
	case Hours8:
		return "8h"
	}
	return fmt.Sprintf("DayLength(%d)", int(d))
}

// Resolution selects how much of a clock time is shown.
type Resolution int

const (
	ResolutionShort Resolution = iota
	ResolutionMedium
)

// HourStyle selects 12-hour (with AM/PM marker) or 24-hour clock rendering.
type HourStyle int

const (
	Hours24Clock HourStyle = iota
	Hours12Clock
)

func (h HourStyle) String() string {
	switch h {
	case Hours24Clock:
		return "24h"
	case Hours12Clock:
		return "12h"
	}
	return fmt.Sprintf("HourStyle(%d)", int(h))
}

// ParsePrecision parses "second" or "minute".
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "second", "seconds", "s":
		return PrecisionSecond, nil
	case "minute", "minutes", "m":
		return PrecisionMinute, nil
	}
	return 0, fmt.Errorf("invalid time precision %q (want second or minute)", s)
}

// ParseDayLength parses "24h" or "8h".
func ParseDayLength(s string) (DayLength, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "24h", "24":
		return Hours24, nil
	case "8h", "8":
		return Hours8, nil
	}
	return 0, fmt.Errorf("invalid day length %q (want 24h or 8h)", s)
}

// ParseHourStyle parses "24h" or "12h".
func ParseHourStyle(s string) (HourStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "24h", "24":
		return Hours24Clock, nil
	case "12h", "12", "ampm":
		return Hours12Clock, nil
	}
	return 0, fmt.Errorf("invalid hour style %q (want 24h or 12h)", s)
}

// ParseWeekday parses an English weekday name such as "monday" or "Sun".
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || (len(name) >= 3 && strings.HasPrefix(full, name)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}
