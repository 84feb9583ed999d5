package timecalc

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Tiliavir/worktime/internal/model"
)

// Clock supplies the current instant. Ongoing registrations are measured
// against it.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Normalize truncates t to the given precision. Sub-second components are
// always dropped; seconds are dropped as well for PrecisionMinute.
func Normalize(t time.Time, p Precision) time.Time {
	t = t.Round(0)
	switch p {
	case PrecisionSecond:
		return t.Add(-time.Duration(t.Nanosecond()))
	case PrecisionMinute:
		return t.Add(-time.Duration(t.Nanosecond()) - time.Duration(t.Second())*time.Second)
	}
	panic(fmt.Sprintf("timecalc: unknown precision %d", int(p)))
}

// Interval is a normalized span of time with Start never after End.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the elapsed time of the interval.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// ComputeInterval normalizes both instants and swaps them when end lies
// before start. Inverted input is corrected, never rejected.
func ComputeInterval(start, end time.Time, p Precision) Interval {
	s, e := Normalize(start, p), Normalize(end, p)
	if e.Before(s) {
		s, e = e, s
	}
	return Interval{Start: s, End: e}
}

// ComputeDuration returns the elapsed time between start and end after
// normalization.
func ComputeDuration(start, end time.Time, p Precision) time.Duration {
	return ComputeInterval(start, end, p).Duration()
}

// Period is a duration decomposed into calendar-free units.
type Period struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

// PeriodOf decomposes d into hours, minutes and seconds. Hours are not
// capped and Days is always zero.
func PeriodOf(d time.Duration) Period {
	if d < 0 {
		d = -d
	}
	secs := int64(d / time.Second)
	return Period{
		Hours:   secs / 3600,
		Minutes: secs % 3600 / 60,
		Seconds: secs % 60,
	}
}

// InDays splits the hours of a raw period into days of the given length.
func (p Period) InDays(dl DayLength) Period {
	per := dl.Hours()
	p.Days += p.Hours / per
	p.Hours %= per
	return p
}

// ComputePeriod returns the day-split period between start and end.
func ComputePeriod(start, end time.Time, p Precision, dl DayLength) Period {
	return PeriodOf(ComputeDuration(start, end, p)).InDays(dl)
}

// Labels are the unit words used when rendering durations.
type Labels struct {
	Hours        string
	Minutes      string
	Seconds      string
	DaysShort    string
	HoursShort   string
	MinutesShort string
	SecondsShort string
}

// DefaultLabels renders "1 hours, 2 minutes" and "01d 02h 03m".
var DefaultLabels = Labels{
	Hours:        "hours",
	Minutes:      "minutes",
	Seconds:      "seconds",
	DaysShort:    "d",
	HoursShort:   "h",
	MinutesShort: "m",
	SecondsShort: "s",
}

// Engine renders registrations as durations. It carries the clock used for
// ongoing registrations; all policies are passed per call.
type Engine struct {
	Clock  Clock
	Labels Labels
	Logger *slog.Logger
}

// NewEngine returns an Engine with default labels. A nil clock means the
// system clock and a nil logger discards output.
func NewEngine(clock Clock, logger *slog.Logger) *Engine {
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{Clock: clock, Labels: DefaultLabels, Logger: logger}
}

func (e *Engine) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}

func (e *Engine) labels() Labels {
	if e.Labels == (Labels{}) {
		return DefaultLabels
	}
	return e.Labels
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// Elapsed returns the normalized duration of reg. An ongoing registration
// is measured up to the engine's clock at call time.
func (e *Engine) Elapsed(reg model.Registration, p Precision) time.Duration {
	end := e.now()
	if reg.End != nil {
		end = *reg.End
	}
	return ComputeDuration(reg.Start, end, p)
}

// Total sums the normalized durations of regs. Each ongoing registration
// reads the clock on its own.
func (e *Engine) Total(regs []model.Registration, p Precision) time.Duration {
	var total time.Duration
	for _, r := range regs {
		d := e.Elapsed(r, p)
		e.logger().Debug("registration duration", "id", r.ID, "duration", d)
		total += d
	}
	return total
}

// FormatSingle renders the duration of one registration in long form, e.g.
// "1 hours, 30 minutes, 45 seconds". Leading zero units are left out.
func (e *Engine) FormatSingle(reg model.Registration, p Precision) string {
	per := PeriodOf(e.Elapsed(reg, p))
	return strings.Join(significant(e.longUnits(per, p)), ", ")
}

// FormatAggregate renders the summed duration of regs in short form, e.g.
// "01d 01h 00m 00s", splitting hours into days of length dl.
func (e *Engine) FormatAggregate(regs []model.Registration, p Precision, dl DayLength) string {
	total := e.Total(regs, p)
	per := PeriodOf(total).InDays(dl)
	e.logger().Debug("aggregate period",
		"registrations", len(regs), "total", total,
		"days", per.Days, "hours", per.Hours, "minutes", per.Minutes, "seconds", per.Seconds)
	return strings.Join(significant(e.shortUnits(per, p)), " ")
}

// unit is one rendered component of a duration.
type unit struct {
	value int64
	text  string
}

// significant drops leading zero units. The smallest unit is always kept.
func significant(units []unit) []string {
	i := 0
	for i < len(units)-1 && units[i].value == 0 {
		i++
	}
	out := make([]string, 0, len(units)-i)
	for _, u := range units[i:] {
		out = append(out, u.text)
	}
	return out
}

func (e *Engine) longUnits(per Period, p Precision) []unit {
	l := e.labels()
	hours := unit{per.Hours, fmt.Sprintf("%d %s", per.Hours, l.Hours)}
	minutes := unit{per.Minutes, fmt.Sprintf("%d %s", per.Minutes, l.Minutes)}
	switch p {
	case PrecisionSecond:
		return []unit{hours, minutes, {per.Seconds, fmt.Sprintf("%d %s", per.Seconds, l.Seconds)}}
	case PrecisionMinute:
		return []unit{hours, minutes}
	}
	panic(fmt.Sprintf("timecalc: unknown precision %d", int(p)))
}

func (e *Engine) shortUnits(per Period, p Precision) []unit {
	l := e.labels()
	days := unit{per.Days, fmt.Sprintf("%02d%s", per.Days, l.DaysShort)}
	hours := unit{per.Hours, fmt.Sprintf("%02d%s", per.Hours, l.HoursShort)}
	minutes := unit{per.Minutes, fmt.Sprintf("%02d%s", per.Minutes, l.MinutesShort)}
	switch p {
	case PrecisionSecond:
		return []unit{days, hours, minutes, {per.Seconds, fmt.Sprintf("%02d%s", per.Seconds, l.SecondsShort)}}
	case PrecisionMinute:
		return []unit{days, hours, minutes}
	}
	panic(fmt.Sprintf("timecalc: unknown precision %d", int(p)))
}
