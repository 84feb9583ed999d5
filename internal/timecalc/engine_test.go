package timecalc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

func at(h, m, s int) time.Time {
	return time.Date(2023, 1, 1, h, m, s, 0, time.UTC)
}

func closed(start, end time.Time) model.Registration {
	return model.Registration{ID: start.Format("150405"), Start: start, End: &end}
}

func TestNormalize(t *testing.T) {
	ts := time.Date(2023, 1, 1, 9, 15, 42, 123456789, time.UTC)

	sec := timecalc.Normalize(ts, timecalc.PrecisionSecond)
	assert.True(t, sec.Equal(at(9, 15, 42)), "second precision: %v", sec)

	minute := timecalc.Normalize(ts, timecalc.PrecisionMinute)
	assert.True(t, minute.Equal(at(9, 15, 0)), "minute precision: %v", minute)

	for _, p := range []timecalc.Precision{timecalc.PrecisionSecond, timecalc.PrecisionMinute} {
		once := timecalc.Normalize(ts, p)
		assert.True(t, timecalc.Normalize(once, p).Equal(once), "normalize must be idempotent for %v", p)
	}
}

func TestNormalizeKeepsLocation(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2023, 6, 1, 23, 59, 59, 999, loc)
	got := timecalc.Normalize(ts, timecalc.PrecisionMinute)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 23, got.Hour())
	assert.Equal(t, 59, got.Minute())
	assert.Equal(t, 0, got.Second())
}

func TestComputeIntervalSwapsInverted(t *testing.T) {
	iv := timecalc.ComputeInterval(at(10, 0, 0), at(9, 0, 0), timecalc.PrecisionSecond)
	assert.True(t, iv.Start.Equal(at(9, 0, 0)))
	assert.True(t, iv.End.Equal(at(10, 0, 0)))
	assert.Equal(t, time.Hour, iv.Duration())
}

func TestComputeIntervalSymmetric(t *testing.T) {
	pairs := [][2]time.Time{
		{at(9, 0, 0), at(10, 30, 45)},
		{at(9, 0, 59), at(9, 1, 0)},
		{at(12, 0, 0), at(12, 0, 0)},
		{time.Date(2023, 1, 1, 23, 0, 0, 5e8, time.UTC), time.Date(2023, 1, 2, 1, 0, 0, 0, time.UTC)},
	}
	for _, p := range []timecalc.Precision{timecalc.PrecisionSecond, timecalc.PrecisionMinute} {
		for _, pair := range pairs {
			ab := timecalc.ComputeInterval(pair[0], pair[1], p)
			ba := timecalc.ComputeInterval(pair[1], pair[0], p)
			assert.True(t, ab.Start.Equal(ba.Start) && ab.End.Equal(ba.End), "asymmetric for %v (%v)", pair, p)
			assert.False(t, ab.End.Before(ab.Start))
		}
	}
}

func TestComputeDurationMinutePrecision(t *testing.T) {
	pairs := [][2]time.Time{
		{at(9, 0, 0), at(10, 30, 45)},
		{at(9, 0, 59), at(9, 1, 0)},
		{at(9, 0, 30), at(9, 10, 20)},
		{at(17, 45, 1), at(8, 2, 59)},
	}
	for _, pair := range pairs {
		minute := timecalc.ComputeDuration(pair[0], pair[1], timecalc.PrecisionMinute)
		second := timecalc.ComputeDuration(pair[0], pair[1], timecalc.PrecisionSecond)
		assert.Zero(t, minute%time.Minute, "minute duration %v not whole minutes", minute)
		diff := minute - second
		if diff < 0 {
			diff = -diff
		}
		assert.Less(t, diff, time.Minute, "minute and second durations drift too far for %v", pair)
	}
}

func TestComputePeriodDaySplit(t *testing.T) {
	start := at(0, 0, 0)

	p := timecalc.ComputePeriod(start, start.Add(25*time.Hour+3*time.Minute+4*time.Second), timecalc.PrecisionSecond, timecalc.Hours24)
	assert.Equal(t, timecalc.Period{Days: 1, Hours: 1, Minutes: 3, Seconds: 4}, p)

	p = timecalc.ComputePeriod(start, start.Add(25*time.Hour), timecalc.PrecisionSecond, timecalc.Hours8)
	assert.Equal(t, timecalc.Period{Days: 3, Hours: 1}, p)

	for _, dl := range []timecalc.DayLength{timecalc.Hours24, timecalc.Hours8} {
		for h := 0; h < 100; h++ {
			p := timecalc.ComputePeriod(start, start.Add(time.Duration(h)*time.Hour), timecalc.PrecisionSecond, dl)
			assert.Equal(t, int64(h), p.Days*dl.Hours()+p.Hours)
			if p.Days > 0 {
				assert.GreaterOrEqual(t, p.Hours, int64(0))
				assert.Less(t, p.Hours, dl.Hours())
			}
		}
	}
}

func TestPeriodOfKeepsHoursUncapped(t *testing.T) {
	p := timecalc.PeriodOf(50*time.Hour + 90*time.Second)
	assert.Equal(t, timecalc.Period{Hours: 50, Minutes: 1, Seconds: 30}, p)
}

func TestFormatSingle(t *testing.T) {
	e := timecalc.NewEngine(timecalc.FixedClock(at(12, 0, 0)), nil)

	tests := []struct {
		name string
		reg  model.Registration
		p    timecalc.Precision
		want string
	}{
		{"second all units", closed(at(9, 0, 0), at(10, 30, 45)), timecalc.PrecisionSecond, "1 hours, 30 minutes, 45 seconds"},
		{"minute all units", closed(at(9, 0, 0), at(10, 30, 45)), timecalc.PrecisionMinute, "1 hours, 30 minutes"},
		{"second no hours", closed(at(9, 0, 0), at(9, 30, 45)), timecalc.PrecisionSecond, "30 minutes, 45 seconds"},
		{"second only seconds", closed(at(9, 0, 0), at(9, 0, 45)), timecalc.PrecisionSecond, "45 seconds"},
		{"second zero", closed(at(9, 0, 0), at(9, 0, 0)), timecalc.PrecisionSecond, "0 seconds"},
		{"inner zero kept", closed(at(9, 0, 0), at(11, 0, 5)), timecalc.PrecisionSecond, "2 hours, 0 minutes, 5 seconds"},
		{"minute no hours", closed(at(9, 0, 0), at(9, 30, 45)), timecalc.PrecisionMinute, "30 minutes"},
		{"minute zero", closed(at(9, 0, 10), at(9, 0, 50)), timecalc.PrecisionMinute, "0 minutes"},
		{"ongoing", model.Registration{Start: at(11, 39, 50)}, timecalc.PrecisionSecond, "20 minutes, 10 seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.FormatSingle(tt.reg, tt.p))
		})
	}
}

func TestFormatSingleUsesLabels(t *testing.T) {
	e := timecalc.NewEngine(nil, nil)
	e.Labels = timecalc.Labels{Hours: "uren", Minutes: "minuten", Seconds: "seconden",
		DaysShort: "d", HoursShort: "u", MinutesShort: "m", SecondsShort: "s"}
	got := e.FormatSingle(closed(at(9, 0, 0), at(10, 1, 2)), timecalc.PrecisionSecond)
	assert.Equal(t, "1 uren, 1 minuten, 2 seconden", got)
}

func TestFormatAggregate(t *testing.T) {
	e := timecalc.NewEngine(timecalc.FixedClock(at(12, 0, 0)), nil)

	twentyFive := []model.Registration{
		closed(at(0, 0, 0), at(12, 30, 0)),
		closed(at(10, 0, 0), at(22, 30, 0)),
	}

	tests := []struct {
		name string
		regs []model.Registration
		p    timecalc.Precision
		dl   timecalc.DayLength
		want string
	}{
		{"25h in 24h days", twentyFive, timecalc.PrecisionSecond, timecalc.Hours24, "01d 01h 00m 00s"},
		{"25h in 8h days", twentyFive, timecalc.PrecisionSecond, timecalc.Hours8, "03d 01h 00m 00s"},
		{"25h minute precision", twentyFive, timecalc.PrecisionMinute, timecalc.Hours24, "01d 01h 00m"},
		{"hours only", []model.Registration{closed(at(8, 0, 0), at(13, 0, 0))}, timecalc.PrecisionSecond, timecalc.Hours24, "05h 00m 00s"},
		{"minutes only", []model.Registration{closed(at(8, 0, 0), at(8, 45, 0))}, timecalc.PrecisionSecond, timecalc.Hours24, "45m 00s"},
		{"truncated to minutes", []model.Registration{closed(at(9, 0, 30), at(9, 10, 20))}, timecalc.PrecisionMinute, timecalc.Hours24, "10m"},
		{"empty second", nil, timecalc.PrecisionSecond, timecalc.Hours24, "00s"},
		{"empty minute", nil, timecalc.PrecisionMinute, timecalc.Hours8, "00m"},
		{"ongoing", []model.Registration{{Start: at(11, 0, 0)}}, timecalc.PrecisionSecond, timecalc.Hours24, "01h 00m 00s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.FormatAggregate(tt.regs, tt.p, tt.dl))
		})
	}
}

func TestFormatAggregateReadsClockPerRegistration(t *testing.T) {
	calls := 0
	clock := timecalc.ClockFunc(func() time.Time {
		calls++
		return at(10, calls-1, 0)
	})
	e := timecalc.NewEngine(clock, nil)

	regs := []model.Registration{{Start: at(9, 0, 0)}, {Start: at(9, 0, 0)}}
	got := e.FormatAggregate(regs, timecalc.PrecisionSecond, timecalc.Hours24)

	require.Equal(t, 2, calls)
	assert.Equal(t, "02h 01m 00s", got)
}

func TestWeekBoundaries(t *testing.T) {
	// 2026-02-27 is a Friday.
	e := timecalc.NewEngine(timecalc.FixedClock(time.Date(2026, 2, 27, 15, 30, 0, 0, time.UTC)), nil)
	day := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name      string
		offset    int
		start     time.Weekday
		wantFirst time.Time
		wantLast  time.Time
	}{
		{"monday current", 0, time.Monday, day(2, 23), day(3, 1)},
		{"monday previous", -1, time.Monday, day(2, 16), day(2, 22)},
		{"monday next", 1, time.Monday, day(3, 2), day(3, 8)},
		{"friday starts today", 0, time.Friday, day(2, 27), day(3, 5)},
		{"saturday wraps back", 0, time.Saturday, day(2, 21), day(2, 27)},
		{"sunday wraps back", 0, time.Sunday, day(2, 22), day(2, 28)},
		{"tuesday previous", -1, time.Tuesday, day(2, 17), day(2, 23)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := e.WeekBoundaries(tt.offset, tt.start)
			assert.True(t, first.Equal(tt.wantFirst), "first = %v, want %v", first, tt.wantFirst)
			assert.True(t, last.Equal(tt.wantLast), "last = %v, want %v", last, tt.wantLast)
			assert.Equal(t, tt.start, first.Weekday())
		})
	}
}

func TestUnknownPoliciesPanic(t *testing.T) {
	assert.Panics(t, func() { timecalc.Normalize(at(9, 0, 0), timecalc.Precision(7)) })
	assert.Panics(t, func() { _ = timecalc.DayLength(7).Hours() })
	assert.Panics(t, func() {
		timecalc.FormatClockTime(at(9, 0, 0), timecalc.ResolutionShort, timecalc.HourStyle(7), timecalc.PrecisionSecond)
	})
}
