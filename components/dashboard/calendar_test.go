package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeWeekWindowMidweek(t *testing.T) {
	// Wednesday 2024-05-15 belongs to the week 2024-05-13..2024-05-19.
	week := ComputeWeekWindow(date(2024, time.May, 15))
	assert.Equal(t, date(2024, time.May, 13), week[0])
	assert.Equal(t, date(2024, time.May, 19), week[6])
	assert.Equal(t, time.Monday, week[0].Weekday())
	assert.Equal(t, time.Sunday, week[6].Weekday())
}

func TestComputeWeekWindowSunday(t *testing.T) {
	// Sunday 2024-05-19 stays in the 2024-05-13 window instead of jumping
	// to the following Monday.
	week := ComputeWeekWindow(date(2024, time.May, 19))
	assert.Equal(t, date(2024, time.May, 13), week[0])
	assert.Equal(t, date(2024, time.May, 19), week[6])
}

func TestComputeWeekWindowMonday(t *testing.T) {
	week := ComputeWeekWindow(date(2024, time.May, 13))
	assert.Equal(t, date(2024, time.May, 13), week[0])
}

func TestComputeWeekWindowCrossesMonthBoundary(t *testing.T) {
	// Saturday 2024-06-01 belongs to the window starting Monday 2024-05-27.
	week := ComputeWeekWindow(date(2024, time.June, 1))
	assert.Equal(t, date(2024, time.May, 27), week[0])
	assert.Equal(t, date(2024, time.June, 2), week[6])
}

func TestClockSelectWithinWeekKeepsWindow(t *testing.T) {
	clock := NewClock(date(2024, time.May, 15))
	before := clock.Week()

	changed := clock.Select(date(2024, time.May, 17))
	assert.False(t, changed)
	assert.Equal(t, before, clock.Week())
	assert.Equal(t, date(2024, time.May, 17), clock.Selected())
}

func TestClockSelectOutsideWeekRecomputes(t *testing.T) {
	clock := NewClock(date(2024, time.May, 15))

	changed := clock.Select(date(2024, time.May, 21))
	assert.True(t, changed)
	assert.Equal(t, date(2024, time.May, 20), clock.Week()[0])
}

func TestClockAdvanceWeek(t *testing.T) {
	clock := NewClock(date(2024, time.May, 15))

	clock.AdvanceWeek(-1)
	assert.Equal(t, date(2024, time.May, 8), clock.Selected())
	assert.Equal(t, date(2024, time.May, 6), clock.Week()[0])

	clock.AdvanceWeek(1)
	assert.Equal(t, date(2024, time.May, 15), clock.Selected())
	assert.Equal(t, date(2024, time.May, 13), clock.Week()[0])
}

func TestClockSelectDiscardsTimeOfDay(t *testing.T) {
	clock := NewClock(time.Date(2024, time.May, 15, 14, 30, 12, 0, time.UTC))
	assert.Equal(t, date(2024, time.May, 15), clock.Selected())
}

func TestDayRangeCoversFullElapsedDay(t *testing.T) {
	now := date(2024, time.May, 20)
	r := DayRange(date(2024, time.May, 15), now)
	assert.Equal(t, date(2024, time.May, 15).UnixMilli(), r.From)
	assert.Equal(t, time.Date(2024, time.May, 15, 23, 59, 59, 999_000_000, time.UTC).UnixMilli(), r.To)
}

func TestDayRangeClampsToNow(t *testing.T) {
	now := time.Date(2024, time.May, 15, 9, 30, 0, 0, time.UTC)
	r := DayRange(date(2024, time.May, 15), now)
	assert.Equal(t, date(2024, time.May, 15).UnixMilli(), r.From)
	assert.Equal(t, now.UnixMilli(), r.To)
}

func TestWeekRangeSpansMondayThroughSunday(t *testing.T) {
	week := ComputeWeekWindow(date(2024, time.May, 15))
	r := WeekRange(week)
	assert.Equal(t, date(2024, time.May, 13).UnixMilli(), r.From)
	assert.Equal(t, time.Date(2024, time.May, 19, 23, 59, 59, 999_000_000, time.UTC).UnixMilli(), r.To)
}

func TestDayKeyRoundTrip(t *testing.T) {
	key := DayKey(date(2024, time.May, 5))
	assert.Equal(t, "2024-05-05", key)

	parsed, err := ParseDayKey(key)
	require.NoError(t, err)
	assert.Equal(t, 2024, parsed.Year())
	assert.Equal(t, time.May, parsed.Month())
	assert.Equal(t, 5, parsed.Day())
}

func TestDayKeyDistinguishesMonths(t *testing.T) {
	// Same day-of-month in adjacent months must never collide.
	assert.NotEqual(t, DayKey(date(2024, time.May, 1)), DayKey(date(2024, time.June, 1)))
}
