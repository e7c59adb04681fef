package dashboard

import "time"

// Clock is the single owner of the selected date and the Monday–Sunday week
// window derived from it. Callers read through accessors; nothing else holds
// date state.
type Clock struct {
	selected time.Time
	week     [7]time.Time
}

// NewClock builds a clock selecting the given date. The time of day is
// discarded; only the calendar date matters for navigation.
func NewClock(date time.Time) *Clock {
	c := &Clock{selected: Midnight(date)}
	c.week = ComputeWeekWindow(c.selected)
	return c
}

// Selected returns the currently focused date (midnight, caller's location).
func (c *Clock) Selected() time.Time {
	return c.selected
}

// Week returns a copy of the displayed Monday–Sunday window.
func (c *Clock) Week() [7]time.Time {
	return c.week
}

// Select moves the selected marker to date. The week window is recomputed
// only when the date falls outside the displayed week; picking another day
// within the same week keeps the window untouched. Reports whether the
// window changed.
func (c *Clock) Select(date time.Time) bool {
	day := Midnight(date)
	c.selected = day
	if c.contains(day) {
		return false
	}
	c.week = ComputeWeekWindow(day)
	return true
}

// AdvanceWeek shifts the selected date by 7*delta days and always recomputes
// the window.
func (c *Clock) AdvanceWeek(delta int) {
	c.selected = c.selected.AddDate(0, 0, 7*delta)
	c.week = ComputeWeekWindow(c.selected)
}

// Contains reports whether date falls inside the displayed week.
func (c *Clock) Contains(date time.Time) bool {
	return c.contains(Midnight(date))
}

func (c *Clock) contains(day time.Time) bool {
	for _, d := range c.week {
		if d.Equal(day) {
			return true
		}
	}
	return false
}

// ComputeWeekWindow derives the Monday-start week containing date. Sunday is
// special-cased: Go (like the source data) numbers Sunday as weekday 0, so
// the naive "date - weekday + 1" formula would pick the following Monday.
func ComputeWeekWindow(date time.Time) [7]time.Time {
	day := Midnight(date)
	var monday time.Time
	if day.Weekday() == time.Sunday {
		monday = day.AddDate(0, 0, -6)
	} else {
		monday = day.AddDate(0, 0, -(int(day.Weekday()) - 1))
	}
	var week [7]time.Time
	for i := range week {
		week[i] = monday.AddDate(0, 0, i)
	}
	return week
}

// Midnight truncates t to 00:00:00.000 in its own location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar date, matching the
// millisecond resolution of the wire protocol.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

// DayRange is the full-day range of date, with the end clamped to now when
// the day is still in progress.
func DayRange(date, now time.Time) TimeRange {
	from := Midnight(date)
	to := EndOfDay(date)
	if now.Before(to) && !now.Before(from) {
		to = now
	}
	return TimeRange{From: from.UnixMilli(), To: to.UnixMilli()}
}

// WeekRange spans start of the window's Monday through end of its Sunday.
func WeekRange(week [7]time.Time) TimeRange {
	return TimeRange{
		From: Midnight(week[0]).UnixMilli(),
		To:   EndOfDay(week[6]).UnixMilli(),
	}
}

// DayKey is the stable identifier attached to each rendered day control.
// Two dates sharing a day-of-month can never collide on it.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ParseDayKey inverts DayKey.
func ParseDayKey(key string) (time.Time, error) {
	return time.Parse(time.DateOnly, key)
}
