package util

import "time"

// Window is a relative time range used to filter transactions.
type Window string

const (
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
)

// ParseWindow maps a query-string value to a Window, defaulting to the
// trailing month.
func ParseWindow(s string) (Window, bool) {
	switch Window(s) {
	case WindowWeek, WindowMonth, WindowYear:
		return Window(s), true
	case "":
		return WindowMonth, true
	}
	return WindowMonth, false
}

// SameCalendarMonth reports whether t falls in the same calendar year and
// month as now, evaluated in now's location.
func SameCalendarMonth(now, t time.Time) bool {
	t = t.In(now.Location())
	return now.Year() == t.Year() && now.Month() == t.Month()
}

// WindowStart returns the start instant of the trailing window ending at now.
// Week subtracts seven days; month and year subtract calendar units, clamping
// the day-of-month when the target month is shorter (Mar 31 - 1 month is the
// last day of February).
func WindowStart(now time.Time, window Window) time.Time {
	switch window {
	case WindowWeek:
		return now.AddDate(0, 0, -7)
	case WindowYear:
		return addMonthsClamped(now, -12)
	default:
		return addMonthsClamped(now, -1)
	}
}

// InWindow reports whether t is strictly after start. A transaction dated
// exactly at the boundary instant is excluded.
func InWindow(t, start time.Time) bool {
	return t.After(start)
}

// addMonthsClamped shifts t by the given number of months, keeping the
// day-of-month when it exists in the target month and otherwise using the
// target month's last day. time.AddDate alone would normalize overflow days
// into the following month.
func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	shifted := firstOfMonth.AddDate(0, months, 0)

	// Day 0 of the next month is the last day of the shifted month.
	lastDay := time.Date(shifted.Year(), shifted.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()

	day := t.Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(shifted.Year(), shifted.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
