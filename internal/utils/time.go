package utils

import (
	"fmt"
	"time"
)

// DateLayout is the storage format of calendar dates ("YYYY-MM-DD")
const DateLayout = "2006-01-02"

// Date returns midnight UTC of the given civil date
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day drops the clock part of t, keeping the civil date as seen in t's location
func Day(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a stored "YYYY-MM-DD" string into a civil date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a civil date as "YYYY-MM-DD"
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysInclusive counts calendar days in [start, end]; zero when end is before start.
// It works on Unix seconds of UTC midnights, so spans longer than a
// time.Duration can hold are still counted exactly.
func DaysInclusive(start, end time.Time) int {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return 0
	}
	return int((end.Unix()-start.Unix())/secondsPerDay) + 1
}

const secondsPerDay = 24 * 60 * 60

// FirstOfMonth returns the first day of t's month
func FirstOfMonth(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), 1)
}

// LastOfMonth returns the last day of t's month
func LastOfMonth(t time.Time) time.Time {
	return FirstOfMonth(t).AddDate(0, 1, -1)
}

// WeekStart returns the Monday of the ISO week containing t
func WeekStart(t time.Time) time.Time {
	t = Day(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the ISO week
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// WeekLabel formats the ISO week of t as "2024-W11"
func WeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
