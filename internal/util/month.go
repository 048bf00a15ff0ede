package util

import "time"

// DateOnly truncates t to its calendar date at midnight UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameMonth reports whether d falls in the same calendar month and year as now
func SameMonth(d, now time.Time) bool {
	return d.Year() == now.Year() && d.Month() == now.Month()
}
