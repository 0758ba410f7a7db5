// Package timeutil provides date and clock helpers for Manila time (UTC+8).
// All campuses are in Metro Manila, so session dates and availability dates
// are interpreted in that zone. The Philippines has no DST.
package timeutil

import (
	"fmt"
	"time"
)

// ManilaTZ is the Philippine timezone (UTC+8, no DST).
var ManilaTZ = time.FixedZone("Asia/Manila", 8*60*60)

// Now returns the current time in Manila.
func Now() time.Time {
	return time.Now().In(ManilaTZ)
}

// DateOnly truncates a time to midnight of its Manila calendar date.
func DateOnly(t time.Time) time.Time {
	m := t.In(ManilaTZ)
	return time.Date(m.Year(), m.Month(), m.Day(), 0, 0, 0, 0, ManilaTZ)
}

// Today returns midnight of the current Manila date.
func Today() time.Time {
	return DateOnly(Now())
}

// ParseDate parses a YYYY-MM-DD calendar date in Manila time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, ManilaTZ)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// CombineDateClock places an HH:MM clock value on a calendar date.
func CombineDateClock(date time.Time, clock string) (time.Time, error) {
	c, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	d := DateOnly(date)
	return d.Add(time.Duration(c.Hour())*time.Hour + time.Duration(c.Minute())*time.Minute), nil
}

// FormatDate renders the Manila calendar date.
func FormatDate(t time.Time) string {
	return t.In(ManilaTZ).Format("2006-01-02")
}

// FormatClock renders the HH:MM clock value in Manila time.
func FormatClock(t time.Time) string {
	return t.In(ManilaTZ).Format("15:04")
}
