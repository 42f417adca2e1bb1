package common

import (
	"fmt"
	"time"
)

// DateKey formats t as an 8-digit YYYYMMDD string.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%04d%02d%02d", t.Year(), int(t.Month()), t.Day())
}

// ClockKey formats the wall clock of t as a 4-digit HHMM string.
// Fixed width keeps lexicographic order equal to chronological order.
func ClockKey(t time.Time) string {
	return fmt.Sprintf("%02d%02d", t.Hour(), t.Minute())
}

// HourKey formats the hour of t as HH00.
func HourKey(t time.Time) string {
	return fmt.Sprintf("%02d00", t.Hour())
}
