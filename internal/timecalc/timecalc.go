package timecalc

import (
	"fmt"
	"math"
	"time"
)

// NewID returns an event ID for an event created at t: the creation time in
// Unix milliseconds.
func NewID(t time.Time) int64 {
	return t.UnixMilli()
}

// RoundMinutes converts d to whole minutes, rounding half away from zero.
func RoundMinutes(d time.Duration) int {
	return int(math.Round(float64(d.Milliseconds()) / 60000))
}

// FloorMinutes converts d to whole minutes, truncating toward negative infinity.
func FloorMinutes(d time.Duration) int {
	return int(math.Floor(float64(d.Milliseconds()) / 60000))
}

// FormatMinutes formats a minute count as "1h 30m". Hours are always shown.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	sunday := monday.AddDate(0, 0, 6)
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, t.Location())
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
