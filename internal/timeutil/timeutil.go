// Package timeutil holds the wall-clock date and time types used by the
// scheduling core. Values carry no timezone; conversion from absolute
// instants happens at the boundary (see internal/timezone).
package timeutil

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

// ===============================
// Date
// ===============================

// Date is a plain calendar date (no time, no timezone).
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate parses "YYYY-MM-DD" and rejects impossible calendar
// dates (2024-02-30, month 13, ...).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, &ParseError{Input: s, Reason: "expected YYYY-MM-DD"}
	}

	// time.Parse normalizes overflow (Feb 30 -> Mar 1), so a
	// round-trip mismatch means the date never existed.
	if t.Format(dateLayout) != s {
		return Date{}, &ParseError{Input: s, Reason: "no such calendar date"}
	}

	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) toTime() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns 0 for Sunday through 6 for Saturday.
func (d Date) Weekday() int {
	return int(d.toTime().Weekday())
}

func (d Date) AddDays(n int) Date {
	t := d.toTime().AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// DaysUntil returns the number of calendar days from d to other
// (negative when other is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.toTime().Sub(d.toTime()) / (24 * time.Hour))
}

func (d Date) Before(other Date) bool { return CompareDates(d, other) < 0 }
func (d Date) After(other Date) bool  { return CompareDates(d, other) > 0 }

func CompareDates(a, b Date) int {
	switch {
	case a.Year != b.Year:
		return cmpInt(a.Year, b.Year)
	case a.Month != b.Month:
		return cmpInt(a.Month, b.Month)
	default:
		return cmpInt(a.Day, b.Day)
	}
}

// ===============================
// TimeOfDay
// ===============================

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTime parses "HH:MM" in 24h format.
func ParseTime(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeOfDay{}, &ParseError{Input: s, Reason: "expected HH:MM"}
	}
	if t.Format(timeLayout) != s {
		return TimeOfDay{}, &ParseError{Input: s, Reason: "expected HH:MM"}
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// FromMinutes builds a TimeOfDay from minutes since midnight.
// The caller must keep the result inside a single day.
func FromMinutes(m int) TimeOfDay {
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

func (t TimeOfDay) AddMinutes(n int) TimeOfDay {
	return FromMinutes(t.Minutes() + n)
}

func (t TimeOfDay) Before(other TimeOfDay) bool { return t.Minutes() < other.Minutes() }
func (t TimeOfDay) After(other TimeOfDay) bool  { return t.Minutes() > other.Minutes() }

func CompareTimes(a, b TimeOfDay) int {
	return cmpInt(a.Minutes(), b.Minutes())
}

// ===============================
// DateTime
// ===============================

// DateTime is a comparable wall-clock instant. No timezone conversion
// is ever applied to it.
type DateTime struct {
	Date Date
	Time TimeOfDay
}

func Combine(d Date, t TimeOfDay) DateTime {
	return DateTime{Date: d, Time: t}
}

// Compare is a total order over (date, time): -1 before, 0 same, 1 after.
func Compare(a, b DateTime) int {
	if c := CompareDates(a.Date, b.Date); c != 0 {
		return c
	}
	return CompareTimes(a.Time, b.Time)
}

func (dt DateTime) Before(other DateTime) bool { return Compare(dt, other) < 0 }
func (dt DateTime) After(other DateTime) bool  { return Compare(dt, other) > 0 }
func (dt DateTime) Equal(other DateTime) bool  { return Compare(dt, other) == 0 }

// MinutesUntil returns the wall-clock minutes from a to b, negative
// when b is earlier.
func MinutesUntil(a, b DateTime) int {
	return a.Date.DaysUntil(b.Date)*24*60 + (b.Time.Minutes() - a.Time.Minutes())
}

func (dt DateTime) String() string {
	return dt.Date.String() + " " + dt.Time.String()
}

// Now reads the local process clock as a wall-clock instant. Callers
// needing shop-local "now" go through internal/timezone instead.
func Now() DateTime {
	t := time.Now()
	return DateTime{
		Date: Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()},
		Time: TimeOfDay{Hour: t.Hour(), Minute: t.Minute()},
	}
}

// FromTime converts an absolute instant into the wall-clock it reads
// as in its own location.
func FromTime(t time.Time) DateTime {
	return DateTime{
		Date: Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()},
		Time: TimeOfDay{Hour: t.Hour(), Minute: t.Minute()},
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
