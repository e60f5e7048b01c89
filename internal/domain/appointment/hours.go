package appointment

import (
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

// DayHours is the shop's opening window for one weekday
// (0 = Sunday .. 6 = Saturday).
type DayHours struct {
	Weekday int
	Open    *timeutil.TimeOfDay
	Close   *timeutil.TimeOfDay
	Closed  bool
}

// Validate enforces the structural invariants: a closed day carries
// no times, an open day needs open < close.
func (h DayHours) Validate() error {
	if h.Weekday < 0 || h.Weekday > 6 {
		return validationError("weekday must be between 0 and 6")
	}

	if h.Closed {
		if h.Open != nil || h.Close != nil {
			return validationError("closed day must not carry opening times")
		}
		return nil
	}

	if h.Open == nil || h.Close == nil {
		return validationError("open day needs both open and close times")
	}
	if !h.Open.Before(*h.Close) {
		return validationError("open time must be before close time")
	}
	return nil
}

// ParseDayHours builds a DayHours from the "HH:MM" strings the store
// keeps. Malformed values come back as ValidationError, never as a
// silently closed day.
func ParseDayHours(weekday int, open, close string, closed bool) (DayHours, error) {
	h := DayHours{Weekday: weekday, Closed: closed}

	if !closed {
		o, err := timeutil.ParseTime(open)
		if err != nil {
			return DayHours{}, validationError("malformed open time: " + open)
		}
		c, err := timeutil.ParseTime(close)
		if err != nil {
			return DayHours{}, validationError("malformed close time: " + close)
		}
		h.Open = &o
		h.Close = &c
	}

	if err := h.Validate(); err != nil {
		return DayHours{}, err
	}
	return h, nil
}

// WeekHours indexes DayHours by weekday. Missing entries count as
// closed days for availability.
type WeekHours map[int]DayHours

func (w WeekHours) Validate() error {
	for _, h := range w {
		if err := h.Validate(); err != nil {
			return err
		}
	}
	return nil
}
