package appointment

import (
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

// DefaultSlotStepMinutes is the grid candidate starts are generated
// on. Services shorter than the grid step use their own duration.
const DefaultSlotStepMinutes = 30

type AvailabilityInput struct {
	AtelierID   uint
	ServiceID   uint
	Date        timeutil.Date
	BufferMin   int
	DurationMin int
}

// TimeSlot is the wire shape handed to booking UIs.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// BusyInterval is an occupied window on a single day. Appointments
// never span midnight.
type BusyInterval struct {
	Date  timeutil.Date
	Start timeutil.TimeOfDay
	End   timeutil.TimeOfDay
}

func (b BusyInterval) Validate() error {
	if !b.Start.Before(b.End) {
		return validationError("busy interval start must be before end")
	}
	return nil
}

// ComputeAvailableSlots returns the ascending candidate start times
// on date for a service of durationMin minutes, honoring shop hours
// and the symmetric buffer around every booking.
//
// hours == nil means the weekday has no entry; like a closed day it
// yields no slots. Invalid input (non-positive duration, negative
// buffer, malformed hours or busy intervals) is an error, never a
// silent empty result.
func ComputeAvailableSlots(
	date timeutil.Date,
	hours *DayHours,
	busy []BusyInterval,
	durationMin int,
	bufferMin int,
	now timeutil.DateTime,
) ([]timeutil.TimeOfDay, error) {

	if durationMin <= 0 {
		return nil, validationError("duration must be positive")
	}
	if bufferMin < 0 {
		return nil, validationError("buffer must not be negative")
	}

	if hours == nil {
		return []timeutil.TimeOfDay{}, nil
	}
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	if hours.Closed {
		return []timeutil.TimeOfDay{}, nil
	}

	// Only same-day intervals can conflict; cross-day input is skipped,
	// but structurally broken intervals are still rejected.
	var todays []BusyInterval
	for _, b := range busy {
		if err := b.Validate(); err != nil {
			return nil, err
		}
		if b.Date == date {
			todays = append(todays, b)
		}
	}

	step := DefaultSlotStepMinutes
	if durationMin < step {
		step = durationMin
	}

	openMin := hours.Open.Minutes()
	closeMin := hours.Close.Minutes()
	isToday := date == now.Date
	nowMin := now.Time.Minutes()

	slots := []timeutil.TimeOfDay{}
	for s := openMin; s+durationMin <= closeMin; s += step {
		if isToday && s <= nowMin {
			continue
		}

		// Buffered half-open windows: the slot including its buffer
		// must never touch a booking including its buffer.
		slotStart := s - bufferMin
		slotEnd := s + durationMin + bufferMin

		conflict := false
		for _, b := range todays {
			busyStart := b.Start.Minutes() - bufferMin
			busyEnd := b.End.Minutes() + bufferMin
			if slotStart < busyEnd && busyStart < slotEnd {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}

		slots = append(slots, timeutil.FromMinutes(s))
	}

	return slots, nil
}

// SlotWindows pairs each start with its end time for API responses.
func SlotWindows(starts []timeutil.TimeOfDay, durationMin int) []TimeSlot {
	out := make([]TimeSlot, 0, len(starts))
	for _, s := range starts {
		out = append(out, TimeSlot{
			Start: s.String(),
			End:   s.AddMinutes(durationMin).String(),
		})
	}
	return out
}
