package appointment

import (
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

// Fields is the scheduling-relevant view of an existing appointment.
type Fields struct {
	Date   timeutil.Date
	Start  timeutil.TimeOfDay
	End    timeutil.TimeOfDay
	Status Status
	Type   string
	Notes  string
}

// Patch carries the fields an update request wants to change. Nil
// means "leave as is". ApplyPatch also returns a Patch: the resolved
// set of fields to persist, where a nil Status means the update must
// not touch the stored status.
type Patch struct {
	Date   *timeutil.Date
	Start  *timeutil.TimeOfDay
	End    *timeutil.TimeOfDay
	Status *Status
	Type   *string
	Notes  *string
}

// ApplyPatch computes the fields an update should persist.
//
// Moving an appointment to another date or start time is a
// reschedule: unless the patch sets a status explicitly, the result
// drops back to pending so the shop re-approves the new time. An
// explicit status always wins, even alongside a date change. Updates
// that touch neither date nor start never alter the status.
//
// Persistence belongs to the store; this function only decides what
// to write.
func ApplyPatch(existing Fields, p Patch, now timeutil.DateTime) (Patch, error) {
	resolved := existing
	reschedule := false
	timeChanged := false

	if p.Date != nil {
		if *p.Date != existing.Date {
			reschedule = true
			timeChanged = true
		}
		resolved.Date = *p.Date
	}
	if p.Start != nil {
		if *p.Start != existing.Start {
			reschedule = true
			timeChanged = true
		}
		resolved.Start = *p.Start
	}
	if p.End != nil {
		if *p.End != existing.End {
			timeChanged = true
		}
		resolved.End = *p.End
	}

	out := Patch{
		Date:  p.Date,
		Start: p.Start,
		End:   p.End,
		Type:  p.Type,
		Notes: p.Notes,
	}

	switch {
	case p.Status != nil:
		if !p.Status.Valid() {
			return Patch{}, validationError("unknown status: " + string(*p.Status))
		}
		resolved.Status = *p.Status
		out.Status = p.Status
	case reschedule:
		pending := StatusPending
		resolved.Status = pending
		out.Status = &pending
	}

	if !resolved.Start.Before(resolved.End) {
		return Patch{}, validationError("end time must be after start time")
	}

	// A reschedule into the past is a mistake; cancelling (or closing
	// out) an appointment that already happened is not.
	if timeChanged && resolved.Status != StatusCanceled {
		start := timeutil.Combine(resolved.Date, resolved.Start)
		if !start.After(now) {
			return Patch{}, validationError("appointment time is in the past")
		}
	}

	return out, nil
}
