package appointment

import (
	"time"

	"github.com/costuraflow/atelier-scheduler/internal/models"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

// ===============================
// Model bridge
// ===============================

// FieldsOf parses the stored wall-clock strings into the typed view
// the lifecycle functions work on.
func FieldsOf(ap *models.Appointment) (Fields, error) {
	date, err := timeutil.ParseDate(ap.Date)
	if err != nil {
		return Fields{}, err
	}
	start, err := timeutil.ParseTime(ap.StartTime)
	if err != nil {
		return Fields{}, err
	}
	end, err := timeutil.ParseTime(ap.EndTime)
	if err != nil {
		return Fields{}, err
	}

	return Fields{
		Date:   date,
		Start:  start,
		End:    end,
		Status: Status(ap.Status),
		Type:   ap.Type,
		Notes:  ap.Notes,
	}, nil
}

// Apply writes a resolved patch back onto the model. Only non-nil
// fields are touched.
func (p Patch) Apply(ap *models.Appointment) {
	if p.Date != nil {
		ap.Date = p.Date.String()
	}
	if p.Start != nil {
		ap.StartTime = p.Start.String()
	}
	if p.End != nil {
		ap.EndTime = p.End.String()
	}
	if p.Status != nil {
		ap.Status = string(*p.Status)
	}
	if p.Type != nil {
		ap.Type = *p.Type
	}
	if p.Notes != nil {
		ap.Notes = *p.Notes
	}
}

// BusyIntervalOf turns a stored appointment into the interval the
// availability calculator blocks out. Terminal appointments occupy
// nothing.
func BusyIntervalOf(ap *models.Appointment) (BusyInterval, bool, error) {
	if Status(ap.Status).IsTerminal() {
		return BusyInterval{}, false, nil
	}

	f, err := FieldsOf(ap)
	if err != nil {
		return BusyInterval{}, false, err
	}
	return BusyInterval{Date: f.Date, Start: f.Start, End: f.End}, true, nil
}

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCanceled)
	ap.CanceledAt = &now
	return nil
}

func Confirm(ap *models.Appointment) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	return nil
}

func MarkNoShow(ap *models.Appointment) error {
	if err := CanMarkNoShow(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusNoShow)
	return nil
}
