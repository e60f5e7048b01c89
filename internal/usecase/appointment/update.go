package appointment

import (
	"context"

	"github.com/costuraflow/atelier-scheduler/internal/audit"
	domain "github.com/costuraflow/atelier-scheduler/internal/domain/appointment"
	"github.com/costuraflow/atelier-scheduler/internal/httperr"
	"github.com/costuraflow/atelier-scheduler/internal/models"
	"github.com/costuraflow/atelier-scheduler/internal/rangecache"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
	"github.com/costuraflow/atelier-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// UpdateAppointmentInput mirrors a PATCH body: nil leaves a field
// alone.
type UpdateAppointmentInput struct {
	AtelierID     uint
	UserID        *uint
	AppointmentID uint

	Date      *string
	StartTime *string
	EndTime   *string
	Status    *string
	Type      *string
	Notes     *string
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	store  domain.Store
	caches *rangecache.Registry
	audit  *audit.Dispatcher
}

func NewUpdateAppointment(
	store domain.Store,
	caches *rangecache.Registry,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		store:  store,
		caches: caches,
		audit:  audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute routes every edit through the lifecycle rules: a
// reschedule without an explicit status falls back to pending, and
// the patched appointment is revalidated before it is persisted.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	shop, err := uc.store.GetAtelierByID(ctx, in.AtelierID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.store.GetAppointment(ctx, in.AppointmentID, in.AtelierID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	existing, err := domain.FieldsOf(ap)
	if err != nil {
		return nil, err
	}

	patch, err := uc.parsePatch(in)
	if err != nil {
		return nil, err
	}

	oldDate := existing.Date

	now := timezone.NowWallClock(shop.Timezone)
	resolved, err := domain.ApplyPatch(existing, patch, now)
	if err != nil {
		return nil, err
	}

	// A moved appointment must still fit a free window.
	if resolved.Date != nil || resolved.Start != nil || resolved.End != nil {
		updated := existing
		if resolved.Date != nil {
			updated.Date = *resolved.Date
		}
		if resolved.Start != nil {
			updated.Start = *resolved.Start
		}
		if resolved.End != nil {
			updated.End = *resolved.End
		}
		if err := uc.store.AssertNoTimeConflict(
			ctx,
			in.AtelierID,
			updated.Date,
			updated.Start,
			updated.End,
			ap.ID,
		); err != nil {
			return nil, err
		}
	}

	resolved.Apply(ap)

	if err := uc.store.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.invalidateDays(in.AtelierID, oldDate, ap.Date)

	uc.audit.Dispatch(audit.Event{
		AtelierID: in.AtelierID,
		UserID:    in.UserID,
		Action:    "appointment_updated",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}

func (uc *UpdateAppointment) parsePatch(in UpdateAppointmentInput) (domain.Patch, error) {
	var p domain.Patch

	if in.Date != nil {
		d, err := timeutil.ParseDate(*in.Date)
		if err != nil {
			return domain.Patch{}, err
		}
		p.Date = &d
	}
	if in.StartTime != nil {
		t, err := timeutil.ParseTime(*in.StartTime)
		if err != nil {
			return domain.Patch{}, err
		}
		p.Start = &t
	}
	if in.EndTime != nil {
		t, err := timeutil.ParseTime(*in.EndTime)
		if err != nil {
			return domain.Patch{}, err
		}
		p.End = &t
	}
	if in.Status != nil {
		s := domain.Status(*in.Status)
		p.Status = &s
	}
	p.Type = in.Type
	p.Notes = in.Notes

	return p, nil
}

// invalidateDays drops both the day the appointment left and the day
// it landed on.
func (uc *UpdateAppointment) invalidateDays(atelierID uint, oldDate timeutil.Date, newDateStr string) {
	oldRange := rangecache.DateRange{Start: oldDate, End: oldDate}
	uc.caches.Invalidate(atelierID, &oldRange)

	if newDate, err := timeutil.ParseDate(newDateStr); err == nil && newDate != oldDate {
		newRange := rangecache.DateRange{Start: newDate, End: newDate}
		uc.caches.Invalidate(atelierID, &newRange)
	}
}
