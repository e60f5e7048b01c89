package appointment

import (
	"context"

	"github.com/costuraflow/atelier-scheduler/internal/audit"
	domain "github.com/costuraflow/atelier-scheduler/internal/domain/appointment"
	"github.com/costuraflow/atelier-scheduler/internal/httperr"
	"github.com/costuraflow/atelier-scheduler/internal/models"
	"github.com/costuraflow/atelier-scheduler/internal/rangecache"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

type ConfirmAppointment struct {
	store  domain.Store
	caches *rangecache.Registry
	audit  *audit.Dispatcher
}

func NewConfirmAppointment(
	store domain.Store,
	caches *rangecache.Registry,
	audit *audit.Dispatcher,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		store:  store,
		caches: caches,
		audit:  audit,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	atelierID uint,
	userID *uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.store.GetAppointment(ctx, appointmentID, atelierID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.Confirm(ap); err != nil {
		return nil, err
	}

	if err := uc.store.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if date, err := timeutil.ParseDate(ap.Date); err == nil {
		day := rangecache.DateRange{Start: date, End: date}
		uc.caches.Invalidate(atelierID, &day)
	}

	uc.audit.Dispatch(audit.Event{
		AtelierID: atelierID,
		UserID:    userID,
		Action:    "appointment_confirmed",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}
