package appointment

import (
	"context"

	"github.com/costuraflow/atelier-scheduler/internal/audit"
	domain "github.com/costuraflow/atelier-scheduler/internal/domain/appointment"
	"github.com/costuraflow/atelier-scheduler/internal/httperr"
	"github.com/costuraflow/atelier-scheduler/internal/rangecache"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

type DeleteAppointment struct {
	store  domain.Store
	caches *rangecache.Registry
	audit  *audit.Dispatcher
}

func NewDeleteAppointment(
	store domain.Store,
	caches *rangecache.Registry,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		store:  store,
		caches: caches,
		audit:  audit,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	atelierID uint,
	userID *uint,
	appointmentID uint,
) error {

	ap, err := uc.store.GetAppointment(ctx, appointmentID, atelierID)
	if err != nil {
		return httperr.ErrBusiness("appointment_not_found")
	}

	if err := uc.store.DeleteAppointment(ctx, appointmentID, atelierID); err != nil {
		return err
	}

	if date, err := timeutil.ParseDate(ap.Date); err == nil {
		day := rangecache.DateRange{Start: date, End: date}
		uc.caches.Invalidate(atelierID, &day)
	}

	uc.audit.Dispatch(audit.Event{
		AtelierID: atelierID,
		UserID:    userID,
		Action:    "appointment_deleted",
		Entity:    "appointment",
		EntityID:  &appointmentID,
	})

	return nil
}
