package appointment

import (
	"context"
	"time"

	"github.com/costuraflow/atelier-scheduler/internal/audit"
	domain "github.com/costuraflow/atelier-scheduler/internal/domain/appointment"
	"github.com/costuraflow/atelier-scheduler/internal/httperr"
	"github.com/costuraflow/atelier-scheduler/internal/models"
	"github.com/costuraflow/atelier-scheduler/internal/rangecache"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
	"github.com/costuraflow/atelier-scheduler/internal/timezone"
)

type CancelAppointment struct {
	store  domain.Store
	caches *rangecache.Registry
	audit  *audit.Dispatcher
}

func NewCancelAppointment(
	store domain.Store,
	caches *rangecache.Registry,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		store:  store,
		caches: caches,
		audit:  audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	atelierID uint,
	userID *uint,
	appointmentID uint,
) (*models.Appointment, error) {

	shop, err := uc.store.GetAtelierByID(ctx, atelierID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.store.GetAppointment(ctx, appointmentID, atelierID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	now := time.Now().In(timezone.Location(shop.Timezone))
	if err := domain.Cancel(ap, now); err != nil {
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
		Action:    "appointment_canceled",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}
