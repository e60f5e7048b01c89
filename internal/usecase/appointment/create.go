package appointment

import (
	"context"

	"github.com/google/uuid"

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

type CreateAppointmentInput struct {
	AtelierID uint
	UserID    *uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	ServiceID uint

	Date  string
	Time  string
	Type  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	store  domain.Store
	hours  domain.HoursProvider
	caches *rangecache.Registry
	audit  *audit.Dispatcher
}

func NewCreateAppointment(
	store domain.Store,
	hours domain.HoursProvider,
	caches *rangecache.Registry,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		store:  store,
		hours:  hours,
		caches: caches,
		audit:  audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	shop, err := uc.store.GetAtelierByID(ctx, in.AtelierID)
	if err != nil {
		return nil, err
	}

	date, err := timeutil.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	start, err := timeutil.ParseTime(in.Time)
	if err != nil {
		return nil, err
	}

	// Minimum advance, against shop-local now.
	minAdvance := shop.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 120
	}

	now := timezone.NowWallClock(shop.Timezone)
	requested := timeutil.Combine(date, start)
	if timeutil.MinutesUntil(now, requested) < minAdvance {
		return nil, httperr.ErrBusiness("too_soon")
	}

	service, err := uc.store.GetService(ctx, in.AtelierID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	if start.Minutes()+service.DurationMin >= 24*60 {
		return nil, domain.NewValidationError("appointment must end within the day")
	}
	end := start.AddMinutes(service.DurationMin)

	// Shop hours for the weekday.
	week, err := uc.hours.ShopHours(ctx, in.AtelierID)
	if err != nil {
		return nil, err
	}
	day, ok := week[date.Weekday()]
	if !ok || day.Closed {
		return nil, httperr.ErrBusiness("outside_shop_hours")
	}
	if start.Before(*day.Open) || end.After(*day.Close) {
		return nil, httperr.ErrBusiness("outside_shop_hours")
	}

	client, err := uc.store.GetOrCreateClient(
		ctx,
		in.AtelierID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	if err := uc.store.AssertNoTimeConflict(
		ctx,
		in.AtelierID,
		date,
		start,
		end,
		0,
	); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		AtelierID:         in.AtelierID,
		ClientID:          client.ID,
		ServiceOfferingID: service.ID,
		Date:              date.String(),
		StartTime:         start.String(),
		EndTime:           end.String(),
		Status:            string(domain.InitialStatus()),
		Type:              in.Type,
		Notes:             in.Notes,
		BookingRef:        uuid.NewString(),
	}

	if err := uc.store.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// The calendar must not serve the day from a cache that predates
	// this write.
	dayRange := rangecache.DateRange{Start: date, End: date}
	uc.caches.Invalidate(in.AtelierID, &dayRange)

	uc.audit.Dispatch(audit.Event{
		AtelierID: in.AtelierID,
		UserID:    in.UserID,
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}
