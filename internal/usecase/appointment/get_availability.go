package appointment

import (
	"context"

	domain "github.com/costuraflow/atelier-scheduler/internal/domain/appointment"
	"github.com/costuraflow/atelier-scheduler/internal/httperr"
	"github.com/costuraflow/atelier-scheduler/internal/rangecache"
	"github.com/costuraflow/atelier-scheduler/internal/timezone"
)

type GetAvailability struct {
	store    domain.Store
	hours    domain.HoursProvider
	settings domain.SettingsProvider
	caches   *rangecache.Registry
}

func NewGetAvailability(
	store domain.Store,
	hours domain.HoursProvider,
	settings domain.SettingsProvider,
	caches *rangecache.Registry,
) *GetAvailability {
	return &GetAvailability{
		store:    store,
		hours:    hours,
		settings: settings,
		caches:   caches,
	}
}

// Execute computes the bookable start times for one service on one
// day. Busy intervals come from the shop's session cache so the
// booking dialog shares loads with the calendar view.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	shop, err := uc.store.GetAtelierByID(ctx, in.AtelierID)
	if err != nil {
		return nil, err
	}

	durationMin := in.DurationMin
	if in.ServiceID != 0 {
		service, err := uc.store.GetService(ctx, in.AtelierID, in.ServiceID)
		if err != nil {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		durationMin = service.DurationMin
	}

	settings, err := uc.settings.CalendarSettings(ctx, in.AtelierID)
	if err != nil {
		return nil, err
	}
	if durationMin <= 0 {
		durationMin = settings.DefaultDurationMin
	}
	bufferMin := in.BufferMin
	if bufferMin <= 0 {
		bufferMin = settings.BufferTimeMinutes
	}

	week, err := uc.hours.ShopHours(ctx, in.AtelierID)
	if err != nil {
		return nil, err
	}
	var dayHours *domain.DayHours
	if h, ok := week[in.Date.Weekday()]; ok {
		dayHours = &h
	}

	day := rangecache.DateRange{Start: in.Date, End: in.Date}
	cache := uc.caches.ForShop(in.AtelierID)
	if err := cache.Load(ctx, day); err != nil {
		return nil, err
	}

	var busy []domain.BusyInterval
	for _, ap := range cache.GetForRange(day) {
		ap := ap
		interval, blocks, err := domain.BusyIntervalOf(&ap)
		if err != nil {
			return nil, err
		}
		if blocks {
			busy = append(busy, interval)
		}
	}

	now := timezone.NowWallClock(shop.Timezone)
	starts, err := domain.ComputeAvailableSlots(
		in.Date,
		dayHours,
		busy,
		durationMin,
		bufferMin,
		now,
	)
	if err != nil {
		return nil, err
	}

	return domain.SlotWindows(starts, durationMin), nil
}
