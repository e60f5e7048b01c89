package appointment

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	domain "github.com/costuraflow/atelier-scheduler/internal/domain/appointment"
	"github.com/costuraflow/atelier-scheduler/internal/models"
	"github.com/costuraflow/atelier-scheduler/internal/rangecache"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

// fakeStore lets each test swap in just the behavior it needs.
type fakeStore struct {
	getAtelierFn  func(ctx context.Context, id uint) (*models.Atelier, error)
	getServiceFn  func(ctx context.Context, atelierID, serviceID uint) (*models.ServiceOffering, error)
	fetchRangeFn  func(ctx context.Context, atelierID uint, start, end timeutil.Date) ([]models.Appointment, error)
	fetchRangeHit int
}

func (f *fakeStore) GetAtelierByID(ctx context.Context, id uint) (*models.Atelier, error) {
	return f.getAtelierFn(ctx, id)
}

func (f *fakeStore) GetService(ctx context.Context, atelierID, serviceID uint) (*models.ServiceOffering, error) {
	return f.getServiceFn(ctx, atelierID, serviceID)
}

func (f *fakeStore) GetOrCreateClient(context.Context, uint, string, string, string) (*models.Client, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) CreateAppointment(context.Context, *models.Appointment) error {
	return errors.New("not implemented")
}

func (f *fakeStore) AssertNoTimeConflict(context.Context, uint, timeutil.Date, timeutil.TimeOfDay, timeutil.TimeOfDay, uint) error {
	return errors.New("not implemented")
}

func (f *fakeStore) GetAppointment(context.Context, uint, uint) (*models.Appointment, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) UpdateAppointment(context.Context, *models.Appointment) error {
	return errors.New("not implemented")
}

func (f *fakeStore) DeleteAppointment(context.Context, uint, uint) error {
	return errors.New("not implemented")
}

func (f *fakeStore) FetchRange(ctx context.Context, atelierID uint, start, end timeutil.Date) ([]models.Appointment, error) {
	f.fetchRangeHit++
	return f.fetchRangeFn(ctx, atelierID, start, end)
}

type fakeProviders struct {
	hours    domain.WeekHours
	settings *models.CalendarSettings
}

func (f *fakeProviders) ShopHours(context.Context, uint) (domain.WeekHours, error) {
	return f.hours, nil
}

func (f *fakeProviders) CalendarSettings(context.Context, uint) (*models.CalendarSettings, error) {
	return f.settings, nil
}

func mustDate(t *testing.T, s string) timeutil.Date {
	t.Helper()
	d, err := timeutil.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func openAllWeek(date timeutil.Date, open, close timeutil.TimeOfDay) domain.WeekHours {
	return domain.WeekHours{
		date.Weekday(): {Weekday: date.Weekday(), Open: &open, Close: &close},
	}
}

func TestGetAvailability_TerminalAppointmentsDoNotBlock(t *testing.T) {
	// Far enough out that the elapsed-today filter never applies.
	date := mustDate(t, "2030-06-10")

	store := &fakeStore{
		getAtelierFn: func(_ context.Context, id uint) (*models.Atelier, error) {
			return &models.Atelier{ID: id, Timezone: "America/Sao_Paulo"}, nil
		},
		getServiceFn: func(_ context.Context, _, serviceID uint) (*models.ServiceOffering, error) {
			return &models.ServiceOffering{ID: serviceID, DurationMin: 60}, nil
		},
		fetchRangeFn: func(_ context.Context, _ uint, _, _ timeutil.Date) ([]models.Appointment, error) {
			return []models.Appointment{
				{ID: 1, Date: date.String(), StartTime: "10:00", EndTime: "11:00", Status: "confirmed"},
				{ID: 2, Date: date.String(), StartTime: "12:00", EndTime: "13:00", Status: "canceled"},
			}, nil
		},
	}
	providers := &fakeProviders{
		hours:    openAllWeek(date, timeutil.TimeOfDay{Hour: 9}, timeutil.TimeOfDay{Hour: 17}),
		settings: &models.CalendarSettings{BufferTimeMinutes: 0, DefaultDurationMin: 30},
	}

	uc := NewGetAvailability(store, providers, providers, rangecache.NewRegistry(store, zap.NewNop()))

	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		AtelierID: 1,
		ServiceID: 5,
		Date:      date,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := []string{
		"09:00",
		"11:00", "11:30", "12:00", "12:30", "13:00", "13:30",
		"14:00", "14:30", "15:00", "15:30", "16:00",
	}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots %v, want %d", len(slots), slots, len(want))
	}
	for i, w := range want {
		if slots[i].Start != w {
			t.Fatalf("slot[%d] = %s, want %s", i, slots[i].Start, w)
		}
	}
	if slots[0].End != "10:00" {
		t.Fatalf("slot window end = %s, want 10:00", slots[0].End)
	}
}

func TestGetAvailability_DefaultsFromSettings(t *testing.T) {
	date := mustDate(t, "2030-06-10")

	store := &fakeStore{
		getAtelierFn: func(_ context.Context, id uint) (*models.Atelier, error) {
			return &models.Atelier{ID: id, Timezone: "America/Sao_Paulo"}, nil
		},
		fetchRangeFn: func(context.Context, uint, timeutil.Date, timeutil.Date) ([]models.Appointment, error) {
			return nil, nil
		},
	}
	providers := &fakeProviders{
		hours:    openAllWeek(date, timeutil.TimeOfDay{Hour: 9}, timeutil.TimeOfDay{Hour: 10}),
		settings: &models.CalendarSettings{BufferTimeMinutes: 0, DefaultDurationMin: 30},
	}

	uc := NewGetAvailability(store, providers, providers, rangecache.NewRegistry(store, zap.NewNop()))

	// No service and no explicit duration: the settings default rules.
	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		AtelierID: 1,
		Date:      date,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(slots) != 2 || slots[0].Start != "09:00" || slots[1].Start != "09:30" {
		t.Fatalf("got %v, want 09:00 and 09:30", slots)
	}
}

func TestGetAvailability_SecondCallServedFromCache(t *testing.T) {
	date := mustDate(t, "2030-06-10")

	store := &fakeStore{
		getAtelierFn: func(_ context.Context, id uint) (*models.Atelier, error) {
			return &models.Atelier{ID: id, Timezone: "America/Sao_Paulo"}, nil
		},
		fetchRangeFn: func(context.Context, uint, timeutil.Date, timeutil.Date) ([]models.Appointment, error) {
			return nil, nil
		},
	}
	providers := &fakeProviders{
		hours:    openAllWeek(date, timeutil.TimeOfDay{Hour: 9}, timeutil.TimeOfDay{Hour: 12}),
		settings: &models.CalendarSettings{DefaultDurationMin: 30},
	}

	uc := NewGetAvailability(store, providers, providers, rangecache.NewRegistry(store, zap.NewNop()))

	in := domain.AvailabilityInput{AtelierID: 1, Date: date}
	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("first execute: %v", err)
	}
	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("second execute: %v", err)
	}
	if store.fetchRangeHit != 1 {
		t.Fatalf("range fetched %d times, want 1", store.fetchRangeHit)
	}
}

func TestGetAvailability_MissingWeekdayYieldsNoSlots(t *testing.T) {
	date := mustDate(t, "2030-06-10")

	store := &fakeStore{
		getAtelierFn: func(_ context.Context, id uint) (*models.Atelier, error) {
			return &models.Atelier{ID: id, Timezone: "America/Sao_Paulo"}, nil
		},
		fetchRangeFn: func(context.Context, uint, timeutil.Date, timeutil.Date) ([]models.Appointment, error) {
			return nil, nil
		},
	}
	providers := &fakeProviders{
		hours:    domain.WeekHours{},
		settings: &models.CalendarSettings{DefaultDurationMin: 30},
	}

	uc := NewGetAvailability(store, providers, providers, rangecache.NewRegistry(store, zap.NewNop()))

	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{AtelierID: 1, Date: date})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("closed shop produced %v", slots)
	}
}
