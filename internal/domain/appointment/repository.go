package appointment

import (
	"context"

	"github.com/costuraflow/atelier-scheduler/internal/models"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

// Store is the persistence collaborator for the scheduling core.
// Retry policy, timeouts and timezone conversion all live behind it.
type Store interface {
	// -------- Atelier --------
	GetAtelierByID(
		ctx context.Context,
		id uint,
	) (*models.Atelier, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		atelierID uint,
		serviceID uint,
	) (*models.ServiceOffering, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		atelierID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	AssertNoTimeConflict(
		ctx context.Context,
		atelierID uint,
		date timeutil.Date,
		start timeutil.TimeOfDay,
		end timeutil.TimeOfDay,
		excludeID uint,
	) error

	// -------- Appointment (read / update / delete) --------
	GetAppointment(
		ctx context.Context,
		appointmentID uint,
		atelierID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		appointmentID uint,
		atelierID uint,
	) error

	// -------- Range reads --------
	FetchRange(
		ctx context.Context,
		atelierID uint,
		start timeutil.Date,
		end timeutil.Date,
	) ([]models.Appointment, error)
}

// HoursProvider returns the seven weekday entries for a shop.
type HoursProvider interface {
	ShopHours(ctx context.Context, atelierID uint) (WeekHours, error)
}

// SettingsProvider returns the per-shop slot generation tuning.
type SettingsProvider interface {
	CalendarSettings(ctx context.Context, atelierID uint) (*models.CalendarSettings, error)
}
