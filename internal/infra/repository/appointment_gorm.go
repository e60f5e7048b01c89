package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/costuraflow/atelier-scheduler/internal/domain/appointment"
	"github.com/costuraflow/atelier-scheduler/internal/httperr"
	"github.com/costuraflow/atelier-scheduler/internal/models"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

type AppointmentGormStore struct {
	db *gorm.DB
}

func NewAppointmentGormStore(db *gorm.DB) *AppointmentGormStore {
	return &AppointmentGormStore{db: db}
}

// --------------------------------------------------
// Atelier
// --------------------------------------------------

func (r *AppointmentGormStore) GetAtelierByID(
	ctx context.Context,
	id uint,
) (*models.Atelier, error) {

	var shop models.Atelier
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *AppointmentGormStore) GetAtelierBySlug(
	ctx context.Context,
	slug string,
) (*models.Atelier, error) {

	var shop models.Atelier
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormStore) GetService(
	ctx context.Context,
	atelierID uint,
	serviceID uint,
) (*models.ServiceOffering, error) {

	var service models.ServiceOffering
	if err := r.db.WithContext(ctx).
		Where("id = ? AND atelier_id = ?", serviceID, atelierID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormStore) GetOrCreateClient(
	ctx context.Context,
	atelierID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("atelier_id = ? AND phone = ?", atelierID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{
		AtelierID: atelierID,
		Name:      name,
		Phone:     phone,
		Email:     email,
	}
	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormStore) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

// AssertNoTimeConflict locks overlapping rows and fails with a
// business error when the requested window is already taken.
// Declined and canceled appointments do not block.
func (r *AppointmentGormStore) AssertNoTimeConflict(
	ctx context.Context,
	atelierID uint,
	date timeutil.Date,
	start timeutil.TimeOfDay,
	end timeutil.TimeOfDay,
	excludeID uint,
) error {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"atelier_id = ? AND date = ? AND status IN ('pending','confirmed') AND start_time < ? AND end_time > ? AND id <> ?",
			atelierID,
			date.String(),
			end.String(),
			start.String(),
			excludeID,
		).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return httperr.ErrBusiness("time_conflict")
	}
	return nil
}

// --------------------------------------------------
// Appointment (read / update / delete)
// --------------------------------------------------

func (r *AppointmentGormStore) GetAppointment(
	ctx context.Context,
	appointmentID uint,
	atelierID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND atelier_id = ?", appointmentID, atelierID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormStore) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormStore) DeleteAppointment(
	ctx context.Context,
	appointmentID uint,
	atelierID uint,
) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND atelier_id = ?", appointmentID, atelierID).
		Delete(&models.Appointment{}).Error
}

// --------------------------------------------------
// Range reads
// --------------------------------------------------

// FetchRange returns every appointment on the inclusive date range,
// ordered for the calendar. ISO date strings compare correctly as
// text.
func (r *AppointmentGormStore) FetchRange(
	ctx context.Context,
	atelierID uint,
	start timeutil.Date,
	end timeutil.Date,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("ServiceOffering").
		Where(
			"atelier_id = ? AND date >= ? AND date <= ?",
			atelierID, start.String(), end.String(),
		).
		Order("date ASC, start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

var _ domain.Store = (*AppointmentGormStore)(nil)
