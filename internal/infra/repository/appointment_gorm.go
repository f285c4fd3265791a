package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/carelinkhq/care-portal/internal/domain/appointment"
	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Users / providers
// --------------------------------------------------

func (r *AppointmentGormRepository) GetUserByID(
	ctx context.Context,
	id string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AppointmentGormRepository) GetDoctorByID(
	ctx context.Context,
	id string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, models.RoleDoctor).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AppointmentGormRepository) ListDoctors(
	ctx context.Context,
) ([]models.User, error) {

	var doctors []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", models.RoleDoctor).
		Order("last_name ASC, first_name ASC").
		Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) AssertNoTimeConflict(
	ctx context.Context,
	providerID string,
	start time.Time,
	end time.Time,
) error {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"provider_id = ? AND status = 'scheduled' AND date_time >= ? AND date_time < ?",
			providerID,
			start,
			end,
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
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentByID(
	ctx context.Context,
	appointmentID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Provider").
		First(&ap, "id = ?", appointmentID).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListForPatient(
	ctx context.Context,
	patientID string,
	filter domain.ListFilter,
	now time.Time,
) ([]models.Appointment, error) {
	return r.list(ctx, "patient_id", patientID, filter, now)
}

func (r *AppointmentGormRepository) ListForProvider(
	ctx context.Context,
	providerID string,
	filter domain.ListFilter,
	now time.Time,
) ([]models.Appointment, error) {
	return r.list(ctx, "provider_id", providerID, filter, now)
}

func (r *AppointmentGormRepository) list(
	ctx context.Context,
	column string,
	id string,
	filter domain.ListFilter,
	now time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Provider").
		Where(column+" = ?", id)

	switch filter {
	case domain.ListUpcoming:
		q = q.Where("date_time >= ? AND status = 'scheduled'", now).
			Order("date_time ASC")
	case domain.ListPast:
		q = q.Where("date_time < ? OR status <> 'scheduled'", now).
			Order("date_time DESC")
	default:
		q = q.Order("date_time DESC")
	}

	var aps []models.Appointment
	if err := q.Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) GetSchedule(
	ctx context.Context,
	providerID string,
	weekday int,
) (*models.ProviderSchedule, error) {

	var sched models.ProviderSchedule
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND weekday = ?", providerID, weekday).
		First(&sched).Error; err != nil {
		return nil, err
	}

	return &sched, nil
}

func (r *AppointmentGormRepository) ListScheduledBetween(
	ctx context.Context,
	providerID string,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "date_time", "provider_id", "status").
		Where(
			"provider_id = ? AND status = 'scheduled' AND date_time >= ? AND date_time < ?",
			providerID, start, end,
		).
		Order("date_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
