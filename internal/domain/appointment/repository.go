package appointment

import (
	"context"
	"time"

	"github.com/carelinkhq/care-portal/internal/models"
)

type ListFilter string

const (
	ListAll      ListFilter = "all"
	ListUpcoming ListFilter = "upcoming"
	ListPast     ListFilter = "past"
)

type Repository interface {
	// -------- Users / providers --------
	GetUserByID(
		ctx context.Context,
		id string,
	) (*models.User, error)

	GetDoctorByID(
		ctx context.Context,
		id string,
	) (*models.User, error)

	ListDoctors(
		ctx context.Context,
	) ([]models.User, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	AssertNoTimeConflict(
		ctx context.Context,
		providerID string,
		start time.Time,
		end time.Time,
	) error

	// -------- Appointment (state change) --------
	GetAppointmentByID(
		ctx context.Context,
		appointmentID string,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listing --------
	ListForPatient(
		ctx context.Context,
		patientID string,
		filter ListFilter,
		now time.Time,
	) ([]models.Appointment, error)

	ListForProvider(
		ctx context.Context,
		providerID string,
		filter ListFilter,
		now time.Time,
	) ([]models.Appointment, error)

	// -------- Availability --------
	GetSchedule(
		ctx context.Context,
		providerID string,
		weekday int,
	) (*models.ProviderSchedule, error)

	ListScheduledBetween(
		ctx context.Context,
		providerID string,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
