package appointment

import (
	"context"
	"time"

	"github.com/carelinkhq/care-portal/internal/audit"
	domain "github.com/carelinkhq/care-portal/internal/domain/appointment"
	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type BookAppointmentInput struct {
	PatientID  string
	ProviderID string

	// RFC3339, e.g. "2025-12-15T10:00:00Z".
	DateTime string
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo  domain.Repository
	audit audit.Recorder
	now   func() time.Time
}

func NewBookAppointment(
	repo domain.Repository,
	audit audit.Recorder,
) *BookAppointment {
	return &BookAppointment{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	start, err := time.Parse(time.RFC3339, in.DateTime)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_time")
	}
	start = start.UTC()

	if !start.After(uc.now().UTC()) {
		return nil, httperr.ErrBusiness("date_time_in_past")
	}

	var providerID *string
	slotMinutes := 30

	if in.ProviderID != "" {
		doctor, err := uc.repo.GetDoctorByID(ctx, in.ProviderID)
		if err != nil {
			return nil, httperr.ErrBusiness("provider_not_found")
		}
		providerID = &doctor.ID

		if sched, err := uc.repo.GetSchedule(ctx, doctor.ID, int(start.Weekday())); err == nil && sched.SlotMinutes > 0 {
			slotMinutes = sched.SlotMinutes
		}

		end := start.Add(time.Duration(slotMinutes) * time.Minute)
		if err := uc.repo.AssertNoTimeConflict(ctx, doctor.ID, start, end); err != nil {
			return nil, err
		}
	}

	ap := &models.Appointment{
		PatientID:  in.PatientID,
		ProviderID: providerID,
		DateTime:   start,
		Status:     string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.PatientID,
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
