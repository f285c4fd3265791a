package appointment

import (
	"context"
	"time"

	"github.com/carelinkhq/care-portal/internal/audit"
	domain "github.com/carelinkhq/care-portal/internal/domain/appointment"
	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/models"
)

type CompleteAppointment struct {
	repo  domain.Repository
	audit audit.Recorder
	now   func() time.Time
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit audit.Recorder,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	callerID string,
	callerRole string,
	appointmentID string,
) (*models.Appointment, error) {

	// Only the treating doctor or staff close out a visit.
	if callerRole == models.RolePatient {
		return nil, httperr.ErrBusiness("not_allowed")
	}

	ap, err := uc.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if !mayManage(ap, callerID, callerRole) {
		return nil, httperr.ErrBusiness("not_allowed")
	}

	if err := domain.Complete(ap, uc.now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &callerID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
