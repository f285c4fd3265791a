package appointment

import (
	"context"
	"time"

	"github.com/carelinkhq/care-portal/internal/audit"
	domain "github.com/carelinkhq/care-portal/internal/domain/appointment"
	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/models"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit audit.Recorder
	now   func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	audit audit.Recorder,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	callerID string,
	callerRole string,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if !mayManage(ap, callerID, callerRole) {
		return nil, httperr.ErrBusiness("not_allowed")
	}

	if err := domain.Cancel(ap, uc.now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &callerID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

// mayManage: patients act on their own appointments, doctors on the ones
// assigned to them, receptionists and admins on any.
func mayManage(ap *models.Appointment, callerID, callerRole string) bool {
	switch callerRole {
	case models.RoleReceptionist, models.RoleAdmin:
		return true
	case models.RoleDoctor:
		return ap.ProviderID != nil && *ap.ProviderID == callerID
	default:
		return ap.PatientID == callerID
	}
}
