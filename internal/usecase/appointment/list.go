package appointment

import (
	"context"
	"time"

	domain "github.com/carelinkhq/care-portal/internal/domain/appointment"
	"github.com/carelinkhq/care-portal/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo, now: time.Now}
}

// Execute returns the caller's appointments: patients see what they booked,
// doctors what is assigned to them.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	callerID string,
	callerRole string,
	filter domain.ListFilter,
) ([]models.Appointment, error) {

	now := uc.now().UTC()

	if callerRole == models.RoleDoctor {
		return uc.repo.ListForProvider(ctx, callerID, filter, now)
	}
	return uc.repo.ListForPatient(ctx, callerID, filter, now)
}
