package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/carelinkhq/care-portal/internal/domain/appointment"
	"github.com/carelinkhq/care-portal/internal/httperr"
)

func newBookUC(repo *fakeRepo, rec *recorder, now time.Time) *BookAppointment {
	uc := NewBookAppointment(repo, rec)
	uc.now = func() time.Time { return now }
	return uc
}

func TestBookWithoutProvider(t *testing.T) {
	repo := newFakeRepo()
	rec := &recorder{}
	now := time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)
	uc := newBookUC(repo, rec, now)

	ap, err := uc.Execute(context.Background(), BookAppointmentInput{
		PatientID: "patient-1",
		DateTime:  "2025-12-15T10:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "patient-1", ap.PatientID)
	assert.Nil(t, ap.ProviderID)
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.Equal(t, time.Date(2025, 12, 15, 10, 0, 0, 0, time.UTC), ap.DateTime)

	require.Len(t, rec.events, 1)
	assert.Equal(t, "appointment_booked", rec.events[0].Action)
}

func TestBookWithProvider(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor("doc-1", "Greg", "House", "Diagnostics")
	now := time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)
	uc := newBookUC(repo, &recorder{}, now)

	ap, err := uc.Execute(context.Background(), BookAppointmentInput{
		PatientID:  "patient-1",
		ProviderID: "doc-1",
		DateTime:   "2025-12-15T10:00:00Z",
	})
	require.NoError(t, err)
	require.NotNil(t, ap.ProviderID)
	assert.Equal(t, "doc-1", *ap.ProviderID)
}

func TestBookRejectsBadInput(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)
	uc := newBookUC(repo, &recorder{}, now)
	ctx := context.Background()

	_, err := uc.Execute(ctx, BookAppointmentInput{
		PatientID: "patient-1",
		DateTime:  "next tuesday",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_date_time"))

	_, err = uc.Execute(ctx, BookAppointmentInput{
		PatientID: "patient-1",
		DateTime:  "2025-11-15T10:00:00Z",
	})
	assert.True(t, httperr.IsBusiness(err, "date_time_in_past"))

	_, err = uc.Execute(ctx, BookAppointmentInput{
		PatientID:  "patient-1",
		ProviderID: "nobody",
		DateTime:   "2025-12-15T10:00:00Z",
	})
	assert.True(t, httperr.IsBusiness(err, "provider_not_found"))

	assert.Empty(t, repo.created, "nothing is persisted on rejection")
}

func TestBookPropagatesTimeConflict(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor("doc-1", "Greg", "House", "Diagnostics")
	repo.conflictErr = httperr.ErrBusiness("time_conflict")
	now := time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)
	uc := newBookUC(repo, &recorder{}, now)

	_, err := uc.Execute(context.Background(), BookAppointmentInput{
		PatientID:  "patient-1",
		ProviderID: "doc-1",
		DateTime:   "2025-12-15T10:00:00Z",
	})
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
	assert.Empty(t, repo.created)
}
