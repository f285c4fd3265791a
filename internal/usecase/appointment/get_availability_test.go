package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/carelinkhq/care-portal/internal/domain/appointment"
	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/models"
)

func newAvailabilityUC(repo *fakeRepo, now time.Time) *GetAvailability {
	uc := NewGetAvailability(repo)
	uc.now = func() time.Time { return now }
	return uc
}

// Monday 2025-12-15.
var (
	availFrom = time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)
	availTo   = time.Date(2025, 12, 16, 0, 0, 0, 0, time.UTC)
)

func TestAvailabilityWindowValidation(t *testing.T) {
	uc := newAvailabilityUC(newFakeRepo(), availFrom.Add(-14*24*time.Hour))
	ctx := context.Background()

	_, err := uc.Execute(ctx, domain.AvailabilityInput{From: availTo, To: availFrom})
	assert.True(t, httperr.IsBusiness(err, "invalid_window"))

	_, err = uc.Execute(ctx, domain.AvailabilityInput{From: availFrom, To: availFrom})
	assert.True(t, httperr.IsBusiness(err, "invalid_window"))

	_, err = uc.Execute(ctx, domain.AvailabilityInput{
		From: availFrom,
		To:   availFrom.Add(60 * 24 * time.Hour),
	})
	assert.True(t, httperr.IsBusiness(err, "window_too_large"))
}

func TestAvailabilitySlotsFromSchedule(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor("doc-1", "Greg", "House", "Diagnostics")
	repo.addSchedule("doc-1", int(time.Monday), "09:00", "11:00", 30)

	uc := newAvailabilityUC(repo, availFrom.Add(-14*24*time.Hour))

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		From: availFrom,
		To:   availTo,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "doc-1", out[0].ProviderID)
	assert.Equal(t, "Greg", out[0].FirstName)
	assert.Equal(t, []string{
		"2025-12-15T09:00:00Z",
		"2025-12-15T09:30:00Z",
		"2025-12-15T10:00:00Z",
		"2025-12-15T10:30:00Z",
	}, out[0].AvailableTimes)
}

func TestAvailabilityExcludesBookedSlots(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor("doc-1", "Greg", "House", "Diagnostics")
	repo.addSchedule("doc-1", int(time.Monday), "09:00", "11:00", 30)

	providerID := "doc-1"
	repo.addAppointment(models.Appointment{
		PatientID:  "patient-1",
		ProviderID: &providerID,
		DateTime:   time.Date(2025, 12, 15, 9, 30, 0, 0, time.UTC),
	})

	uc := newAvailabilityUC(repo, availFrom.Add(-14*24*time.Hour))

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		From: availFrom,
		To:   availTo,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.NotContains(t, out[0].AvailableTimes, "2025-12-15T09:30:00Z")
	assert.Contains(t, out[0].AvailableTimes, "2025-12-15T09:00:00Z")
}

func TestAvailabilityCancelledBookingFreesSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor("doc-1", "Greg", "House", "Diagnostics")
	repo.addSchedule("doc-1", int(time.Monday), "09:00", "10:00", 30)

	providerID := "doc-1"
	repo.addAppointment(models.Appointment{
		PatientID:  "patient-1",
		ProviderID: &providerID,
		DateTime:   time.Date(2025, 12, 15, 9, 0, 0, 0, time.UTC),
		Status:     string(domain.StatusCancelled),
	})

	uc := newAvailabilityUC(repo, availFrom.Add(-14*24*time.Hour))

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		From: availFrom,
		To:   availTo,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Contains(t, out[0].AvailableTimes, "2025-12-15T09:00:00Z")
}

func TestAvailabilityClampsPastSlots(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor("doc-1", "Greg", "House", "Diagnostics")
	repo.addSchedule("doc-1", int(time.Monday), "09:00", "11:00", 30)

	// Mid-morning on the queried day: everything before now is gone.
	now := time.Date(2025, 12, 15, 9, 45, 0, 0, time.UTC)
	uc := newAvailabilityUC(repo, now)

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		From: availFrom,
		To:   availTo,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{
		"2025-12-15T10:00:00Z",
		"2025-12-15T10:30:00Z",
	}, out[0].AvailableTimes)
}

func TestAvailabilityScheduleBehindUTC(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor("doc-1", "Greg", "House", "Diagnostics")
	// Tuesday evening in New York is late Tuesday / early Wednesday UTC.
	repo.addScheduleTZ("doc-1", int(time.Tuesday), "18:00", "20:00", 30, "America/New_York")

	from := time.Date(2025, 12, 16, 0, 0, 0, 0, time.UTC) // Tuesday
	to := time.Date(2025, 12, 17, 0, 0, 0, 0, time.UTC)
	uc := newAvailabilityUC(repo, from.Add(-14*24*time.Hour))

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		From: from,
		To:   to,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{
		"2025-12-16T23:00:00Z",
		"2025-12-16T23:30:00Z",
	}, out[0].AvailableTimes, "slots fall on the schedule's local Tuesday, not the previous local day")
}

func TestAvailabilityScheduleAheadOfUTC(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor("doc-1", "Greg", "House", "Diagnostics")
	repo.addScheduleTZ("doc-1", int(time.Monday), "09:00", "10:00", 30, "Asia/Tokyo")

	from := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC) // Monday
	to := time.Date(2025, 12, 16, 0, 0, 0, 0, time.UTC)
	uc := newAvailabilityUC(repo, from.Add(-14*24*time.Hour))

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		From: from,
		To:   to,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	// Monday 09:00 JST is Monday 00:00 UTC.
	assert.Equal(t, []string{
		"2025-12-15T00:00:00Z",
		"2025-12-15T00:30:00Z",
	}, out[0].AvailableTimes)
}

func TestAvailabilitySkipsDoctorsWithoutOpenSlots(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor("doc-1", "Greg", "House", "Diagnostics")
	// no schedule at all

	uc := newAvailabilityUC(repo, availFrom.Add(-14*24*time.Hour))

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		From: availFrom,
		To:   availTo,
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}
