package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/models"
)

func TestCancelOnlyFromScheduled(t *testing.T) {
	now := time.Date(2025, 12, 15, 10, 0, 0, 0, time.UTC)

	ap := &models.Appointment{Status: string(StatusScheduled)}
	require.NoError(t, Cancel(ap, now))
	assert.Equal(t, string(StatusCancelled), ap.Status)
	require.NotNil(t, ap.CancelledAt)
	assert.Equal(t, now, *ap.CancelledAt)

	// cancelled is terminal
	err := Cancel(ap, now)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	done := &models.Appointment{Status: string(StatusCompleted)}
	assert.Error(t, Cancel(done, now))
}

func TestCompleteOnlyFromScheduled(t *testing.T) {
	now := time.Date(2025, 12, 15, 10, 30, 0, 0, time.UTC)

	ap := &models.Appointment{Status: string(StatusScheduled)}
	require.NoError(t, Complete(ap, now))
	assert.Equal(t, string(StatusCompleted), ap.Status)
	require.NotNil(t, ap.CompletedAt)

	err := Complete(ap, now)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	cancelled := &models.Appointment{Status: string(StatusCancelled)}
	assert.Error(t, Complete(cancelled, now))
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusScheduled, InitialStatus())
}
