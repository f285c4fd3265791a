package consent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/models"
)

func TestApproveSetsGrantWindow(t *testing.T) {
	now := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)

	c := &models.Consent{Status: string(StatusPending)}
	require.NoError(t, Approve(c, now))

	assert.Equal(t, string(StatusApproved), c.Status)
	require.NotNil(t, c.GrantedDate)
	require.NotNil(t, c.ExpiryDate)
	assert.Equal(t, now.Add(DefaultGrantPeriod), *c.ExpiryDate)

	// approving twice is rejected
	err := Approve(c, now)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestDenyOnlyFromPending(t *testing.T) {
	c := &models.Consent{Status: string(StatusPending)}
	require.NoError(t, Deny(c))
	assert.Equal(t, string(StatusDenied), c.Status)

	assert.Error(t, Deny(c))
	assert.Error(t, Deny(&models.Consent{Status: string(StatusApproved)}))
}

func TestRevokeOnlyFromApproved(t *testing.T) {
	c := &models.Consent{Status: string(StatusApproved)}
	require.NoError(t, Revoke(c))
	assert.Equal(t, string(StatusRevoked), c.Status)

	assert.Error(t, Revoke(c))
	assert.Error(t, Revoke(&models.Consent{Status: string(StatusPending)}))
}

func TestActive(t *testing.T) {
	now := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert.True(t, Active(&models.Consent{
		Status:     string(StatusApproved),
		ExpiryDate: &future,
	}, now))

	assert.False(t, Active(&models.Consent{
		Status:     string(StatusApproved),
		ExpiryDate: &past,
	}, now), "expired grants do not authorize access")

	assert.False(t, Active(&models.Consent{
		Status: string(StatusRevoked),
	}, now))

	assert.True(t, Active(&models.Consent{
		Status: string(StatusApproved),
	}, now), "no expiry means still active")
}
