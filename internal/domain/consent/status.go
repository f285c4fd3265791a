package consent

import (
	"time"

	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/models"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
	StatusRevoked  Status = "revoked"
)

// DefaultGrantPeriod bounds an approved consent when the patient does not
// pick an expiry.
const DefaultGrantPeriod = 30 * 24 * time.Hour

// Transitions are one-way: pending -> approved|denied, approved -> revoked.

func Approve(c *models.Consent, now time.Time) error {
	if Status(c.Status) != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}

	expiry := now.Add(DefaultGrantPeriod)
	c.Status = string(StatusApproved)
	c.GrantedDate = &now
	c.ExpiryDate = &expiry
	return nil
}

func Deny(c *models.Consent) error {
	if Status(c.Status) != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}

	c.Status = string(StatusDenied)
	return nil
}

func Revoke(c *models.Consent) error {
	if Status(c.Status) != StatusApproved {
		return httperr.ErrBusiness("invalid_state")
	}

	c.Status = string(StatusRevoked)
	return nil
}

// Active reports whether a consent currently authorizes access.
func Active(c *models.Consent, now time.Time) bool {
	if Status(c.Status) != StatusApproved {
		return false
	}
	if c.ExpiryDate != nil && c.ExpiryDate.Before(now) {
		return false
	}
	return true
}
