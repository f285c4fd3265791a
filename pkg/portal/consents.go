package portal

import (
	"context"
	"net/url"
)

// RequestConsent asks a patient for access to records of one type.
// Doctor role required.
func (c *Client) RequestConsent(ctx context.Context, token, patientID, recordType, purpose string, recordID *string) error {
	body := map[string]any{
		"patient_id": patientID,
		"type":       recordType,
		"purpose":    purpose,
	}
	if recordID != nil {
		body["record_id"] = *recordID
	}
	return c.do(ctx, "POST", "/api/consents", token, body, nil)
}

// DoctorConsentRequests lists the caller's outgoing consent requests,
// pending first. Doctor role required.
func (c *Client) DoctorConsentRequests(ctx context.Context, token string) ([]ConsentRequest, error) {
	var resp struct {
		ResultCode int              `json:"result_code"`
		Consents   []ConsentRequest `json:"consents"`
	}
	if err := c.do(ctx, "GET", "/api/consents/doctors-consent-requests", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Consents, nil
}

// PatientConsentRequests lists pending requests waiting on the calling
// patient.
func (c *Client) PatientConsentRequests(ctx context.Context, token string) ([]ConsentRequest, error) {
	var resp struct {
		ResultCode int              `json:"result_code"`
		Consents   []ConsentRequest `json:"consents"`
	}
	if err := c.do(ctx, "GET", "/api/consents/patient-consent-requests", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Consents, nil
}

// ActiveConsents lists the calling patient's currently active grants.
func (c *Client) ActiveConsents(ctx context.Context, token string) ([]ActiveConsent, error) {
	var resp struct {
		ResultCode int             `json:"result_code"`
		Consents   []ActiveConsent `json:"consents"`
	}
	if err := c.do(ctx, "GET", "/api/active-consents", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Consents, nil
}

func (c *Client) ApproveConsent(ctx context.Context, token, consentID string) error {
	return c.transitionConsent(ctx, token, consentID, "approve")
}

func (c *Client) DenyConsent(ctx context.Context, token, consentID string) error {
	return c.transitionConsent(ctx, token, consentID, "deny")
}

func (c *Client) RevokeConsent(ctx context.Context, token, consentID string) error {
	return c.transitionConsent(ctx, token, consentID, "revoke")
}

func (c *Client) transitionConsent(ctx context.Context, token, consentID, action string) error {
	path := "/api/consents/" + url.PathEscape(consentID) + "/" + action
	return c.do(ctx, "PATCH", path, token, nil, nil)
}
