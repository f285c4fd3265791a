package portal

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
)

// GetHealthRecord fetches the record attached to one appointment. A
// missing record is a normal outcome, returned as (nil, nil).
func (c *Client) GetHealthRecord(ctx context.Context, token, appointmentID, patientID string) (*HealthRecord, error) {
	path := "/api/health-records/appointment/" + url.PathEscape(appointmentID) + "/" + url.PathEscape(patientID)

	var resp struct {
		ResultCode int          `json:"result_code"`
		Record     HealthRecord `json:"health_record"`
	}
	if err := c.do(ctx, "GET", path, token, nil, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &resp.Record, nil
}

// CreateHealthRecord attaches a record to an appointment. Doctor role
// required; data must be one of the typed payloads (LabResults,
// Medication, Vitals) or any JSON-encodable value matching recordType.
func (c *Client) CreateHealthRecord(ctx context.Context, token, appointmentID, recordType string, data any) (*HealthRecord, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"appointment_id": appointmentID,
		"record_type":    recordType,
		"data":           json.RawMessage(raw),
	}

	var resp struct {
		ResultCode int          `json:"result_code"`
		Record     HealthRecord `json:"health_record"`
	}
	if err := c.do(ctx, "POST", "/api/health-records", token, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Record, nil
}

// UpdateHealthRecord replaces the data of an existing record. The
// record type is fixed at creation and must be restated to confirm it.
func (c *Client) UpdateHealthRecord(ctx context.Context, token, recordID, recordType string, data any) (*HealthRecord, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"record_type": recordType,
		"data":        json.RawMessage(raw),
	}

	var resp struct {
		ResultCode int          `json:"result_code"`
		Record     HealthRecord `json:"health_record"`
	}
	if err := c.do(ctx, "PUT", "/api/health-records/"+url.PathEscape(recordID), token, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Record, nil
}
