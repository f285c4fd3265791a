package portal

import (
	"context"
	"net/url"
	"time"
)

// AppointmentFilter selects which slice of a user's appointments to list.
type AppointmentFilter string

const (
	FilterAll      AppointmentFilter = "all"
	FilterUpcoming AppointmentFilter = "upcoming"
	FilterPast     AppointmentFilter = "past"
)

// GetAvailability queries open slots per doctor inside [from, to). The
// endpoint is public; no token is needed.
func (c *Client) GetAvailability(ctx context.Context, from, to time.Time) ([]ProviderAvailability, error) {
	body := map[string]string{
		"from": from.UTC().Format(time.RFC3339),
		"to":   to.UTC().Format(time.RFC3339),
	}

	var resp struct {
		ResultCode int                    `json:"result_code"`
		Available  []ProviderAvailability `json:"available"`
	}
	if err := c.do(ctx, "POST", "/api/appointments/available", "", body, &resp); err != nil {
		return nil, err
	}
	return resp.Available, nil
}

// BookAppointment books a slot, optionally pinned to one doctor.
func (c *Client) BookAppointment(ctx context.Context, token, dateTime string, providerID *string) (*Appointment, error) {
	body := map[string]any{"date_time": dateTime}
	if providerID != nil {
		body["provider_id"] = *providerID
	}

	var resp struct {
		ResultCode  int         `json:"result_code"`
		Appointment Appointment `json:"appointment"`
	}
	if err := c.do(ctx, "POST", "/api/appointments/book", token, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Appointment, nil
}

// ListAppointments returns the caller's appointments under the given
// filter. Doctors see appointments assigned to them, everyone else
// their own as patient.
func (c *Client) ListAppointments(ctx context.Context, token string, filter AppointmentFilter) ([]Appointment, error) {
	path := "/api/appointments"
	switch filter {
	case FilterUpcoming:
		path = "/api/appointments/upcoming"
	case FilterPast:
		path = "/api/appointments/past"
	}

	var resp struct {
		ResultCode   int           `json:"result_code"`
		Appointments []Appointment `json:"appointments"`
	}
	if err := c.do(ctx, "GET", path, token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Appointments, nil
}

func (c *Client) CancelAppointment(ctx context.Context, token, appointmentID string) (*Appointment, error) {
	return c.transitionAppointment(ctx, token, appointmentID, "cancel")
}

func (c *Client) CompleteAppointment(ctx context.Context, token, appointmentID string) (*Appointment, error) {
	return c.transitionAppointment(ctx, token, appointmentID, "complete")
}

func (c *Client) transitionAppointment(ctx context.Context, token, appointmentID, action string) (*Appointment, error) {
	var resp struct {
		ResultCode  int         `json:"result_code"`
		Appointment Appointment `json:"appointment"`
	}
	path := "/api/appointments/" + url.PathEscape(appointmentID) + "/" + action
	if err := c.do(ctx, "PATCH", path, token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Appointment, nil
}
