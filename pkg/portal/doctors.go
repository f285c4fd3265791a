package portal

import "context"

// FetchAllDoctors returns the doctor directory.
func (c *Client) FetchAllDoctors(ctx context.Context, token string) ([]WireUser, error) {
	var resp struct {
		ResultCode int        `json:"result_code"`
		Doctors    []WireUser `json:"doctors"`
	}
	if err := c.do(ctx, "POST", "/api/users/fetch_all_doctors", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Doctors, nil
}

// FetchDoctorPatients lists the distinct patients a doctor has seen,
// with visit aggregates. Doctor role required.
func (c *Client) FetchDoctorPatients(ctx context.Context, token string) ([]PatientSummary, error) {
	var resp struct {
		ResultCode int              `json:"result_code"`
		Patients   []PatientSummary `json:"patients"`
	}
	if err := c.do(ctx, "GET", "/api/providers/fetch_doctors_patients", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Patients, nil
}
