package portal

import (
	"encoding/json"
	"time"
)

// Wire shapes of the portal REST API. Field names follow the backend's
// JSON exactly; the session manager owns any normalization.

type WireUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Role           string `json:"role"`
	Specialization string `json:"specialization,omitempty"`
	HospitalID     string `json:"hospital_id,omitempty"`
}

type LoginResponse struct {
	ResultCode int      `json:"result_code"`
	User       WireUser `json:"user"`
	Token      string   `json:"token"`
}

type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type Appointment struct {
	AppID       string     `json:"app_id"`
	DateTime    time.Time  `json:"date_time"`
	PatientID   string     `json:"patient_id"`
	ProviderID  *string    `json:"provider_id"`
	Provider    *WireUser  `json:"provider,omitempty"`
	Status      string     `json:"status"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ProviderAvailability is one doctor plus the open slots (RFC3339 UTC)
// they offer inside a queried window.
type ProviderAvailability struct {
	ProviderID     string   `json:"provider_id"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Specialization string   `json:"specialization"`
	AvailableTimes []string `json:"availableTimes"`
}

type HealthRecord struct {
	ID            string          `json:"id"`
	AppointmentID string          `json:"appointment_id"`
	PatientID     string          `json:"patient_id"`
	ProviderID    string          `json:"provider_id"`
	RecordType    string          `json:"record_type"`
	Data          json.RawMessage `json:"data"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Typed health-record payloads.

type LabResults struct {
	TestName    string `json:"testName"`
	Result      string `json:"result"`
	NormalRange string `json:"normalRange"`
	Notes       string `json:"notes"`
}

type Medication struct {
	MedicationName string `json:"medicationName"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency"`
	Duration       string `json:"duration"`
	Instructions   string `json:"instructions"`
}

type Vitals struct {
	BloodPressure string `json:"bloodPressure"`
	HeartRate     string `json:"heartRate"`
	Temperature   string `json:"temperature"`
	Weight        string `json:"weight"`
	Height        string `json:"height"`
}

type ConsentRequest struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	RequestDate time.Time `json:"request_date"`
	Status      string    `json:"status"`
	Type        string    `json:"type"`
	Purpose     string    `json:"purpose"`
}

type ActiveConsent struct {
	ID             string     `json:"id"`
	DoctorID       string     `json:"doctorId"`
	DoctorName     string     `json:"doctorName"`
	Specialization string     `json:"specialization"`
	GrantedDate    *time.Time `json:"grantedDate"`
	ExpiryDate     *time.Time `json:"expiryDate"`
}

type PatientSummary struct {
	PatientID   string    `json:"patient_id"`
	FullName    string    `json:"full_name"`
	TotalVisits int       `json:"totalVisits"`
	LastVisit   time.Time `json:"lastVisit"`
}
