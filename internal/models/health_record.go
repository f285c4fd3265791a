package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RecordTypeLabResults = "lab_results"
	RecordTypeMedication = "medication"
	RecordTypeVitals     = "vitals"
)

// HealthRecord is a typed clinical entry tied to one appointment. The
// uniqueIndex on AppointmentID enforces that an appointment carries at most
// one record; its record_type is fixed once created.
type HealthRecord struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	AppointmentID string      `gorm:"size:36;uniqueIndex;not null" json:"appointment_id"`
	Appointment   Appointment `gorm:"foreignKey:AppointmentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	PatientID  string `gorm:"size:36;index;not null" json:"patient_id"`
	ProviderID string `gorm:"size:36;index;not null" json:"provider_id"`

	RecordType string          `gorm:"size:20;not null" json:"record_type"`
	Data       json.RawMessage `gorm:"type:jsonb" json:"data"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *HealthRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func ValidRecordType(t string) bool {
	switch t {
	case RecordTypeLabResults, RecordTypeMedication, RecordTypeVitals:
		return true
	}
	return false
}
