package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Consent is a patient-granted, time-bounded authorization for a doctor to
// access health records of a given type.
type Consent struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	PatientID string `gorm:"size:36;index;not null" json:"patient_id"`
	Patient   User   `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	DoctorID string `gorm:"size:36;index;not null" json:"doctor_id"`
	Doctor   User   `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	RecordID   *string `gorm:"size:36" json:"record_id,omitempty"`
	RecordType string  `gorm:"size:20" json:"type"`
	Purpose    string  `gorm:"size:255" json:"purpose"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	RequestDate time.Time  `json:"request_date"`
	GrantedDate *time.Time `json:"granted_date,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Consent) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
