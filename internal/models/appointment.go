package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"app_id"`

	PatientID string `gorm:"size:36;index;not null" json:"patient_id"`
	Patient   User   `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ProviderID *string `gorm:"size:36;index" json:"provider_id"`
	Provider   *User   `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"provider,omitempty"`

	DateTime time.Time `gorm:"index;not null" json:"date_time"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
