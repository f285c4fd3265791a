package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProviderSchedule is a weekly recurring availability window for a doctor.
// StartTime/EndTime are wall-clock "15:04" strings in the schedule's timezone.
type ProviderSchedule struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	ProviderID string `gorm:"size:36;index;not null" json:"provider_id"`

	Weekday int `gorm:"not null" json:"weekday"`

	StartTime   string `gorm:"size:5" json:"start_time"`
	EndTime     string `gorm:"size:5" json:"end_time"`
	SlotMinutes int    `gorm:"default:30" json:"slot_minutes"`
	Timezone    string `gorm:"size:64" json:"timezone"`
	Active      bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *ProviderSchedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
