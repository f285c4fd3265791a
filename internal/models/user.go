package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RolePatient      = "patient"
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
	RoleAdmin        = "admin"
)

type User struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	FirstName    string `gorm:"size:100;not null" json:"first_name"`
	LastName     string `gorm:"size:100;not null" json:"last_name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'patient'" json:"role"`

	// Doctor-only profile fields; empty for other roles.
	Specialization string `gorm:"size:100" json:"specialization,omitempty"`
	HospitalID     string `gorm:"size:36" json:"hospital_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func ValidRole(role string) bool {
	switch role {
	case RolePatient, RoleDoctor, RoleReceptionist, RoleAdmin:
		return true
	}
	return false
}
