package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered applicant or administrator
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`                              // Never expose password in JSON
	Role         string         `gorm:"type:varchar(20);default:'student'" json:"role"` // student, admin
	TokenVersion int            `gorm:"default:0" json:"-"`                             // Increment to invalidate all user tokens

	// Relationships
	Profile      *Profile      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Applications []Application `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Profile holds the applicant details shown on the application form.
// One-to-one with User, created at registration.
type Profile struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName       string         `gorm:"not null" json:"full_name"`
	EducationLevel string         `gorm:"type:varchar(100)" json:"education_level"`
	CurrentGPA     float64        `gorm:"column:current_gpa;default:0" json:"current_gpa"`
}
