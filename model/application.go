package model

import (
	"time"

	"gorm.io/gorm"
)

// ApplicationStatus tracks the review state of an application.
// Transitions past "pending" happen only through reviewer action.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// DocumentType is the enumerated category of an application document
type DocumentType string

const (
	DocumentTypeAcademics             DocumentType = "academics"
	DocumentTypePassport              DocumentType = "passport"
	DocumentTypeCV                    DocumentType = "cv"
	DocumentTypeRecommendationLetter1 DocumentType = "recommendationLetter1"
	DocumentTypeRecommendationLetter2 DocumentType = "recommendationLetter2"
	DocumentTypeExperienceLetter      DocumentType = "experienceLetter"
	DocumentTypeEnglishTest           DocumentType = "english_test"
)

// EnglishTestFilePath is the sentinel stored for the english_test marker row,
// which never carries an uploaded file.
const EnglishTestFilePath = "none"

// Application represents one submission of a course application
type Application struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	DeletedAt    gorm.DeletedAt    `gorm:"index" json:"-"`
	UserID       uint              `gorm:"not null;index" json:"user_id"`
	UniversityID uint              `gorm:"not null;index" json:"university_id"`
	CourseID     uint              `gorm:"not null;index" json:"course_id"`
	Status       ApplicationStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`

	// Relationships
	User       User                  `gorm:"foreignKey:UserID" json:"-"`
	University University            `gorm:"foreignKey:UniversityID" json:"university,omitempty"`
	Course     Course                `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Documents  []ApplicationDocument `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}

// ApplicationDocument records one uploaded artifact (or the english_test
// marker) belonging to an application
type ApplicationDocument struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`
	ApplicationID  uint              `gorm:"not null;index" json:"application_id"`
	DocumentType   DocumentType      `gorm:"type:varchar(50);not null" json:"document_type"`
	FilePath       string            `gorm:"type:varchar(512);not null" json:"file_path"`
	Status         ApplicationStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	HasEnglishTest bool              `gorm:"default:false" json:"has_english_test"`

	// Relationships
	Application Application `gorm:"foreignKey:ApplicationID" json:"-"`
}
