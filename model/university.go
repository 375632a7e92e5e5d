package model

import (
	"time"

	"gorm.io/gorm"
)

// University represents an institution listed in the catalog
type University struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Name                 string         `gorm:"not null;index" json:"name"`
	Location             string         `gorm:"type:varchar(255)" json:"location"`
	Country              string         `gorm:"type:varchar(120)" json:"country"`
	TuitionFee           int            `gorm:"not null" json:"tuition_fee"` // per year
	AcceptanceRate       int            `gorm:"default:0" json:"acceptance_rate"`
	ScholarshipAvailable bool           `gorm:"default:false" json:"scholarship_available"`
	MinimumGPA           float64        `gorm:"column:minimum_gpa;default:0" json:"minimum_gpa"`
	EducationGap         int            `gorm:"default:0" json:"education_gap"` // max acceptable gap in years
	Description          string         `gorm:"type:text" json:"description"`
	ImageURL             string         `gorm:"type:varchar(512)" json:"image_url"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	// Derived counts attached by the catalog loader, not persisted
	BachelorsCount int `gorm:"-" json:"bachelors_count"`
	MastersCount   int `gorm:"-" json:"masters_count"`

	// Relationships
	Courses []Course `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
}
