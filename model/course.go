package model

import (
	"time"

	"gorm.io/gorm"
)

// CourseLevel is the degree level a course leads to
type CourseLevel string

const (
	CourseLevelBachelors CourseLevel = "Bachelor's"
	CourseLevelMasters   CourseLevel = "Master's"
)

// IsValidCourseLevel reports whether level is one of the enumerated values
func IsValidCourseLevel(level CourseLevel) bool {
	return level == CourseLevelBachelors || level == CourseLevelMasters
}

// Course represents a program offered by a university
type Course struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
	UniversityID         uint           `gorm:"not null;index" json:"university_id"`
	Name                 string         `gorm:"not null" json:"name"`
	Level                CourseLevel    `gorm:"type:varchar(20);not null" json:"level"`
	Overview             string         `gorm:"type:text" json:"overview"`
	Duration             string         `gorm:"type:varchar(100)" json:"duration"`
	StartAdmission       string         `gorm:"type:varchar(100)" json:"start_admission"`
	ApplicationDeadline  string         `gorm:"type:varchar(100)" json:"application_deadline"`
	ProgramStructure     string         `gorm:"type:text" json:"program_structure"`
	AcademicRequirements string         `gorm:"type:text" json:"academic_requirements"`
	TuitionFee           int            `gorm:"not null" json:"tuition_fee"`
	ScholarshipInfo      string         `gorm:"type:text" json:"scholarship_info"`
	VisaInfo             string         `gorm:"type:text" json:"visa_info"`

	// Relationships
	University University `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"university,omitempty"`
}
