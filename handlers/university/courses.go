package university

import (
	"github.com/gofiber/fiber/v2"
	"github.com/unisearch/api/model"
	"github.com/unisearch/api/utils/response"
	"github.com/unisearch/api/utils/validation"
	"gorm.io/gorm"
)

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	UniversityID         uint   `json:"university_id" validate:"required"`
	Name                 string `json:"name" validate:"required,min=2,max=255"`
	Level                string `json:"level" validate:"required"`
	Overview             string `json:"overview"`
	Duration             string `json:"duration" validate:"omitempty,max=100"`
	StartAdmission       string `json:"start_admission" validate:"omitempty,max=100"`
	ApplicationDeadline  string `json:"application_deadline" validate:"omitempty,max=100"`
	ProgramStructure     string `json:"program_structure"`
	AcademicRequirements string `json:"academic_requirements"`
	TuitionFee           int    `json:"tuition_fee" validate:"gte=0"`
	ScholarshipInfo      string `json:"scholarship_info"`
	VisaInfo             string `json:"visa_info"`
}

// CreateCourse handles POST /api/v1/courses (admin only)
func (h *UniversityHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	level := model.CourseLevel(req.Level)
	if !model.IsValidCourseLevel(level) {
		return response.BadRequest(c, "Level must be \"Bachelor's\" or \"Master's\"")
	}

	// The owning university must exist
	var university model.University
	if err := h.db.First(&university, req.UniversityID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "University not found")
		}
		return response.InternalServerError(c, "Failed to fetch university")
	}

	course := model.Course{
		UniversityID:         req.UniversityID,
		Name:                 validation.SanitizeString(req.Name),
		Level:                level,
		Overview:             req.Overview,
		Duration:             req.Duration,
		StartAdmission:       req.StartAdmission,
		ApplicationDeadline:  req.ApplicationDeadline,
		ProgramStructure:     req.ProgramStructure,
		AcademicRequirements: req.AcademicRequirements,
		TuitionFee:           req.TuitionFee,
		ScholarshipInfo:      req.ScholarshipInfo,
		VisaInfo:             req.VisaInfo,
	}

	if err := h.db.Create(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to create course")
	}

	h.catalog.InvalidateCatalogCache(c.Context())

	return response.Created(c, course)
}

// GetCourse handles GET /api/v1/courses/:id
func (h *UniversityHandler) GetCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var course model.Course
	if err := h.db.First(&course, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	return response.Success(c, course)
}

// DeleteCourse handles DELETE /api/v1/courses/:id (admin only)
func (h *UniversityHandler) DeleteCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var course model.Course
	if err := h.db.First(&course, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	if err := h.db.Delete(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete course")
	}

	h.catalog.InvalidateCatalogCache(c.Context())

	return response.SuccessWithMessage(c, "Course deleted successfully", nil)
}
