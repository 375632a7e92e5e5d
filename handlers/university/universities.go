package university

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/unisearch/api/model"
	"github.com/unisearch/api/services"
	"github.com/unisearch/api/utils/response"
	"github.com/unisearch/api/utils/validation"
	"gorm.io/gorm"
)

// UniversityHandler handles university catalog requests
type UniversityHandler struct {
	db        *gorm.DB
	catalog   *services.CatalogService
	validator *validation.Validator
}

// NewUniversityHandler creates a new university handler
func NewUniversityHandler(db *gorm.DB, catalog *services.CatalogService) *UniversityHandler {
	return &UniversityHandler{
		db:        db,
		catalog:   catalog,
		validator: validation.NewValidator(),
	}
}

// ListUniversities handles GET /api/v1/universities
// The full catalog is loaded in one read, then the free-text query and
// filter criteria from the query string are applied in memory.
func (h *UniversityHandler) ListUniversities(c *fiber.Ctx) error {
	universities, err := h.catalog.LoadCatalog(c.Context())
	if err != nil {
		if errors.Is(err, services.ErrEmptyCatalog) {
			// Empty catalog is not a failed fetch
			return response.NotFound(c, "No universities found")
		}
		return response.InternalServerError(c, err.Error())
	}

	query := c.Query("search", "")
	criteria := parseCriteria(c)

	filtered := services.FilterUniversities(universities, query, criteria)

	return response.Success(c, filtered)
}

func parseCriteria(c *fiber.Ctx) services.FilterCriteria {
	criteria := services.DefaultFilterCriteria()

	if v := c.Query("min_gpa"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			criteria.MinGPA = f
		}
	}
	if v := c.Query("max_tuition"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			criteria.MaxTuition = n
		}
	}
	if v := c.Query("max_education_gap"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			criteria.MaxEducationGap = n
		}
	}
	if c.Query("scholarship_required") == "true" {
		criteria.ScholarshipRequired = true
	}

	return criteria
}

// GetUniversity handles GET /api/v1/universities/:id
func (h *UniversityHandler) GetUniversity(c *fiber.Ctx) error {
	id := c.Params("id")

	var university model.University
	if err := h.db.Preload("Courses").First(&university, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "University not found")
		}
		return response.InternalServerError(c, "Failed to fetch university")
	}

	return response.Success(c, university)
}

// CreateUniversityRequest represents the request body for creating a university
type CreateUniversityRequest struct {
	Name                 string  `json:"name" validate:"required,min=3,max=255"`
	Location             string  `json:"location" validate:"required,min=2,max=255"`
	Country              string  `json:"country" validate:"omitempty,max=100"`
	TuitionFee           int     `json:"tuition_fee" validate:"gte=0"`
	AcceptanceRate       int     `json:"acceptance_rate" validate:"gte=0,lte=100"`
	ScholarshipAvailable bool    `json:"scholarship_available"`
	MinimumGPA           float64 `json:"minimum_gpa" validate:"gte=0,lte=4"`
	EducationGap         int     `json:"education_gap" validate:"gte=0"`
	Description          string  `json:"description"`
	ImageURL             string  `json:"image_url" validate:"omitempty,url,max=512"`
}

// CreateUniversity handles POST /api/v1/universities (admin only, enforced
// by the route's middleware)
func (h *UniversityHandler) CreateUniversity(c *fiber.Ctx) error {
	var req CreateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	university := model.University{
		Name:                 validation.SanitizeString(req.Name),
		Location:             validation.SanitizeString(req.Location),
		Country:              validation.SanitizeString(req.Country),
		TuitionFee:           req.TuitionFee,
		AcceptanceRate:       req.AcceptanceRate,
		ScholarshipAvailable: req.ScholarshipAvailable,
		MinimumGPA:           req.MinimumGPA,
		EducationGap:         req.EducationGap,
		Description:          req.Description,
		ImageURL:             req.ImageURL,
	}

	if err := h.db.Create(&university).Error; err != nil {
		return response.InternalServerError(c, "Failed to create university")
	}

	h.catalog.InvalidateCatalogCache(c.Context())

	return response.Created(c, university)
}

// UpdateUniversityRequest represents the request body for updating a university
type UpdateUniversityRequest struct {
	Name                 string   `json:"name" validate:"omitempty,min=3,max=255"`
	Location             string   `json:"location" validate:"omitempty,min=2,max=255"`
	Country              string   `json:"country" validate:"omitempty,max=100"`
	TuitionFee           *int     `json:"tuition_fee" validate:"omitempty,gte=0"`
	AcceptanceRate       *int     `json:"acceptance_rate" validate:"omitempty,gte=0,lte=100"`
	ScholarshipAvailable *bool    `json:"scholarship_available"`
	MinimumGPA           *float64 `json:"minimum_gpa" validate:"omitempty,gte=0,lte=4"`
	EducationGap         *int     `json:"education_gap" validate:"omitempty,gte=0"`
	Description          string   `json:"description"`
	ImageURL             string   `json:"image_url" validate:"omitempty,url,max=512"`
}

// UpdateUniversity handles PUT /api/v1/universities/:id (admin only)
func (h *UniversityHandler) UpdateUniversity(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var university model.University
	if err := h.db.First(&university, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "University not found")
		}
		return response.InternalServerError(c, "Failed to fetch university")
	}

	if req.Name != "" {
		university.Name = validation.SanitizeString(req.Name)
	}
	if req.Location != "" {
		university.Location = validation.SanitizeString(req.Location)
	}
	if req.Country != "" {
		university.Country = validation.SanitizeString(req.Country)
	}
	if req.TuitionFee != nil {
		university.TuitionFee = *req.TuitionFee
	}
	if req.AcceptanceRate != nil {
		university.AcceptanceRate = *req.AcceptanceRate
	}
	if req.ScholarshipAvailable != nil {
		university.ScholarshipAvailable = *req.ScholarshipAvailable
	}
	if req.MinimumGPA != nil {
		university.MinimumGPA = *req.MinimumGPA
	}
	if req.EducationGap != nil {
		university.EducationGap = *req.EducationGap
	}
	if req.Description != "" {
		university.Description = req.Description
	}
	if req.ImageURL != "" {
		university.ImageURL = req.ImageURL
	}

	if err := h.db.Save(&university).Error; err != nil {
		return response.InternalServerError(c, "Failed to update university")
	}

	h.catalog.InvalidateCatalogCache(c.Context())

	return response.SuccessWithMessage(c, "University updated successfully", university)
}

// DeleteUniversity handles DELETE /api/v1/universities/:id (admin only).
// Courses are removed with their university.
func (h *UniversityHandler) DeleteUniversity(c *fiber.Ctx) error {
	id := c.Params("id")

	var university model.University
	if err := h.db.First(&university, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "University not found")
		}
		return response.InternalServerError(c, "Failed to fetch university")
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("university_id = ?", id).Delete(&model.Course{}).Error; err != nil {
			return err
		}
		return tx.Delete(&university).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete university: "+err.Error())
	}

	h.catalog.InvalidateCatalogCache(c.Context())

	return response.SuccessWithMessage(c, "University deleted successfully", nil)
}
