package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/unisearch/api/model"
	"github.com/unisearch/api/services"
	"github.com/unisearch/api/utils/middleware"
	"github.com/unisearch/api/utils/pdfvalidation"
	"github.com/unisearch/api/utils/response"
	"gorm.io/gorm"
)

// ApplicationHandler handles application submission requests
type ApplicationHandler struct {
	db       *gorm.DB
	service  *services.ApplicationService
	notifier services.Notifier
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(db *gorm.DB, service *services.ApplicationService, notifier services.Notifier) *ApplicationHandler {
	return &ApplicationHandler{
		db:       db,
		service:  service,
		notifier: notifier,
	}
}

var documentLimits = map[model.DocumentType]pdfvalidation.PDFLimits{
	model.DocumentTypeAcademics:             pdfvalidation.TranscriptLimits,
	model.DocumentTypePassport:              pdfvalidation.DefaultLimits,
	model.DocumentTypeCV:                    pdfvalidation.CVLimits,
	model.DocumentTypeRecommendationLetter1: pdfvalidation.LetterLimits,
	model.DocumentTypeRecommendationLetter2: pdfvalidation.LetterLimits,
	model.DocumentTypeExperienceLetter:      pdfvalidation.LetterLimits,
}

// Submit handles POST /api/v1/applications. The body is multipart form data
// carrying course_id, has_english_test and the named document files.
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}
	if user.Profile == nil || user.Profile.FullName == "" {
		return response.BadRequest(c, "Complete your profile before applying")
	}

	courseID, err := strconv.ParseUint(c.FormValue("course_id"), 10, 64)
	if err != nil || courseID == 0 {
		return response.BadRequest(c, "A valid course_id is required")
	}

	// The course carries its university reference
	var course model.Course
	if err := h.db.First(&course, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	hasEnglishTest := c.FormValue("has_english_test") == "true"

	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "Invalid multipart form")
	}

	files, errResp := h.collectFiles(c, form)
	if errResp != nil {
		return errResp
	}

	input := services.SubmissionInput{
		UserID:         user.ID,
		UniversityID:   course.UniversityID,
		CourseID:       uint(courseID),
		Files:          files,
		HasEnglishTest: hasEnglishTest,
	}

	result, err := h.service.Submit(c.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrMissingRequiredDocument) {
			return response.BadRequest(c, err.Error())
		}
		// The failed submission result, when present, tells the caller how
		// far the workflow got; nothing is rolled back.
		var subErr *services.SubmissionError
		if errors.As(err, &subErr) && result != nil {
			return response.ErrorWithDetails(c, fiber.StatusInternalServerError,
				err.Error(), "SUBMISSION_FAILED",
				fmt.Sprintf("application %d failed during %s", result.ApplicationID, result.FailedAt))
		}
		return response.InternalServerError(c, err.Error())
	}

	h.notifySubmitted(user, &course, result)

	return response.Created(c, fiber.Map{
		"application_id":   result.ApplicationID,
		"status":           model.ApplicationStatusPending,
		"documents":        result.Documents,
		"dismiss_after_ms": result.DismissAfter.Milliseconds(),
	})
}

// collectFiles reads and validates every attached document field. Validation
// failures reject the submission before any side effect.
func (h *ApplicationHandler) collectFiles(c *fiber.Ctx, form *multipart.Form) (map[model.DocumentType]services.DocumentFile, error) {
	fields := append(append([]model.DocumentType{}, services.RequiredDocumentFields...), services.OptionalDocumentFields...)

	files := make(map[model.DocumentType]services.DocumentFile)
	for _, field := range fields {
		headers := form.File[string(field)]
		if len(headers) == 0 {
			continue
		}
		header := headers[0]

		limits, ok := documentLimits[field]
		if !ok {
			limits = pdfvalidation.DefaultLimits
		}

		validated, err := pdfvalidation.ValidatePDFFile(header, limits)
		if err != nil {
			return nil, response.InternalServerError(c, "Failed to read "+string(field))
		}
		if !validated.Valid {
			return nil, response.BadRequest(c, string(field)+": "+validated.Error)
		}

		content, err := readFile(header)
		if err != nil {
			return nil, response.InternalServerError(c, "Failed to read "+string(field))
		}

		files[field] = services.DocumentFile{
			Content:     content,
			ContentType: "application/pdf",
		}
	}

	return files, nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// notifySubmitted forwards the submission to the notification relay.
// Best effort: a relay failure never fails a submission that already
// persisted.
func (h *ApplicationHandler) notifySubmitted(user *model.User, course *model.Course, result *services.SubmissionResult) {
	if h.notifier == nil {
		return
	}

	var university model.University
	universityName := ""
	if err := h.db.First(&university, course.UniversityID).Error; err == nil {
		universityName = university.Name
	}

	docs := make([]services.SubmissionDocument, 0, len(result.Documents))
	for _, d := range result.Documents {
		docs = append(docs, services.SubmissionDocument{
			DocumentType: string(d.DocumentType),
			FilePath:     d.FilePath,
		})
	}

	event := services.SubmissionEvent{
		UserID:        user.ID,
		FullName:      user.Profile.FullName,
		Email:         user.Email,
		Course:        course.Name,
		University:    universityName,
		ApplicationID: result.ApplicationID,
		Documents:     docs,
	}

	go services.NotifySubmitted(context.Background(), h.notifier, event)
}

// ListMine handles GET /api/v1/applications: the caller's submissions with
// their documents.
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var applications []model.Application
	if err := h.db.Preload("Documents").
		Preload("University").
		Preload("Course").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Success(c, applications)
}

// ListAll handles GET /api/v1/admin/applications: every submission with its
// documents, for review.
func (h *ApplicationHandler) ListAll(c *fiber.Ctx) error {
	var applications []model.Application
	if err := h.db.Preload("Documents").
		Preload("University").
		Preload("Course").
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Success(c, applications)
}

// GetApplication handles GET /api/v1/applications/:id
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	id := c.Params("id")

	var application model.Application
	query := h.db.Preload("Documents").Preload("University").Preload("Course")
	if user.Role != "admin" {
		query = query.Where("user_id = ?", user.ID)
	}
	if err := query.First(&application, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	return response.Success(c, application)
}
