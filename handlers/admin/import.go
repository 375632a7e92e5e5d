package admin

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/unisearch/api/services"
	"github.com/unisearch/api/utils/middleware"
	"github.com/unisearch/api/utils/response"
)

// ImportHandler handles bulk university imports
type ImportHandler struct {
	importer *services.ImportService
	catalog  *services.CatalogService
}

// NewImportHandler creates a new import handler
func NewImportHandler(importer *services.ImportService, catalog *services.CatalogService) *ImportHandler {
	return &ImportHandler{
		importer: importer,
		catalog:  catalog,
	}
}

// ImportUniversities handles POST /api/v1/admin/universities/import.
// Accepts a CSV file upload; anything else is rejected before parsing.
func (h *ImportHandler) ImportUniversities(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	header, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "A CSV file is required")
	}

	if strings.ToLower(filepath.Ext(header.Filename)) != ".csv" {
		return response.BadRequest(c, "Only CSV files are supported")
	}

	file, err := header.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to open uploaded file")
	}
	defer file.Close()

	summary, err := h.importer.ImportCSV(file, user.ID, header.Filename)
	if err != nil {
		if errors.Is(err, services.ErrMissingColumns) {
			return response.BadRequest(c, err.Error())
		}
		// Parse failures and insert failures both abort the whole file
		return response.InternalServerError(c, err.Error())
	}

	h.catalog.InvalidateCatalogCache(c.Context())

	return response.SuccessWithMessage(c, "Import completed", summary)
}
