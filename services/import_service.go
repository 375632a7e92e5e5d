package services

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/unisearch/api/model"
	"gorm.io/datatypes"
)

// ErrMissingColumns is returned when the CSV header lacks required columns.
var ErrMissingColumns = errors.New("CSV header is missing required columns")

// importColumns are the named columns a university import file must provide.
var importColumns = []string{
	"name",
	"location",
	"tuition_fee",
	"acceptance_rate",
	"scholarship_available",
	"minimum_gpa",
	"education_gap",
	"description",
	"image_url",
}

// RowError describes why one CSV row was rejected.
type RowError struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportSummary aggregates the outcome of one bulk import.
type ImportSummary struct {
	Inserted int        `json:"inserted"`
	Rejected int        `json:"rejected"`
	Errors   []RowError `json:"errors,omitempty"`
}

// ImportStore is the storage surface the import workflow depends on.
type ImportStore interface {
	InsertUniversities(universities []model.University) error
	CreateImportLog(log *model.ImportLog) error
}

// ImportService parses a university CSV, validates each row, and inserts the
// accepted rows in one batch. A CSV parse error aborts the whole import
// before any insert; a bad value inside a row rejects that row only.
type ImportService struct {
	store ImportStore
}

// NewImportService creates a new import service
func NewImportService(store ImportStore) *ImportService {
	return &ImportService{store: store}
}

// ImportCSV runs the bulk import. Returns the summary on success, or an
// error when parsing or the batch insert fails (in which case nothing was
// inserted).
func (s *ImportService) ImportCSV(r io.Reader, adminID uint, filename string) (*ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	var universities []model.University

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Parse-level failure aborts the whole file
			return nil, fmt.Errorf("failed to parse CSV at line %d: %w", line, err)
		}

		if isEmptyRow(record) {
			continue
		}

		university, rowErr := coerceRow(record, columns, line)
		if rowErr != nil {
			summary.Rejected++
			summary.Errors = append(summary.Errors, *rowErr)
			continue
		}

		universities = append(universities, *university)
	}

	if len(universities) > 0 {
		if err := s.store.InsertUniversities(universities); err != nil {
			return nil, fmt.Errorf("failed to insert universities: %w", err)
		}
	}
	summary.Inserted = len(universities)

	s.recordImportLog(adminID, filename, summary)

	return summary, nil
}

// recordImportLog persists an audit row for the import. Best effort: a
// logging failure does not fail an import that already inserted its rows.
func (s *ImportService) recordImportLog(adminID uint, filename string, summary *ImportSummary) {
	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}

	s.store.CreateImportLog(&model.ImportLog{
		AdminID:  adminID,
		Filename: filename,
		Inserted: summary.Inserted,
		Rejected: summary.Rejected,
		Summary:  datatypes.JSON(payload),
	})
}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, required := range importColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return columns, nil
}

func isEmptyRow(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// coerceRow converts one CSV record into a University or a typed rejection.
func coerceRow(record []string, columns map[string]int, line int) (*model.University, *RowError) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := field("name")
	if name == "" {
		return nil, &RowError{Line: line, Field: "name", Message: "name is required"}
	}

	tuitionFee, err := strconv.Atoi(field("tuition_fee"))
	if err != nil {
		return nil, &RowError{Line: line, Field: "tuition_fee", Message: "not a valid integer"}
	}

	acceptanceRate, err := strconv.Atoi(field("acceptance_rate"))
	if err != nil {
		return nil, &RowError{Line: line, Field: "acceptance_rate", Message: "not a valid integer"}
	}

	minimumGPA, err := strconv.ParseFloat(field("minimum_gpa"), 64)
	if err != nil {
		return nil, &RowError{Line: line, Field: "minimum_gpa", Message: "not a valid number"}
	}

	educationGap, err := strconv.Atoi(field("education_gap"))
	if err != nil {
		return nil, &RowError{Line: line, Field: "education_gap", Message: "not a valid integer"}
	}

	// Only the literal "true" (any casing) enables the flag
	scholarship := strings.EqualFold(field("scholarship_available"), "true")

	return &model.University{
		Name:                 name,
		Location:             field("location"),
		TuitionFee:           tuitionFee,
		AcceptanceRate:       acceptanceRate,
		ScholarshipAvailable: scholarship,
		MinimumGPA:           minimumGPA,
		EducationGap:         educationGap,
		Description:          field("description"),
		ImageURL:             field("image_url"),
	}, nil
}
