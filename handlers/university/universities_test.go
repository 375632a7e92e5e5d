package university

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unisearch/api/model"
	"github.com/unisearch/api/services"
)

type stubCatalogStore struct {
	universities []model.University
	err          error
}

func (s *stubCatalogStore) ListUniversitiesWithCourses() ([]model.University, error) {
	return s.universities, s.err
}

func listApp(store *stubCatalogStore) *fiber.App {
	catalog := services.NewCatalogService(store, nil)
	handler := NewUniversityHandler(nil, catalog)

	app := fiber.New()
	app.Get("/api/v1/universities", handler.ListUniversities)
	return app
}

type listResponse struct {
	Success bool               `json:"success"`
	Data    []model.University `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doList(t *testing.T, app *fiber.App, url string) (*http.Response, listResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, url, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body listResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestListUniversities_ReturnsCatalogWithCounts(t *testing.T) {
	store := &stubCatalogStore{
		universities: []model.University{
			{
				Name:     "Humboldt University",
				Location: "Berlin",
				Courses: []model.Course{
					{Name: "CS", Level: model.CourseLevelBachelors},
					{Name: "DS", Level: model.CourseLevelMasters},
				},
			},
		},
	}

	resp, body := doList(t, listApp(store), "/api/v1/universities")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.Equal(t, 1, body.Data[0].BachelorsCount)
	assert.Equal(t, 1, body.Data[0].MastersCount)
}

func TestListUniversities_AppliesQueryAndFilters(t *testing.T) {
	store := &stubCatalogStore{
		universities: []model.University{
			{Name: "Humboldt University", Location: "Berlin", TuitionFee: 1500, MinimumGPA: 3.0, ScholarshipAvailable: true},
			{Name: "Technical University of Berlin", Location: "Berlin", TuitionFee: 9000, MinimumGPA: 3.2},
			{Name: "University of Helsinki", Location: "Helsinki", TuitionFee: 0, MinimumGPA: 3.5},
		},
	}

	resp, body := doList(t, listApp(store), "/api/v1/universities?search=berlin&max_tuition=2000&scholarship_required=true")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Humboldt University", body.Data[0].Name)
}

func TestListUniversities_EmptyCatalogIs404(t *testing.T) {
	store := &stubCatalogStore{universities: []model.University{}}

	resp, body := doList(t, listApp(store), "/api/v1/universities")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestListUniversities_StorageErrorIs500(t *testing.T) {
	store := &stubCatalogStore{err: errors.New("connection refused")}

	resp, body := doList(t, listApp(store), "/api/v1/universities")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.NotNil(t, body.Error)
	assert.Equal(t, "connection refused", body.Error.Message)
}
