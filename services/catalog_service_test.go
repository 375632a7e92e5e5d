package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unisearch/api/model"
)

type stubCatalogStore struct {
	universities []model.University
	err          error
	calls        int
}

func (s *stubCatalogStore) ListUniversitiesWithCourses() ([]model.University, error) {
	s.calls++
	return s.universities, s.err
}

func TestLoadCatalog_AttachesCourseCounts(t *testing.T) {
	store := &stubCatalogStore{
		universities: []model.University{
			{
				Name: "Humboldt University",
				Courses: []model.Course{
					{Name: "Computer Science", Level: model.CourseLevelBachelors},
					{Name: "Mathematics", Level: model.CourseLevelBachelors},
					{Name: "Data Science", Level: model.CourseLevelMasters},
				},
			},
			{Name: "Empty University"},
		},
	}

	svc := NewCatalogService(store, nil)
	catalog, err := svc.LoadCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	assert.Equal(t, 2, catalog[0].BachelorsCount)
	assert.Equal(t, 1, catalog[0].MastersCount)

	// A university with zero courses gets zero counts, not an error
	assert.Equal(t, 0, catalog[1].BachelorsCount)
	assert.Equal(t, 0, catalog[1].MastersCount)
}

func TestLoadCatalog_EmptyCatalogIsDistinctFromError(t *testing.T) {
	store := &stubCatalogStore{universities: []model.University{}}

	svc := NewCatalogService(store, nil)
	catalog, err := svc.LoadCatalog(context.Background())

	assert.Nil(t, catalog)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestLoadCatalog_StorageErrorSurfacedUnmodified(t *testing.T) {
	storeErr := errors.New("connection refused")
	store := &stubCatalogStore{err: storeErr}

	svc := NewCatalogService(store, nil)
	catalog, err := svc.LoadCatalog(context.Background())

	assert.Nil(t, catalog)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrEmptyCatalog)
}

func TestRefreshCatalogCache_ReturnsCount(t *testing.T) {
	store := &stubCatalogStore{
		universities: []model.University{{Name: "A"}, {Name: "B"}},
	}

	svc := NewCatalogService(store, nil)
	count, err := svc.RefreshCatalogCache(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
