package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/unisearch/api/model"
	"github.com/unisearch/api/utils/cache"
)

// ErrEmptyCatalog is returned when the catalog read succeeds but contains no
// universities. Callers use it to distinguish an empty catalog from a failed
// fetch.
var ErrEmptyCatalog = errors.New("no universities found")

const (
	catalogCacheKey = "catalog:universities"
	catalogCacheTTL = 10 * time.Minute
)

// CatalogStore is the storage surface the catalog service depends on.
type CatalogStore interface {
	ListUniversitiesWithCourses() ([]model.University, error)
}

// CatalogService loads the university catalog with nested courses and keeps a
// short-lived cached copy in Redis.
type CatalogService struct {
	store CatalogStore
	cache *cache.RedisCache // optional, nil disables caching
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store CatalogStore, redisCache *cache.RedisCache) *CatalogService {
	return &CatalogService{
		store: store,
		cache: redisCache,
	}
}

// LoadCatalog returns all universities with their courses and derived course
// counts. Returns ErrEmptyCatalog when the store holds no universities.
func (s *CatalogService) LoadCatalog(ctx context.Context) ([]model.University, error) {
	if s.cache != nil {
		var cached []model.University
		if err := s.cache.GetJSON(ctx, catalogCacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	universities, err := s.fetchCatalog()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, catalogCacheKey, universities, catalogCacheTTL); err != nil {
			log.Printf("Failed to cache catalog: %v", err)
		}
	}

	return universities, nil
}

// RefreshCatalogCache reloads the catalog from storage and replaces the
// cached copy. Used by the background refresh job.
func (s *CatalogService) RefreshCatalogCache(ctx context.Context) (int, error) {
	universities, err := s.fetchCatalog()
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, catalogCacheKey, universities, catalogCacheTTL); err != nil {
			return 0, err
		}
	}

	return len(universities), nil
}

// InvalidateCatalogCache drops the cached catalog, forcing the next load to
// hit storage. Called after imports and admin writes.
func (s *CatalogService) InvalidateCatalogCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		log.Printf("Failed to invalidate catalog cache: %v", err)
	}
}

func (s *CatalogService) fetchCatalog() ([]model.University, error) {
	universities, err := s.store.ListUniversitiesWithCourses()
	if err != nil {
		return nil, err
	}

	if len(universities) == 0 {
		return nil, ErrEmptyCatalog
	}

	for i := range universities {
		attachCourseCounts(&universities[i])
	}

	return universities, nil
}

// attachCourseCounts fills the derived per-level course counts.
func attachCourseCounts(u *model.University) {
	bachelors, masters := 0, 0
	for _, c := range u.Courses {
		switch c.Level {
		case model.CourseLevelBachelors:
			bachelors++
		case model.CourseLevelMasters:
			masters++
		}
	}
	u.BachelorsCount = bachelors
	u.MastersCount = masters
}
