package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/unisearch/api/model"
	"github.com/unisearch/api/services"
	"gorm.io/gorm"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron    *cron.Cron
	db      *gorm.DB
	catalog *services.CatalogService
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, catalog *services.CatalogService) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:    c,
		db:      db,
		catalog: catalog,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Every 10 minutes: refresh the cached university catalog
	_, err := m.cron.AddFunc("0 */10 * * * *", func() {
		m.logJobStart("refresh_catalog_cache")
		m.RefreshCatalogCache()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// RefreshCatalogCache reloads the university catalog into the Redis cache so
// browsing traffic keeps hitting a warm copy.
func (m *CronManager) RefreshCatalogCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	jobName := "refresh_catalog_cache"

	count, err := m.catalog.RefreshCatalogCache(ctx)
	if err != nil {
		if err == services.ErrEmptyCatalog {
			m.logJobComplete(jobName, "Catalog is empty, nothing to cache")
			return
		}
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Cached %d universities", count))
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))

	cronLog := model.CronJobLog{
		JobName:   jobName,
		Status:    "running",
		StartedAt: time.Now(),
	}
	m.db.Create(&cronLog)
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(jobName string, message string) {
	log.Printf("[CRON] Completed job: %s - %s", jobName, message)

	now := time.Now()
	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":      "completed",
			"finished_at": now,
			"message":     message,
		})
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(jobName string, err error) {
	log.Printf("[CRON] Error in job: %s - %v", jobName, err)

	now := time.Now()
	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":      "failed",
			"finished_at": now,
			"message":     err.Error(),
		})
}
