package app

import (
	"fmt"
	"log"
	"os"

	"github.com/unisearch/api/api"
	"github.com/unisearch/api/config"
	"github.com/unisearch/api/database"
	"github.com/unisearch/api/router"
	"github.com/unisearch/api/services"
	"github.com/unisearch/api/services/cron"
	"github.com/unisearch/api/utils/cache"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return fmt.Errorf("failed to get GORM DB instance")
	}

	// Shared Redis cache (optional)
	var redisCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v", err)
			redisCache = nil
		}
	}

	catalogService := services.NewCatalogService(store, redisCache)

	// Background catalog cache refresh (only if enabled)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" && redisCache != nil { // Default to enabled
		cronManager = cron.NewCronManager(db, catalogService)
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: Failed to start cron jobs: %v", err)
			// Don't fail the app, just log the warning
		}
	}

	// Defer closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (security middleware is attached inside)
	router.SetupRoutes(app, store, router.Dependencies{
		Cache:   redisCache,
		Catalog: catalogService,
	})

	// Start the server
	return server.Run()
}
