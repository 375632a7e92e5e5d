package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/unisearch/api/config"
	"github.com/unisearch/api/database"
	"github.com/unisearch/api/handlers"
	admin_handlers "github.com/unisearch/api/handlers/admin"
	application_handlers "github.com/unisearch/api/handlers/application"
	auth_handlers "github.com/unisearch/api/handlers/auth"
	university_handlers "github.com/unisearch/api/handlers/university"
	"github.com/unisearch/api/services"
	"github.com/unisearch/api/services/spaces"
	"github.com/unisearch/api/utils/auth"
	"github.com/unisearch/api/utils/cache"
	"github.com/unisearch/api/utils/middleware"
	"gorm.io/gorm"
)

// Dependencies carries the shared services the routes are wired with. Fields
// left nil are built from configuration.
type Dependencies struct {
	Cache    *cache.RedisCache
	Storage  services.ObjectStorage
	Notifier services.Notifier
	Catalog  *services.CatalogService
}

func SetupRoutes(app *fiber.App, store database.Storage, deps Dependencies) {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to load configuration")
	}

	jwtSecret := getEnv.JWT_SECRET
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := getEnv.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "unisearch-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	gormStore, ok := store.(*database.GORMStore)
	if !ok {
		log.Fatal("Unexpected store implementation")
	}

	// Redis cache backs brute force protection and the catalog cache
	redisCache := deps.Cache
	if redisCache == nil {
		redisURL := getEnv.REDIS_URL
		if redisURL == "" {
			redisURL = "redis://localhost:6379/0"
		}
		redisCache, err = cache.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection and catalog caching will be disabled.", err)
			redisCache = nil
		}
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)

	// Catalog service with the Redis read-through cache
	catalogService := deps.Catalog
	if catalogService == nil {
		catalogService = services.NewCatalogService(gormStore, redisCache)
	}
	universityHandler := university_handlers.NewUniversityHandler(db, catalogService)

	// Object storage for application documents
	objectStorage := deps.Storage
	if objectStorage == nil {
		spacesClient, err := spaces.NewSpacesClient(spaces.SpacesConfig{
			AccessKey: getEnv.SPACES_ACCESS_KEY,
			SecretKey: getEnv.SPACES_SECRET_KEY,
			Bucket:    getEnv.SPACES_BUCKET,
			Region:    getEnv.SPACES_REGION,
			Endpoint:  getEnv.SPACES_ENDPOINT,
		})
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		objectStorage = spacesClient
	}

	// Notification relay client (optional)
	notifier := deps.Notifier
	if notifier == nil && getEnv.RELAY_URL != "" {
		notifier = services.NewRelayClient(getEnv.RELAY_URL)
	}

	applicationService := services.NewApplicationService(gormStore, objectStorage)
	applicationHandler := application_handlers.NewApplicationHandler(db, applicationService, notifier)

	importService := services.NewImportService(gormStore)
	importHandler := admin_handlers.NewImportHandler(importService, catalogService)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.Refresh)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Get("/me", authMiddleware.Required(), authHandler.Me)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Universities routes
	universities := api.Group("/universities")
	universities.Get("/", universityHandler.ListUniversities)                                      // Public: catalog with search and filters
	universities.Get("/:id", universityHandler.GetUniversity)                                      // Public: one university with courses
	universities.Post("/", authMiddleware.RequireAdmin(), universityHandler.CreateUniversity)      // Admin only
	universities.Put("/:id", authMiddleware.RequireAdmin(), universityHandler.UpdateUniversity)    // Admin only
	universities.Delete("/:id", authMiddleware.RequireAdmin(), universityHandler.DeleteUniversity) // Admin only

	// Courses routes
	courses := api.Group("/courses")
	courses.Get("/:id", universityHandler.GetCourse)                                      // Public
	courses.Post("/", authMiddleware.RequireAdmin(), universityHandler.CreateCourse)      // Admin only
	courses.Delete("/:id", authMiddleware.RequireAdmin(), universityHandler.DeleteCourse) // Admin only

	// Application routes (protected)
	applications := api.Group("/applications", authMiddleware.Required())
	applications.Post("/", applicationHandler.Submit)
	applications.Get("/", applicationHandler.ListMine)
	applications.Get("/:id", applicationHandler.GetApplication)

	// Admin routes
	adminGroup := api.Group("/admin", authMiddleware.RequireAdmin())
	adminGroup.Post("/universities/import", importHandler.ImportUniversities)
	adminGroup.Get("/applications", applicationHandler.ListAll)
}
