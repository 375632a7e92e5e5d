package database

import (
	"fmt"
	"log"
	"time"

	"github.com/unisearch/api/config"
	"github.com/unisearch/api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is the persistence surface the rest of the app depends on
type Storage interface {
	Init() error
	Close() error
	HealthCheck() error
	GetDB() interface{}
}

type GORMStore struct {
	db *gorm.DB
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	// Build DSN (Data Source Name)
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv.DB_HOST,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_PORT,
		getEnv.DB_SSL_MODE,
	)

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if getEnv.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: false,
		PrepareStmt:            true,
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL with GORM:", err)
		return nil, err
	}

	// Get underlying *sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL Database with GORM.")

	return &GORMStore{db: db}, nil
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Println("Running GORM AutoMigrate for all models...")

	err := s.db.AutoMigrate(
		// Identity models
		&model.User{},
		&model.Profile{},

		// Catalog models
		&model.University{},
		&model.Course{},

		// Application models
		&model.Application{},
		&model.ApplicationDocument{},

		// Audit & logging models
		&model.ImportLog{},
		&model.CronJobLog{},
	)

	if err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing GORM PostgreSQL connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in handlers and services
func (s *GORMStore) GetDB() interface{} {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// ListUniversitiesWithCourses fetches the full catalog in one logical read
func (s *GORMStore) ListUniversitiesWithCourses() ([]model.University, error) {
	var universities []model.University
	result := s.db.Preload("Courses").Order("id").Find(&universities)
	return universities, result.Error
}

// InsertUniversities inserts a batch of universities in one statement
func (s *GORMStore) InsertUniversities(universities []model.University) error {
	if len(universities) == 0 {
		return nil
	}
	result := s.db.Create(&universities)
	return result.Error
}

// CreateApplication inserts one application record
func (s *GORMStore) CreateApplication(app *model.Application) error {
	result := s.db.Create(app)
	return result.Error
}

// CreateApplicationDocuments inserts all staged document rows in one batch
func (s *GORMStore) CreateApplicationDocuments(docs []model.ApplicationDocument) error {
	if len(docs) == 0 {
		return nil
	}
	result := s.db.Create(&docs)
	return result.Error
}

// CreateImportLog records an audit row for a bulk import
func (s *GORMStore) CreateImportLog(importLog *model.ImportLog) error {
	result := s.db.Create(importLog)
	return result.Error
}

// CreateCronJobLog records one background job run
func (s *GORMStore) CreateCronJobLog(jobLog *model.CronJobLog) error {
	result := s.db.Create(jobLog)
	return result.Error
}
