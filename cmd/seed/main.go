package main

import (
	"log"

	"github.com/unisearch/api/config"
	"github.com/unisearch/api/database"
	"github.com/unisearch/api/model"
	"gorm.io/gorm"
)

// Seeds the catalog with a small set of universities and courses for local
// development.
func main() {
	if err := config.LoadENV(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	var count int64
	if err := db.Model(&model.University{}).Count(&count).Error; err != nil {
		log.Fatalf("Failed to count universities: %v", err)
	}
	if count > 0 {
		log.Printf("Catalog already has %d universities, nothing to seed", count)
		return
	}

	universities := seedUniversities()
	if err := db.Create(&universities).Error; err != nil {
		log.Fatalf("Failed to seed universities: %v", err)
	}

	log.Printf("Seeded %d universities", len(universities))
}

func seedUniversities() []model.University {
	return []model.University{
		{
			Name:                 "Humboldt University of Berlin",
			Location:             "Berlin",
			Country:              "Germany",
			TuitionFee:           1500,
			AcceptanceRate:       18,
			ScholarshipAvailable: true,
			MinimumGPA:           3.0,
			EducationGap:         2,
			Description:          "One of Berlin's oldest universities, strong in humanities and natural sciences.",
			ImageURL:             "https://images.unisearch.app/humboldt.jpg",
			Courses: []model.Course{
				{
					Name:                "Computer Science",
					Level:               model.CourseLevelBachelors,
					Overview:            "Foundations of computing, algorithms and software engineering.",
					Duration:            "3 years",
					StartAdmission:      "May 1",
					ApplicationDeadline: "July 15",
					TuitionFee:          1500,
				},
				{
					Name:                "Data Science",
					Level:               model.CourseLevelMasters,
					Overview:            "Statistical learning, large-scale data systems and applied machine learning.",
					Duration:            "2 years",
					StartAdmission:      "April 1",
					ApplicationDeadline: "June 30",
					TuitionFee:          1500,
				},
			},
		},
		{
			Name:                 "University of Helsinki",
			Location:             "Helsinki",
			Country:              "Finland",
			TuitionFee:           0,
			AcceptanceRate:       17,
			ScholarshipAvailable: false,
			MinimumGPA:           3.5,
			EducationGap:         5,
			Description:          "Finland's largest university with tuition-free programmes for EU students.",
			ImageURL:             "https://images.unisearch.app/helsinki.jpg",
			Courses: []model.Course{
				{
					Name:                "Mathematics",
					Level:               model.CourseLevelBachelors,
					Overview:            "Pure and applied mathematics with a research-oriented curriculum.",
					Duration:            "3 years",
					StartAdmission:      "March 15",
					ApplicationDeadline: "May 31",
					TuitionFee:          0,
				},
			},
		},
		{
			Name:                 "Charles University",
			Location:             "Prague",
			Country:              "Czech Republic",
			TuitionFee:           4000,
			AcceptanceRate:       40,
			ScholarshipAvailable: true,
			MinimumGPA:           2.5,
			EducationGap:         3,
			Description:          "Central Europe's oldest university, founded in 1348.",
			ImageURL:             "https://images.unisearch.app/charles.jpg",
		},
	}
}
