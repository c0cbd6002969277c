// Command seed prepares a fresh database: it creates the schema if needed,
// upserts the admin user from the environment and inserts a small set of
// sample colleges, courses and specializations (all tagged is_sample so
// they can be swept later with -cleanup).
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/admitglobal/referral-backend/internal/entity"
	"github.com/admitglobal/referral-backend/internal/infra/database"
)

var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE TABLE IF NOT EXISTS colleges (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		city TEXT NOT NULL,
		country TEXT NOT NULL,
		website TEXT,
		ranking INTEGER,
		acceptance_rate DOUBLE PRECISION,
		description TEXT,
		is_sample BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		college_id TEXT NOT NULL REFERENCES colleges(id) ON DELETE RESTRICT,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		degree_type TEXT,
		duration_months INTEGER,
		tuition_fees DOUBLE PRECISION,
		seats INTEGER,
		status TEXT NOT NULL DEFAULT 'DRAFT',
		is_sample BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS specializations (
		id TEXT PRIMARY KEY,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT,
		placement_rate DOUBLE PRECISION,
		avg_package DOUBLE PRECISION,
		recruiters TEXT[],
		is_sample BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		name TEXT,
		email TEXT NOT NULL UNIQUE,
		phone TEXT,
		country_interest TEXT,
		message TEXT,
		college_id TEXT REFERENCES colleges(id) ON DELETE SET NULL,
		course_id TEXT REFERENCES courses(id) ON DELETE SET NULL,
		specialization_id TEXT REFERENCES specializations(id) ON DELETE SET NULL,
		status TEXT NOT NULL DEFAULT 'NEW',
		priority TEXT NOT NULL DEFAULT 'MEDIUM',
		source TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT,
		password_hash BYTEA NOT NULL,
		role TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func main() {
	cleanup := flag.Bool("cleanup", false, "delete all sample rows and exit")
	flag.Parse()

	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("❌ database unreachable: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if *cleanup {
		runCleanup(ctx, db)
		return
	}

	// 1. Schema
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("❌ schema statement failed: %v", err)
		}
	}
	log.Println("✅ schema ready")

	// 2. Admin user
	seedAdmin(ctx, db)

	// 3. Sample catalog
	seedCatalog(ctx, db)

	log.Println("✅ seed complete")
}

// runCleanup removes the is_sample rows, children first: colleges refuse
// deletion while courses still reference them.
func runCleanup(ctx context.Context, db *sql.DB) {
	collegeRepo := database.NewCollegeRepository(db)

	if _, err := db.ExecContext(ctx, `DELETE FROM specializations WHERE is_sample = TRUE`); err != nil {
		log.Fatalf("❌ cleanup failed: %v", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM courses WHERE is_sample = TRUE`); err != nil {
		log.Fatalf("❌ cleanup failed: %v", err)
	}
	n, err := collegeRepo.DeleteSamples(ctx)
	if err != nil {
		log.Fatalf("❌ cleanup failed: %v", err)
	}
	log.Printf("✅ cleanup done, %d sample colleges removed", n)
}

func seedAdmin(ctx context.Context, db *sql.DB) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Println("⚠️ ADMIN_USERNAME / ADMIN_PASSWORD not set, skipping admin user")
		return
	}

	admin, err := entity.NewAdminUser(username, os.Getenv("ADMIN_EMAIL"), password)
	if err != nil {
		log.Fatalf("❌ admin user rejected: %v", err)
	}

	if err := database.NewAdminUserRepository(db).Create(ctx, admin); err != nil {
		log.Fatalf("❌ admin user insert failed: %v", err)
	}
	log.Printf("✅ admin user %q ready", username)
}

type sampleCollege struct {
	name, city, country, website string
	ranking                      int
	rate                         float64
	courses                      []sampleCourse
}

type sampleCourse struct {
	name, degree    string
	months          int
	tuition         float64
	specializations []string
}

var samples = []sampleCollege{
	{
		name: "Harvard University", city: "Cambridge", country: "USA",
		website: "https://www.harvard.edu", ranking: 1, rate: 4.6,
		courses: []sampleCourse{
			{name: "Master of Business Administration", degree: "MASTER", months: 24, tuition: 73440,
				specializations: []string{"Finance", "Strategy"}},
			{name: "Master of Science in Computer Science", degree: "MASTER", months: 24, tuition: 59968,
				specializations: []string{"Artificial Intelligence"}},
		},
	},
	{
		name: "University of Oxford", city: "Oxford", country: "UK",
		website: "https://www.ox.ac.uk", ranking: 3, rate: 17.5,
		courses: []sampleCourse{
			{name: "MSc in Financial Economics", degree: "MASTER", months: 9, tuition: 48500,
				specializations: []string{"Asset Pricing"}},
		},
	},
	{
		name: "University of Toronto", city: "Toronto", country: "Canada",
		website: "https://www.utoronto.ca", ranking: 21, rate: 43,
		courses: []sampleCourse{
			{name: "Master of Engineering", degree: "MASTER", months: 12, tuition: 29750,
				specializations: []string{"Data Analytics", "Robotics"}},
		},
	},
}

func seedCatalog(ctx context.Context, db *sql.DB) {
	collegeRepo := database.NewCollegeRepository(db)
	courseRepo := database.NewCourseRepository(db)
	specRepo := database.NewSpecializationRepository(db)

	for _, sc := range samples {
		college, err := entity.NewCollege(sc.name, sc.city, sc.country)
		if err != nil {
			log.Fatalf("❌ sample college invalid: %v", err)
		}
		college.Website = sc.website
		college.Ranking = sc.ranking
		college.AcceptanceRate = sc.rate
		college.IsSample = true

		if err := collegeRepo.Create(ctx, college); err != nil {
			if errors.Is(err, entity.ErrDuplicateSlug) {
				log.Printf("⚠️ college %q already seeded, skipping", sc.name)
				continue
			}
			log.Fatalf("❌ sample college insert failed: %v", err)
		}

		for _, cc := range sc.courses {
			course, err := entity.NewCourse(college.ID, cc.name)
			if err != nil {
				log.Fatalf("❌ sample course invalid: %v", err)
			}
			course.DegreeType = cc.degree
			course.DurationMonths = cc.months
			course.TuitionFees = cc.tuition
			course.Status = entity.CourseActive
			course.IsSample = true

			if err := courseRepo.Create(ctx, course); err != nil {
				log.Fatalf("❌ sample course insert failed: %v", err)
			}

			for _, name := range cc.specializations {
				spec, err := entity.NewSpecialization(course.ID, name)
				if err != nil {
					log.Fatalf("❌ sample specialization invalid: %v", err)
				}
				spec.IsSample = true

				if err := specRepo.Create(ctx, spec); err != nil {
					log.Fatalf("❌ sample specialization insert failed: %v", err)
				}
			}
		}

		log.Printf("✅ seeded %q with %d courses", sc.name, len(sc.courses))
	}
}
