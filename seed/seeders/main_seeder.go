package seeders

import (
	"log"

	"github.com/rebooto/rebooto_api/model"
	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.migrate(); err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	// 1. Admin account first so authored content has an owner
	adminSeeder := NewAdminSeeder(s.db)
	if err := adminSeeder.SeedAdmin(); err != nil {
		log.Printf("Admin seeding failed: %v", err)
		return err
	}

	// 2. Achievement catalog (no dependencies)
	achievementSeeder := NewAchievementSeeder(s.db)
	if err := achievementSeeder.SeedAchievements(); err != nil {
		log.Printf("Achievement seeding failed: %v", err)
		return err
	}

	// 3. Starter courses and lessons
	courseSeeder := NewCourseSeeder(s.db)
	if err := courseSeeder.SeedCourses(); err != nil {
		log.Printf("Course seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) migrate() error {
	return s.db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Lesson{},
		&model.UserProgress{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.BlogPost{},
		&model.SupportTicket{},
		&model.EmailCampaign{},
		&model.MediaAsset{},
	)
}

// SeedAdminOnly seeds only the admin account
func (s *MainSeeder) SeedAdminOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	adminSeeder := NewAdminSeeder(s.db)
	return adminSeeder.SeedAdmin()
}

// SeedAchievementsOnly seeds only the achievement catalog
func (s *MainSeeder) SeedAchievementsOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	achievementSeeder := NewAchievementSeeder(s.db)
	return achievementSeeder.SeedAchievements()
}

// SeedCoursesOnly seeds only the starter courses
func (s *MainSeeder) SeedCoursesOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	courseSeeder := NewCourseSeeder(s.db)
	return courseSeeder.SeedCourses()
}
