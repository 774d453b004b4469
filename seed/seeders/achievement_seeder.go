package seeders

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rebooto/rebooto_api/model"
	"gorm.io/gorm"
)

// AchievementSeeder populates the XP-threshold achievement catalog
type AchievementSeeder struct {
	db *gorm.DB
}

// NewAchievementSeeder creates a new achievement seeder
func NewAchievementSeeder(db *gorm.DB) *AchievementSeeder {
	return &AchievementSeeder{db: db}
}

// SeedAchievements creates the default achievements, skipping ones that exist
func (s *AchievementSeeder) SeedAchievements() error {
	achievements := []model.Achievement{
		{
			Name:        "First Boot",
			Description: "Earn your first XP by completing a lesson",
			BadgeURL:    "/assets/badges/first_boot.png",
			XPRequired:  100,
		},
		{
			Name:        "Help Desk Hero",
			Description: "Reach 500 XP",
			BadgeURL:    "/assets/badges/help_desk_hero.png",
			XPRequired:  500,
		},
		{
			Name:        "Ticket Slayer",
			Description: "Reach 1000 XP",
			BadgeURL:    "/assets/badges/ticket_slayer.png",
			XPRequired:  1000,
		},
		{
			Name:        "Sysadmin in Training",
			Description: "Reach 2500 XP",
			BadgeURL:    "/assets/badges/sysadmin_in_training.png",
			XPRequired:  2500,
		},
		{
			Name:        "IT Legend",
			Description: "Reach 5000 XP",
			BadgeURL:    "/assets/badges/it_legend.png",
			XPRequired:  5000,
		},
	}

	for _, achievement := range achievements {
		var existing model.Achievement
		if err := s.db.Where("name = ?", achievement.Name).First(&existing).Error; err == nil {
			log.Printf("Achievement %q already exists, skipping", achievement.Name)
			continue
		}

		id, _ := uuid.NewV7()
		achievement.ID = id.String()
		achievement.IsActive = true
		achievement.CreatedAt = time.Now()
		achievement.UpdatedAt = time.Now()

		if err := s.db.Create(&achievement).Error; err != nil {
			log.Printf("Error creating achievement %q: %v", achievement.Name, err)
			return err
		}

		log.Printf("Created achievement: %s (%d XP)", achievement.Name, achievement.XPRequired)
	}

	return nil
}
