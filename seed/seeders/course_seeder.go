package seeders

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rebooto/rebooto_api/model"
	"github.com/rebooto/rebooto_api/shared"
	"gorm.io/gorm"
)

// CourseSeeder populates starter courses and lessons
type CourseSeeder struct {
	db *gorm.DB
}

// NewCourseSeeder creates a new course seeder
func NewCourseSeeder(db *gorm.DB) *CourseSeeder {
	return &CourseSeeder{db: db}
}

type seedLesson struct {
	Title       string
	Description string
	XPReward    int
	Blocks      []model.ContentBlock
}

// SeedCourses creates the starter catalog, skipping courses that exist
func (s *CourseSeeder) SeedCourses() error {
	var existing model.Course
	if err := s.db.Where("title = ?", "IT Support Fundamentals").First(&existing).Error; err == nil {
		log.Println("Starter course already exists, skipping course seeding")
		return nil
	}

	courseID, _ := uuid.NewV7()
	course := model.Course{
		ID:          courseID.String(),
		Title:       "IT Support Fundamentals",
		Description: "Learn the basics of help desk work, from tickets to troubleshooting.",
		Category:    "fundamentals",
		Difficulty:  shared.DifficultyEasy,
		OrderIndex:  1,
		IsPublished: true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.db.Create(&course).Error; err != nil {
		log.Printf("Error creating starter course: %v", err)
		return err
	}

	lessons := []seedLesson{
		{
			Title:       "Have You Tried Turning It Off and On Again?",
			Description: "Why a reboot fixes more than it should, and when it doesn't.",
			XPReward:    100,
			Blocks: []model.ContentBlock{
				{
					Type:    shared.BlockTypeText,
					Title:   "The first question",
					Content: "A reboot clears transient state. Leaked memory, stuck processes and half-applied updates all go away when the machine starts fresh. That is why it is the first question, not the last.",
				},
				{
					Type:    shared.BlockTypeScenario,
					Title:   "Monday morning",
					Content: "A user reports their laptop is slow and the fan is loud. Task manager shows a browser with ninety tabs and an update pending since last week. You ask them to save their work and restart.",
				},
				{
					Type:          shared.BlockTypeQuiz,
					Question:      "What does a reboot primarily clear?",
					Options:       []string{"Saved files", "Transient state", "Installed programs", "The BIOS"},
					CorrectAnswer: 1,
					Explanation:   "Rebooting resets memory and running processes. Files and installed software are untouched.",
					Difficulty:    shared.DifficultyEasy,
				},
			},
		},
		{
			Title:       "Reading a Ticket Properly",
			Description: "Extracting what the user actually needs from what they wrote.",
			XPReward:    100,
			Blocks: []model.ContentBlock{
				{
					Type:    shared.BlockTypeText,
					Title:   "Symptoms versus requests",
					Content: "Users describe symptoms, rarely causes. The ticket says the printer is broken; the cause might be a driver, a queue, the network or the printer. Your first job is to separate what happened from what the user concluded.",
				},
				{
					Type:          shared.BlockTypeQuiz,
					Question:      "A ticket says \"email is down\". What should you establish first?",
					Options:       []string{"Restart the mail server", "Whether other users are affected", "Reinstall the mail client", "Escalate immediately"},
					CorrectAnswer: 1,
					Explanation:   "Scope determines severity. One affected user points at the client or account; many point at the service.",
					Difficulty:    shared.DifficultyMedium,
				},
				{
					Type:          shared.BlockTypeQuiz,
					Question:      "Which detail matters most in a ticket about an intermittent fault?",
					Options:       []string{"The user's department", "When it last happened and what changed", "The asset tag", "The ticket priority"},
					CorrectAnswer: 1,
					Explanation:   "Intermittent faults are correlated with events. Timing and recent changes narrow the search space fastest.",
					Difficulty:    shared.DifficultyMedium,
				},
			},
		},
	}

	for i, sl := range lessons {
		content, err := json.Marshal(sl.Blocks)
		if err != nil {
			return err
		}

		lessonID, _ := uuid.NewV7()
		lesson := model.Lesson{
			ID:          lessonID.String(),
			CourseID:    course.ID,
			Title:       sl.Title,
			Description: sl.Description,
			OrderIndex:  i + 1,
			XPReward:    sl.XPReward,
			Content:     content,
			IsPublished: true,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if err := s.db.Create(&lesson).Error; err != nil {
			log.Printf("Error creating lesson %q: %v", sl.Title, err)
			return err
		}

		log.Printf("Created lesson: %s", sl.Title)
	}

	log.Printf("Created starter course: %s", course.Title)
	return nil
}
