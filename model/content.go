// model/content.go
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rebooto/rebooto_api/shared"
)

// Course groups an ordered set of lessons
type Course struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"` // easy, medium, hard
	ImageURL    string    `json:"image_url"`
	OrderIndex  int       `json:"order_index" gorm:"default:0"`
	IsPublished bool      `json:"is_published" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Lesson is an ordered sequence of content blocks within a course
type Lesson struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	CourseID    string          `json:"course_id" gorm:"not null;index"`
	Title       string          `json:"title" gorm:"not null"`
	Description string          `json:"description" gorm:"type:text"`
	OrderIndex  int             `json:"order_index" gorm:"not null"` // Lesson order within course
	Content     json.RawMessage `json:"content" gorm:"type:text"`    // JSON array of content blocks
	XPReward    int             `json:"xp_reward" gorm:"default:100"`
	IsPublished bool            `json:"is_published" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relationship
	Course Course `json:"course" gorm:"foreignKey:CourseID"`
}

// ContentBlock is one unit of lesson content. The Type tag selects the
// variant: text and scenario are passive prose, quiz is interactive.
type ContentBlock struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Title   string `json:"title,omitempty"`

	// Quiz fields
	Question      string   `json:"question,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
}

func (b ContentBlock) IsQuiz() bool {
	return b.Type == shared.BlockTypeQuiz
}

// ParseContent decodes a lesson content payload and enforces the block
// schema: a non-empty sequence, known tags only, and for quiz blocks an
// options list of 2-5 entries with correctAnswer inside its bounds.
// Playback assumes content that passed this check.
func ParseContent(raw json.RawMessage) ([]ContentBlock, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("lesson content is empty")
	}

	var blocks []ContentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil, fmt.Errorf("failed to parse lesson content: %w", err)
	}

	if err := ValidateContent(blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// ValidateContent applies the authoring-time integrity rules to a parsed
// block sequence.
func ValidateContent(blocks []ContentBlock) error {
	if len(blocks) == 0 {
		return fmt.Errorf("lesson must contain at least one content block")
	}

	for i, block := range blocks {
		switch block.Type {
		case shared.BlockTypeText:
			if block.Content == "" {
				return fmt.Errorf("block %d: text block requires content", i)
			}
		case shared.BlockTypeScenario:
			if block.Content == "" {
				return fmt.Errorf("block %d: scenario block requires content", i)
			}
		case shared.BlockTypeQuiz:
			if block.Question == "" {
				return fmt.Errorf("block %d: quiz block requires a question", i)
			}
			if len(block.Options) < 2 || len(block.Options) > 5 {
				return fmt.Errorf("block %d: quiz block requires 2-5 options, got %d", i, len(block.Options))
			}
			if block.CorrectAnswer < 0 || block.CorrectAnswer >= len(block.Options) {
				return fmt.Errorf("block %d: correctAnswer %d out of range for %d options", i, block.CorrectAnswer, len(block.Options))
			}
			if block.Explanation == "" {
				return fmt.Errorf("block %d: quiz block requires an explanation", i)
			}
			switch block.Difficulty {
			case "", shared.DifficultyEasy, shared.DifficultyMedium, shared.DifficultyHard:
			default:
				return fmt.Errorf("block %d: unknown difficulty %q", i, block.Difficulty)
			}
		default:
			return fmt.Errorf("block %d: unknown block type %q", i, block.Type)
		}
	}

	return nil
}

// UserProgress is the completion record for one (user, lesson) pair. The
// composite unique index is the backstop for at-most-once completion.
type UserProgress struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	UserID      string          `json:"user_id" gorm:"not null;uniqueIndex:idx_user_lesson"`
	LessonID    string          `json:"lesson_id" gorm:"not null;uniqueIndex:idx_user_lesson"`
	Completed   bool            `json:"completed" gorm:"not null;default:false"`
	Choices     json.RawMessage `json:"choices" gorm:"type:text"` // selected option per quiz, in quiz order
	Score       int             `json:"score" gorm:"not null;default:0"`
	CompletedAt *time.Time      `json:"completed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Achievement is a static catalog entry unlocked by crossing an XP threshold
type Achievement struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	BadgeURL    string    `json:"badge_url"`
	XPRequired  int       `json:"xp_required" gorm:"not null;default:0"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserAchievement tracks which achievements users have unlocked
type UserAchievement struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	AchievementID string    `json:"achievement_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	UnlockedAt    time.Time `json:"unlocked_at"`
	CreatedAt     time.Time `json:"created_at"`

	// Relationship
	Achievement Achievement `json:"achievement" gorm:"foreignKey:AchievementID"`
}

// MediaAsset records an object-storage upload for course/lesson imagery
type MediaAsset struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	OwnerType  string    `json:"owner_type" gorm:"not null"` // course, lesson, blog_post
	OwnerID    string    `json:"owner_id" gorm:"not null;index"`
	FileName   string    `json:"file_name"`
	ObjectName string    `json:"object_name" gorm:"not null"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	PublicURL  string    `json:"public_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
