package services

import (
	"encoding/json"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/rebooto/rebooto_api/dto"
	"github.com/rebooto/rebooto_api/model"
	"github.com/rebooto/rebooto_api/playback"
	"github.com/rebooto/rebooto_api/shared"
)

// ProgressService coordinates lesson completion. A completion is the only
// source of XP, and each (user, lesson) pair may produce it exactly once.
type ProgressService struct {
	context.DefaultService

	postgresSvc   *PostgresService
	monitoringSvc *MonitoringService
}

const PROGRESS_SVC = "progress_svc"

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	svc.postgresSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	if monitoringSvc, ok := svc.Service(MONITORING_SVC).(*MonitoringService); ok {
		svc.monitoringSvc = monitoringSvc
	}
	return nil
}

// ==================== LESSON COMPLETION ====================

// CompleteLesson records a completion and awards the lesson's XP. The score
// is recomputed from the submitted choices, never trusted from the client.
// A second completion of the same lesson returns 409 and awards nothing.
func (svc *ProgressService) CompleteLesson(userID, lessonID string, choices []int) (*dto.CompleteLessonResponse, error) {
	lesson, err := svc.postgresSvc.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	if !lesson.IsPublished {
		return nil, shared.NewNotFoundError(nil, "Lesson not found")
	}

	blocks, err := model.ParseContent(lesson.Content)
	if err != nil {
		return nil, shared.NewInternalError(err, "Lesson content is corrupted")
	}

	score := playback.ScoreChoices(blocks, choices)

	choicesJSON, err := json.Marshal(choices)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode choices")
	}

	now := time.Now()
	var user *model.User
	var oldLevel int
	var progress *model.UserProgress

	err = svc.postgresSvc.Db().Transaction(func(tx *gorm.DB) error {
		var existing model.UserProgress
		findErr := tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&existing).Error

		switch {
		case findErr == nil && existing.Completed:
			return shared.NewConflictError(nil, "Lesson already completed")

		case findErr == nil:
			existing.Completed = true
			existing.Choices = choicesJSON
			existing.Score = score
			existing.CompletedAt = &now
			existing.UpdatedAt = now
			if err := tx.Save(&existing).Error; err != nil {
				return svc.postgresSvc.HandleError(err)
			}
			progress = &existing

		case findErr == gorm.ErrRecordNotFound:
			id, _ := uuid.NewV7()
			record := model.UserProgress{
				ID:          id.String(),
				UserID:      userID,
				LessonID:    lessonID,
				Completed:   true,
				Choices:     choicesJSON,
				Score:       score,
				CompletedAt: &now,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			// The unique index on (user_id, lesson_id) catches concurrent
			// first completions; the loser surfaces as a conflict.
			if err := tx.Create(&record).Error; err != nil {
				handled := svc.postgresSvc.HandleError(err)
				if shared.IsConflict(handled) {
					return shared.NewConflictError(nil, "Lesson already completed")
				}
				return handled
			}
			progress = &record

		default:
			return svc.postgresSvc.HandleError(findErr)
		}

		var u model.User
		if err := tx.Where("id = ?", userID).First(&u).Error; err != nil {
			return svc.postgresSvc.HandleError(err)
		}

		oldLevel = u.Level
		u.XP += lesson.XPReward
		u.Level = CalculateLevel(u.XP)
		u.UpdatedAt = now

		if err := tx.Save(&u).Error; err != nil {
			return svc.postgresSvc.HandleError(err)
		}

		user = &u
		return nil
	})
	if err != nil {
		if shared.IsConflict(err) && svc.monitoringSvc != nil {
			svc.monitoringSvc.RecordLessonCompletion("duplicate")
		}
		return nil, err
	}

	if user.Level > oldLevel {
		log.WithFields(log.Fields{
			"user_id": userID,
			"level":   user.Level,
		}).Info("User leveled up")
	}

	if svc.monitoringSvc != nil {
		svc.monitoringSvc.RecordLessonCompletion("completed")
		svc.monitoringSvc.RecordXPAwarded(lesson.XPReward)
	}

	// Achievement evaluation runs after the completion commits. A failure
	// here never rolls back the completion; the next evaluation catches up.
	unlocked, evalErr := svc.EvaluateAchievements(userID, user.XP)
	if evalErr != nil {
		log.WithError(evalErr).WithField("user_id", userID).Error("Achievement evaluation failed")
		unlocked = nil
	}

	return &dto.CompleteLessonResponse{
		Progress:             svc.mapProgressToResponse(progress),
		XPAwarded:            lesson.XPReward,
		TotalXP:              user.XP,
		Level:                user.Level,
		LeveledUp:            user.Level > oldLevel,
		UnlockedAchievements: unlocked,
	}, nil
}

// ==================== PROGRESS QUERIES ====================

func (svc *ProgressService) GetLessonProgress(userID, lessonID string) (*dto.UserProgressResponse, error) {
	progress, err := svc.postgresSvc.GetUserLessonProgress(userID, lessonID)
	if err != nil {
		return nil, err
	}

	resp := svc.mapProgressToResponse(progress)
	return &resp, nil
}

func (svc *ProgressService) ListProgress(userID string) ([]dto.UserProgressResponse, error) {
	records, err := svc.postgresSvc.GetUserProgressList(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserProgressResponse, 0, len(records))
	for i := range records {
		responses = append(responses, svc.mapProgressToResponse(&records[i]))
	}
	return responses, nil
}

// ==================== ACHIEVEMENT EVALUATION ====================

// EvaluateAchievements grants every active achievement whose XP threshold the
// user has reached. Re-evaluation is harmless: already-granted rows are
// skipped, and the unique index swallows races.
func (svc *ProgressService) EvaluateAchievements(userID string, totalXP int) ([]dto.AchievementResponse, error) {
	achievements, err := svc.postgresSvc.GetActiveAchievements()
	if err != nil {
		return nil, err
	}

	existing, err := svc.postgresSvc.GetUserAchievements(userID)
	if err != nil {
		return nil, err
	}

	held := make(map[string]bool, len(existing))
	for _, ua := range existing {
		held[ua.AchievementID] = true
	}

	var unlocked []dto.AchievementResponse
	now := time.Now()

	for _, achievement := range achievements {
		if totalXP < achievement.XPRequired || held[achievement.ID] {
			continue
		}

		id, _ := uuid.NewV7()
		record := &model.UserAchievement{
			ID:            id.String(),
			UserID:        userID,
			AchievementID: achievement.ID,
			UnlockedAt:    now,
			CreatedAt:     now,
		}

		if err := svc.postgresSvc.Db().Create(record).Error; err != nil {
			handled := svc.postgresSvc.HandleError(err)
			if shared.IsConflict(handled) {
				continue
			}
			return unlocked, handled
		}

		if svc.monitoringSvc != nil {
			svc.monitoringSvc.RecordAchievementUnlocked()
		}

		log.WithFields(log.Fields{
			"user_id":     userID,
			"achievement": achievement.Name,
		}).Info("Achievement unlocked")

		unlockedAt := now
		unlocked = append(unlocked, dto.AchievementResponse{
			ID:          achievement.ID,
			Name:        achievement.Name,
			Description: achievement.Description,
			BadgeURL:    achievement.BadgeURL,
			XPRequired:  achievement.XPRequired,
			UnlockedAt:  &unlockedAt,
		})
	}

	return unlocked, nil
}

func (svc *ProgressService) GetUserAchievements(userID string) ([]dto.AchievementResponse, error) {
	records, err := svc.postgresSvc.GetUserAchievements(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AchievementResponse, 0, len(records))
	for _, ua := range records {
		unlockedAt := ua.UnlockedAt
		responses = append(responses, dto.AchievementResponse{
			ID:          ua.Achievement.ID,
			Name:        ua.Achievement.Name,
			Description: ua.Achievement.Description,
			BadgeURL:    ua.Achievement.BadgeURL,
			XPRequired:  ua.Achievement.XPRequired,
			UnlockedAt:  &unlockedAt,
		})
	}
	return responses, nil
}

// ==================== HELPERS ====================

func (svc *ProgressService) mapProgressToResponse(progress *model.UserProgress) dto.UserProgressResponse {
	var choices []int
	if len(progress.Choices) > 0 {
		if err := json.Unmarshal(progress.Choices, &choices); err != nil {
			log.WithError(err).WithField("progress_id", progress.ID).Warn("Stored choices failed to parse")
		}
	}

	return dto.UserProgressResponse{
		LessonID:    progress.LessonID,
		Completed:   progress.Completed,
		Choices:     choices,
		Score:       progress.Score,
		CompletedAt: progress.CompletedAt,
	}
}

// CalculateLevel maps total XP onto a level. Level 2 costs 100 XP and each
// level after that costs 1.5x the previous one.
func CalculateLevel(totalXP int) int {
	level := 1
	requiredXP := 100 // Base XP for level 2

	for totalXP >= requiredXP {
		totalXP -= requiredXP
		level++
		requiredXP = int(float64(requiredXP) * 1.5) // Each level requires 1.5x more XP
	}

	return level
}

// XPToNextLevel returns how much more XP the user needs for the next level
func XPToNextLevel(totalXP int) int {
	level := 1
	requiredXP := 100

	for totalXP >= requiredXP {
		totalXP -= requiredXP
		level++
		requiredXP = int(float64(requiredXP) * 1.5)
	}

	return requiredXP - totalXP
}
