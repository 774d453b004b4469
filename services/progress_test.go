package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rebooto/rebooto_api/model"
	"github.com/rebooto/rebooto_api/shared"
)

func setupTestStorage(t *testing.T) *PostgresService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	pg := &PostgresService{db: db}
	require.NoError(t, pg.Migrate())

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return pg
}

func newProgressService(pg *PostgresService) *ProgressService {
	return &ProgressService{postgresSvc: pg}
}

func createTestUser(t *testing.T, pg *PostgresService) *model.User {
	t.Helper()

	id, _ := uuid.NewV7()
	user := &model.User{
		ID:           id.String(),
		Email:        id.String() + "@example.com",
		Username:     "user_" + id.String(),
		PasswordHash: "x",
		Role:         model.RoleUser,
		Level:        1,
		IsActive:     true,
	}
	created, err := pg.CreateUser(user)
	require.NoError(t, err)
	return created
}

func createTestLesson(t *testing.T, pg *PostgresService, xpReward int, blocks []model.ContentBlock) *model.Lesson {
	t.Helper()

	content, err := json.Marshal(blocks)
	require.NoError(t, err)

	lesson := &model.Lesson{
		CourseID:    "course-1",
		Title:       "Test Lesson",
		OrderIndex:  1,
		XPReward:    xpReward,
		Content:     content,
		IsPublished: true,
	}
	created, err := pg.CreateLesson(lesson)
	require.NoError(t, err)
	return created
}

func createTestAchievement(t *testing.T, pg *PostgresService, name string, xpRequired int) *model.Achievement {
	t.Helper()

	achievement := &model.Achievement{
		Name:       name,
		XPRequired: xpRequired,
		IsActive:   true,
	}
	created, err := pg.CreateAchievement(achievement)
	require.NoError(t, err)
	return created
}

func quizContent(correct int) []model.ContentBlock {
	return []model.ContentBlock{
		{Type: shared.BlockTypeText, Content: "intro text"},
		{
			Type:          shared.BlockTypeQuiz,
			Question:      "pick one",
			Options:       []string{"a", "b", "c"},
			CorrectAnswer: correct,
			Explanation:   "because",
			Difficulty:    shared.DifficultyEasy,
		},
	}
}

func TestCompleteLessonAwardsXPOnce(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newProgressService(pg)

	user := createTestUser(t, pg)
	lesson := createTestLesson(t, pg, 100, quizContent(1))

	resp, err := svc.CompleteLesson(user.ID, lesson.ID, []int{1})
	require.NoError(t, err)

	assert.Equal(t, 100, resp.XPAwarded)
	assert.Equal(t, 100, resp.TotalXP)
	assert.True(t, resp.Progress.Completed)
	assert.Equal(t, 100, resp.Progress.Score)

	// A second completion awards nothing and reports the duplicate
	_, err = svc.CompleteLesson(user.ID, lesson.ID, []int{1})
	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))

	stored, err := pg.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.XP)
}

func TestCompleteLessonRecomputesScore(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newProgressService(pg)

	user := createTestUser(t, pg)

	blocks := []model.ContentBlock{
		{
			Type:          shared.BlockTypeQuiz,
			Question:      "q1",
			Options:       []string{"a", "b"},
			CorrectAnswer: 0,
			Explanation:   "e1",
			Difficulty:    shared.DifficultyEasy,
		},
		{
			Type:          shared.BlockTypeQuiz,
			Question:      "q2",
			Options:       []string{"a", "b"},
			CorrectAnswer: 1,
			Explanation:   "e2",
			Difficulty:    shared.DifficultyEasy,
		},
	}
	lesson := createTestLesson(t, pg, 100, blocks)

	// One of two correct regardless of what the client claims
	resp, err := svc.CompleteLesson(user.ID, lesson.ID, []int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 50, resp.Progress.Score)
}

func TestCompleteLessonWithoutQuizzesScoresFull(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newProgressService(pg)

	user := createTestUser(t, pg)
	lesson := createTestLesson(t, pg, 50, []model.ContentBlock{
		{Type: shared.BlockTypeText, Content: "just reading"},
		{Type: shared.BlockTypeScenario, Content: "a short story"},
	})

	resp, err := svc.CompleteLesson(user.ID, lesson.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, resp.Progress.Score)
	assert.Equal(t, 50, resp.XPAwarded)
}

func TestCompleteLessonUnpublishedNotFound(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newProgressService(pg)

	user := createTestUser(t, pg)
	lesson := createTestLesson(t, pg, 100, quizContent(0))

	lesson.IsPublished = false
	require.NoError(t, pg.UpdateLesson(lesson))

	_, err := svc.CompleteLesson(user.ID, lesson.ID, []int{0})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestCompleteLessonUnlocksReachedAchievements(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newProgressService(pg)

	user := createTestUser(t, pg)
	lesson := createTestLesson(t, pg, 600, quizContent(1))

	createTestAchievement(t, pg, "First Steps", 0)
	createTestAchievement(t, pg, "Halfway", 500)
	createTestAchievement(t, pg, "Far Off", 1000)

	resp, err := svc.CompleteLesson(user.ID, lesson.ID, []int{1})
	require.NoError(t, err)

	names := make([]string, 0, len(resp.UnlockedAchievements))
	for _, a := range resp.UnlockedAchievements {
		names = append(names, a.Name)
	}
	assert.ElementsMatch(t, []string{"First Steps", "Halfway"}, names)
}

func TestEvaluateAchievementsIsIdempotent(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newProgressService(pg)

	user := createTestUser(t, pg)
	createTestAchievement(t, pg, "Century", 100)

	unlocked, err := svc.EvaluateAchievements(user.ID, 150)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)

	// Re-evaluation grants nothing new
	unlocked, err = svc.EvaluateAchievements(user.ID, 150)
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	records, err := pg.GetUserAchievements(user.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestEvaluateAchievementsSkipsInactive(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newProgressService(pg)

	user := createTestUser(t, pg)

	achievement := createTestAchievement(t, pg, "Retired Badge", 50)
	achievement.IsActive = false
	require.NoError(t, pg.db.Save(achievement).Error)

	unlocked, err := svc.EvaluateAchievements(user.ID, 500)
	require.NoError(t, err)
	assert.Empty(t, unlocked)
}

func TestCompleteLessonStoresChoices(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newProgressService(pg)

	user := createTestUser(t, pg)
	lesson := createTestLesson(t, pg, 100, quizContent(2))

	_, err := svc.CompleteLesson(user.ID, lesson.ID, []int{2})
	require.NoError(t, err)

	progress, err := svc.GetLessonProgress(user.ID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, progress.Choices)
	require.NotNil(t, progress.CompletedAt)
	assert.WithinDuration(t, time.Now(), *progress.CompletedAt, time.Minute)
}

func TestCalculateLevel(t *testing.T) {
	assert.Equal(t, 1, CalculateLevel(0))
	assert.Equal(t, 1, CalculateLevel(99))
	assert.Equal(t, 2, CalculateLevel(100))
	assert.Equal(t, 2, CalculateLevel(249))
	assert.Equal(t, 3, CalculateLevel(250)) // 100 + 150
	assert.Equal(t, 4, CalculateLevel(475)) // 100 + 150 + 225
}

func TestXPToNextLevel(t *testing.T) {
	assert.Equal(t, 100, XPToNextLevel(0))
	assert.Equal(t, 1, XPToNextLevel(99))
	assert.Equal(t, 150, XPToNextLevel(100))
	assert.Equal(t, 50, XPToNextLevel(200))
}
