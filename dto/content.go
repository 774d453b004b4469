package dto

import "time"

// Course DTOs
type CourseResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	ImageURL    string `json:"image_url"`
	OrderIndex  int    `json:"order_index"`
	IsPublished bool   `json:"is_published"`
	LessonCount int    `json:"lesson_count"`
}

type CourseCollectionResponse struct {
	Courses []CourseResponse `json:"courses"`
	Total   int              `json:"total"`
}

type CourseDetailResponse struct {
	Course  CourseResponse          `json:"course"`
	Lessons []LessonSummaryResponse `json:"lessons"`
}

// LessonSummaryResponse lists a lesson without its content, with the
// caller's completion state overlaid when authenticated.
type LessonSummaryResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
	XPReward    int    `json:"xp_reward"`
	BlockCount  int    `json:"block_count"`
	QuizCount   int    `json:"quiz_count"`
	Completed   bool   `json:"completed"`
	Score       int    `json:"score,omitempty"`
}

// ContentBlockResponse is the public view of one block. For quiz blocks the
// correct answer and explanation are withheld; feedback is delivered through
// the player after an answer is recorded.
type ContentBlockResponse struct {
	Type       string   `json:"type"`
	Content    string   `json:"content,omitempty"`
	Title      string   `json:"title,omitempty"`
	Question   string   `json:"question,omitempty"`
	Options    []string `json:"options,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
}

type LessonResponse struct {
	ID          string                 `json:"id"`
	CourseID    string                 `json:"course_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	OrderIndex  int                    `json:"order_index"`
	XPReward    int                    `json:"xp_reward"`
	Content     []ContentBlockResponse `json:"content"`
}

// ==================== AUTHORING DTOs ====================

type ContentBlockRequest struct {
	Type          string   `json:"type" validate:"required,oneof=text scenario quiz"`
	Content       string   `json:"content,omitempty"`
	Title         string   `json:"title,omitempty"`
	Question      string   `json:"question,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
}

type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=120"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	OrderIndex  int    `json:"order_index"`
}

func (r CreateCourseRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateCourseRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=120"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Difficulty  *string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	OrderIndex  *int    `json:"order_index"`
	IsPublished *bool   `json:"is_published"`
}

func (r UpdateCourseRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CreateLessonRequest struct {
	CourseID    string                `json:"course_id" validate:"required"`
	Title       string                `json:"title" validate:"required,min=3,max=120"`
	Description string                `json:"description"`
	OrderIndex  int                   `json:"order_index"`
	XPReward    int                   `json:"xp_reward" validate:"omitempty,min=0,max=1000"`
	Content     []ContentBlockRequest `json:"content" validate:"required,min=1"`
}

func (r CreateLessonRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateLessonRequest struct {
	Title       *string               `json:"title" validate:"omitempty,min=3,max=120"`
	Description *string               `json:"description"`
	OrderIndex  *int                  `json:"order_index"`
	XPReward    *int                  `json:"xp_reward" validate:"omitempty,min=0,max=1000"`
	IsPublished *bool                 `json:"is_published"`
	Content     []ContentBlockRequest `json:"content" validate:"omitempty,min=1"`
}

func (r UpdateLessonRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== PLAYER DTOs ====================

type StartAttemptRequest struct {
	LessonID string `json:"lesson_id" validate:"required"`
}

func (r StartAttemptRequest) Validate() error {
	return GetValidator().Struct(r)
}

type SubmitAnswerRequest struct {
	LessonID string `json:"lesson_id" validate:"required"`
	Step     int    `json:"step" validate:"min=0"`
	Option   int    `json:"option" validate:"min=0"`
}

func (r SubmitAnswerRequest) Validate() error {
	return GetValidator().Struct(r)
}

type AnswerFeedback struct {
	Selected    int    `json:"selected"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
}

// PlayerStateResponse mirrors the engine state for one attempt. The
// auto-advance delay is data: the client schedules (and cancels) the timer.
type PlayerStateResponse struct {
	LessonID        string                  `json:"lesson_id"`
	CurrentStep     int                     `json:"current_step"`
	StepCount       int                     `json:"step_count"`
	IsLastStep      bool                    `json:"is_last_step"`
	CanAdvance      bool                    `json:"can_advance"`
	AutoAdvanceMs   int64                   `json:"auto_advance_ms,omitempty"`
	Block           ContentBlockResponse    `json:"block"`
	Feedback        *AnswerFeedback         `json:"feedback,omitempty"`
	AnsweredSteps   map[int]AnswerFeedback  `json:"answered_steps,omitempty"`
	QuizCount       int                     `json:"quiz_count"`
	AnsweredQuizzes int                     `json:"answered_quizzes"`
}

// ==================== COMPLETION DTOs ====================

type CompleteLessonRequest struct {
	LessonID string `json:"lesson_id" validate:"required"`
	Choices  []int  `json:"choices"`
	Score    int    `json:"score" validate:"min=0,max=100"`
}

func (r CompleteLessonRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UserProgressResponse struct {
	LessonID    string     `json:"lesson_id"`
	Completed   bool       `json:"completed"`
	Choices     []int      `json:"choices"`
	Score       int        `json:"score"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type CompleteLessonResponse struct {
	Progress             UserProgressResponse  `json:"progress"`
	XPAwarded            int                   `json:"xp_awarded"`
	TotalXP              int                   `json:"total_xp"`
	Level                int                   `json:"level"`
	LeveledUp            bool                  `json:"leveled_up"`
	UnlockedAchievements []AchievementResponse `json:"unlocked_achievements"`
}

type AchievementResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	BadgeURL    string     `json:"badge_url"`
	XPRequired  int        `json:"xp_required"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}
