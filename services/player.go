package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/rebooto/rebooto_api/dto"
	"github.com/rebooto/rebooto_api/model"
	"github.com/rebooto/rebooto_api/playback"
	"github.com/rebooto/rebooto_api/shared"
)

// PlayerService hosts one playback engine per active (user, lesson) attempt.
// Engines live in memory only. A user has at most one live attempt: starting
// a lesson evicts their other attempts.
type PlayerService struct {
	context.DefaultService

	postgresSvc *PostgresService
	progressSvc *ProgressService

	mu      sync.Mutex
	engines map[string]*playback.Engine
}

const PLAYER_SVC = "player_svc"

func (svc *PlayerService) Id() string {
	return PLAYER_SVC
}

func (svc *PlayerService) Configure(ctx *context.Context) error {
	svc.engines = make(map[string]*playback.Engine)
	return svc.DefaultService.Configure(ctx)
}

func (svc *PlayerService) Start() error {
	svc.postgresSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	return nil
}

// ==================== ATTEMPT LIFECYCLE ====================

// StartAttempt creates, or restarts, the caller's attempt at a lesson.
// Restarting discards any recorded answers from the previous attempt.
func (svc *PlayerService) StartAttempt(userID, lessonID string) (*dto.PlayerStateResponse, error) {
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

	engine, err := playback.NewEngine(lessonID, blocks)
	if err != nil {
		if err == playback.ErrNoContent {
			return nil, shared.NewBadRequestError(err, "Lesson has no content")
		}
		return nil, shared.NewInternalError(err, "Failed to start lesson")
	}

	svc.mu.Lock()
	svc.evictUserAttempts(userID)
	svc.engines[attemptKey(userID, lessonID)] = engine
	state := svc.buildState(engine)
	svc.mu.Unlock()

	log.WithFields(log.Fields{
		"user_id":   userID,
		"lesson_id": lessonID,
	}).Info("Lesson attempt started")

	return state, nil
}

func (svc *PlayerService) GetState(userID, lessonID string) (*dto.PlayerStateResponse, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	engine, err := svc.engine(userID, lessonID)
	if err != nil {
		return nil, err
	}
	return svc.buildState(engine), nil
}

func (svc *PlayerService) Next(userID, lessonID string) (*dto.PlayerStateResponse, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	engine, err := svc.engine(userID, lessonID)
	if err != nil {
		return nil, err
	}

	engine.Next()
	return svc.buildState(engine), nil
}

func (svc *PlayerService) Previous(userID, lessonID string) (*dto.PlayerStateResponse, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	engine, err := svc.engine(userID, lessonID)
	if err != nil {
		return nil, err
	}

	engine.Previous()
	return svc.buildState(engine), nil
}

func (svc *PlayerService) SubmitAnswer(userID string, req dto.SubmitAnswerRequest) (*dto.PlayerStateResponse, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	engine, err := svc.engine(userID, req.LessonID)
	if err != nil {
		return nil, err
	}

	if _, ok := engine.SubmitAnswer(req.Step, req.Option); !ok {
		return nil, shared.NewBadRequestError(nil, "Step is not an answerable quiz or option is out of range")
	}

	return svc.buildState(engine), nil
}

// Complete hands the recorded choices to the completion coordinator. The
// attempt is discarded once the completion lands or turns out to be a
// duplicate; a store failure keeps it alive so the caller can retry without
// replaying the lesson.
func (svc *PlayerService) Complete(userID, lessonID string) (*dto.CompleteLessonResponse, error) {
	svc.mu.Lock()
	engine, err := svc.engine(userID, lessonID)
	if err != nil {
		svc.mu.Unlock()
		return nil, err
	}
	choices := engine.Choices()
	svc.mu.Unlock()

	resp, err := svc.progressSvc.CompleteLesson(userID, lessonID, choices)
	if err != nil && !shared.IsConflict(err) {
		return nil, err
	}

	svc.Abandon(userID, lessonID)
	return resp, err
}

func (svc *PlayerService) Abandon(userID, lessonID string) {
	svc.mu.Lock()
	delete(svc.engines, attemptKey(userID, lessonID))
	svc.mu.Unlock()
}

// ==================== HELPERS ====================

// evictUserAttempts drops every engine belonging to the user. Caller holds mu.
func (svc *PlayerService) evictUserAttempts(userID string) {
	prefix := userID + ":"
	for key := range svc.engines {
		if strings.HasPrefix(key, prefix) {
			delete(svc.engines, key)
		}
	}
}

func (svc *PlayerService) engine(userID, lessonID string) (*playback.Engine, error) {
	engine, ok := svc.engines[attemptKey(userID, lessonID)]
	if !ok {
		return nil, shared.NewNotFoundError(nil, "No active attempt for this lesson")
	}
	return engine, nil
}

func (svc *PlayerService) buildState(engine *playback.Engine) *dto.PlayerStateResponse {
	step := engine.CurrentStep()
	block, _ := engine.Block(step)

	state := &dto.PlayerStateResponse{
		LessonID:        engine.LessonID(),
		CurrentStep:     step,
		StepCount:       engine.StepCount(),
		IsLastStep:      engine.IsLastStep(),
		CanAdvance:      engine.CanAdvance(step),
		Block:           MapBlockToResponse(block),
		QuizCount:       engine.QuizCount(),
		AnsweredQuizzes: engine.AnsweredCount(),
	}

	if delay, ok := engine.AutoAdvanceIn(); ok {
		state.AutoAdvanceMs = delay.Milliseconds()
	}

	if answer, ok := engine.Feedback(step); ok {
		state.Feedback = svc.mapFeedback(answer, block)
	}

	answered := make(map[int]dto.AnswerFeedback)
	for s := 0; s < engine.StepCount(); s++ {
		if answer, ok := engine.Feedback(s); ok {
			b, _ := engine.Block(s)
			answered[s] = *svc.mapFeedback(answer, b)
		}
	}
	if len(answered) > 0 {
		state.AnsweredSteps = answered
	}

	return state
}

func (svc *PlayerService) mapFeedback(answer playback.Answer, block model.ContentBlock) *dto.AnswerFeedback {
	return &dto.AnswerFeedback{
		Selected:    answer.Selected,
		IsCorrect:   answer.IsCorrect,
		Explanation: block.Explanation,
	}
}

func attemptKey(userID, lessonID string) string {
	return fmt.Sprintf("%s:%s", userID, lessonID)
}
