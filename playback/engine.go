// Package playback implements the lesson player state machine: step
// navigation gated on quiz answers, write-once answer capture, auto-advance
// pacing for passive blocks, and final scoring.
//
// An Engine is pure state. It never schedules timers itself; the host reads
// AutoAdvanceIn and owns scheduling and cancellation, so the engine stays
// testable without a clock.
package playback

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/rebooto/rebooto_api/model"
)

const (
	// MinReadingTime is the floor for passive block auto-advance.
	MinReadingTime = 5 * time.Second

	wordsPerMinute = 200
)

var ErrNoContent = errors.New("playback: lesson has no content blocks")

// Answer is a recorded quiz response. Once recorded it is immutable for the
// rest of the attempt, and its feedback stays visible.
type Answer struct {
	Selected  int  `json:"selected"`
	IsCorrect bool `json:"is_correct"`
	Shown     bool `json:"shown"`
}

// Engine walks one lesson attempt. Callers must serialize access; within one
// attempt, mutations are ordered by the caller's event loop.
type Engine struct {
	lessonID string
	blocks   []model.ContentBlock
	current  int

	answers map[int]Answer

	// quizOrdinal maps a step index to that block's position among quiz
	// blocks only. Fixed at attempt start so later content edits cannot
	// shift scoring positions mid-attempt.
	quizOrdinal map[int]int
	choices     []int // selected option per quiz ordinal, -1 while unanswered
}

// NewEngine starts an attempt at step 0. Empty content is a data-integrity
// condition, not a playable lesson.
func NewEngine(lessonID string, blocks []model.ContentBlock) (*Engine, error) {
	e := &Engine{}
	if err := e.Reset(lessonID, blocks); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset wipes all attempt state. Called whenever the lesson identity changes.
func (e *Engine) Reset(lessonID string, blocks []model.ContentBlock) error {
	if len(blocks) == 0 {
		return ErrNoContent
	}

	e.lessonID = lessonID
	e.blocks = blocks
	e.current = 0
	e.answers = make(map[int]Answer)

	e.quizOrdinal = make(map[int]int)
	ordinal := 0
	for i, block := range blocks {
		if block.IsQuiz() {
			e.quizOrdinal[i] = ordinal
			ordinal++
		}
	}

	e.choices = make([]int, ordinal)
	for i := range e.choices {
		e.choices[i] = -1
	}

	return nil
}

func (e *Engine) LessonID() string {
	return e.lessonID
}

func (e *Engine) CurrentStep() int {
	return e.current
}

func (e *Engine) StepCount() int {
	return len(e.blocks)
}

func (e *Engine) IsLastStep() bool {
	return e.current == len(e.blocks)-1
}

func (e *Engine) Block(step int) (model.ContentBlock, bool) {
	if step < 0 || step >= len(e.blocks) {
		return model.ContentBlock{}, false
	}
	return e.blocks[step], true
}

// CanAdvance reports whether the given step permits forward navigation:
// passive blocks always do, quiz blocks only once answered. This is the
// single gating invariant; an unanswered quiz cannot be skipped.
func (e *Engine) CanAdvance(step int) bool {
	block, ok := e.Block(step)
	if !ok {
		return false
	}
	if !block.IsQuiz() {
		return true
	}
	_, answered := e.answers[step]
	return answered
}

// Next advances one step. No-op on the last step or while the current step
// is gated.
func (e *Engine) Next() bool {
	if e.IsLastStep() || !e.CanAdvance(e.current) {
		return false
	}
	e.current++
	return true
}

// Previous steps back for review. Recorded answers are never cleared.
func (e *Engine) Previous() bool {
	if e.current == 0 {
		return false
	}
	e.current--
	return true
}

// SubmitAnswer records a quiz response for the given step. Answers are
// write-once: a second submission for the same step returns the original
// answer untouched. Returns false when nothing was or is recorded (not a
// quiz step, or option out of range).
func (e *Engine) SubmitAnswer(step, option int) (Answer, bool) {
	if existing, ok := e.answers[step]; ok {
		return existing, true
	}

	block, ok := e.Block(step)
	if !ok || !block.IsQuiz() {
		return Answer{}, false
	}
	if option < 0 || option >= len(block.Options) {
		return Answer{}, false
	}

	answer := Answer{
		Selected:  option,
		IsCorrect: option == block.CorrectAnswer,
		Shown:     true,
	}
	e.answers[step] = answer
	e.choices[e.quizOrdinal[step]] = option

	return answer, true
}

// Feedback returns the recorded answer for a step, if any. Feedback stays
// visible for the rest of the attempt.
func (e *Engine) Feedback(step int) (Answer, bool) {
	answer, ok := e.answers[step]
	return answer, ok
}

// AutoAdvanceIn returns how long the host should wait before advancing past
// the current step. Only passive blocks that are not the final step
// auto-advance; quiz blocks and the last block always wait for the user.
func (e *Engine) AutoAdvanceIn() (time.Duration, bool) {
	if e.IsLastStep() {
		return 0, false
	}
	block := e.blocks[e.current]
	if block.IsQuiz() {
		return 0, false
	}
	return ReadingTime(block.Content), true
}

// Choices returns the selected option per quiz block in document order, -1
// where unanswered.
func (e *Engine) Choices() []int {
	out := make([]int, len(e.choices))
	copy(out, e.choices)
	return out
}

func (e *Engine) QuizCount() int {
	return len(e.choices)
}

func (e *Engine) AnsweredCount() int {
	return len(e.answers)
}

// Score computes the attempt score. Lessons without quizzes score 100;
// otherwise the percentage of correct quiz answers, rounded. Unanswered
// quizzes count as incorrect.
func (e *Engine) Score() int {
	return ScoreChoices(e.blocks, e.choices)
}

// ScoreChoices scores a choices vector against lesson content. Shared with
// the completion path so persisted scores are always derived from choices.
func ScoreChoices(blocks []model.ContentBlock, choices []int) int {
	total := 0
	correct := 0
	for _, block := range blocks {
		if !block.IsQuiz() {
			continue
		}
		if total < len(choices) && choices[total] == block.CorrectAnswer {
			correct++
		}
		total++
	}

	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// ReadingTime estimates how long a passive block holds the screen: 200 words
// per minute with a 5 second floor.
func ReadingTime(content string) time.Duration {
	words := len(strings.Fields(content))
	d := time.Duration(words) * time.Minute / wordsPerMinute
	if d < MinReadingTime {
		return MinReadingTime
	}
	return d
}
