package playback

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebooto/rebooto_api/model"
)

func textBlock(words int) model.ContentBlock {
	return model.ContentBlock{
		Type:    "text",
		Content: strings.TrimSpace(strings.Repeat("word ", words)),
	}
}

func scenarioBlock(words int) model.ContentBlock {
	return model.ContentBlock{
		Type:    "scenario",
		Title:   "Case study",
		Content: strings.TrimSpace(strings.Repeat("word ", words)),
	}
}

func quizBlock(correct int, options ...string) model.ContentBlock {
	if len(options) == 0 {
		options = []string{"restart it", "ignore it", "escalate"}
	}
	return model.ContentBlock{
		Type:          "quiz",
		Question:      "What do you do first?",
		Options:       options,
		CorrectAnswer: correct,
		Explanation:   "Always start with the simplest fix.",
	}
}

func TestNewEngineRejectsEmptyContent(t *testing.T) {
	_, err := NewEngine("lesson-1", nil)
	assert.ErrorIs(t, err, ErrNoContent)

	_, err = NewEngine("lesson-1", []model.ContentBlock{})
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestUnansweredQuizGatesNext(t *testing.T) {
	e, err := NewEngine("lesson-1", []model.ContentBlock{
		textBlock(10),
		quizBlock(1),
		textBlock(10),
	})
	require.NoError(t, err)

	assert.True(t, e.Next())
	assert.Equal(t, 1, e.CurrentStep())

	// Quiz unanswered: repeated Next calls must not move.
	assert.False(t, e.Next())
	assert.False(t, e.Next())
	assert.Equal(t, 1, e.CurrentStep())

	_, ok := e.SubmitAnswer(1, 1)
	require.True(t, ok)
	assert.True(t, e.Next())
	assert.Equal(t, 2, e.CurrentStep())
}

func TestAnswersAreWriteOnce(t *testing.T) {
	e, err := NewEngine("lesson-1", []model.ContentBlock{quizBlock(2)})
	require.NoError(t, err)

	first, ok := e.SubmitAnswer(0, 0)
	require.True(t, ok)
	assert.False(t, first.IsCorrect)

	// Re-clicking another option after feedback must not mutate state.
	second, ok := e.SubmitAnswer(0, 2)
	require.True(t, ok)
	assert.Equal(t, first, second)

	feedback, ok := e.Feedback(0)
	require.True(t, ok)
	assert.Equal(t, 0, feedback.Selected)
	assert.True(t, feedback.Shown)
	assert.Equal(t, []int{0}, e.Choices())
}

func TestPreviousNeverClearsAnswers(t *testing.T) {
	e, err := NewEngine("lesson-1", []model.ContentBlock{
		quizBlock(0),
		textBlock(5),
	})
	require.NoError(t, err)

	assert.False(t, e.Previous())

	_, ok := e.SubmitAnswer(0, 0)
	require.True(t, ok)
	require.True(t, e.Next())
	require.True(t, e.Previous())

	feedback, ok := e.Feedback(0)
	require.True(t, ok)
	assert.True(t, feedback.IsCorrect)
}

func TestSubmitAnswerIgnoresInvalidInput(t *testing.T) {
	e, err := NewEngine("lesson-1", []model.ContentBlock{
		textBlock(5),
		quizBlock(1),
	})
	require.NoError(t, err)

	_, ok := e.SubmitAnswer(0, 0) // not a quiz step
	assert.False(t, ok)

	_, ok = e.SubmitAnswer(1, 7) // option out of range
	assert.False(t, ok)

	_, ok = e.SubmitAnswer(5, 0) // step out of range
	assert.False(t, ok)

	assert.Equal(t, []int{-1}, e.Choices())
}

func TestScorePassiveLessonIsFullCredit(t *testing.T) {
	e, err := NewEngine("lesson-1", []model.ContentBlock{
		textBlock(10),
		scenarioBlock(20),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, e.QuizCount())
	assert.Equal(t, 100, e.Score())
}

func TestScoreSingleQuiz(t *testing.T) {
	blocks := []model.ContentBlock{
		textBlock(10),
		quizBlock(1),
		textBlock(10),
	}

	e, err := NewEngine("lesson-1", blocks)
	require.NoError(t, err)
	_, ok := e.SubmitAnswer(1, 0)
	require.True(t, ok)
	assert.Equal(t, 0, e.Score())

	e, err = NewEngine("lesson-1", blocks)
	require.NoError(t, err)
	_, ok = e.SubmitAnswer(1, 1)
	require.True(t, ok)
	assert.Equal(t, 100, e.Score())
}

func TestScoreRoundsAndStaysInBounds(t *testing.T) {
	e, err := NewEngine("lesson-1", []model.ContentBlock{
		quizBlock(0),
		quizBlock(0),
		quizBlock(0),
	})
	require.NoError(t, err)

	_, ok := e.SubmitAnswer(0, 0)
	require.True(t, ok)
	// 1/3 correct, remaining unanswered count as incorrect.
	assert.Equal(t, 33, e.Score())

	require.True(t, e.Next())
	_, ok = e.SubmitAnswer(1, 0)
	require.True(t, ok)
	assert.Equal(t, 67, e.Score())

	require.True(t, e.Next())
	_, ok = e.SubmitAnswer(2, 1)
	require.True(t, ok)
	score := e.Score()
	assert.GreaterOrEqual(t, score, 0)
	assert.LessOrEqual(t, score, 100)
	assert.Equal(t, 67, score)
}

func TestQuizOrdinalsCountQuizBlocksOnly(t *testing.T) {
	e, err := NewEngine("lesson-1", []model.ContentBlock{
		textBlock(5),
		quizBlock(0),
		scenarioBlock(5),
		quizBlock(1),
		quizBlock(2),
	})
	require.NoError(t, err)
	require.Equal(t, 3, e.QuizCount())

	// Answer the second quiz (step 3) before the others: only ordinal 1 fills.
	require.True(t, e.Next())
	_, ok := e.SubmitAnswer(1, 0)
	require.True(t, ok)
	require.True(t, e.Next())
	require.True(t, e.Next())
	_, ok = e.SubmitAnswer(3, 2)
	require.True(t, ok)

	assert.Equal(t, []int{0, 2, -1}, e.Choices())
}

func TestAutoAdvanceTiming(t *testing.T) {
	e, err := NewEngine("lesson-1", []model.ContentBlock{
		textBlock(50),
		scenarioBlock(400),
	})
	require.NoError(t, err)

	// 50 words at 200wpm = 15s.
	d, ok := e.AutoAdvanceIn()
	require.True(t, ok)
	assert.Equal(t, 15*time.Second, d)

	// Final step never auto-advances, whatever its length.
	require.True(t, e.Next())
	_, ok = e.AutoAdvanceIn()
	assert.False(t, ok)
}

func TestAutoAdvanceSkipsQuizBlocks(t *testing.T) {
	e, err := NewEngine("lesson-1", []model.ContentBlock{
		quizBlock(0),
		textBlock(5),
	})
	require.NoError(t, err)

	_, ok := e.AutoAdvanceIn()
	assert.False(t, ok)
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, MinReadingTime, ReadingTime(""))
	assert.Equal(t, MinReadingTime, ReadingTime("a few short words"))
	assert.Equal(t, 15*time.Second, ReadingTime(strings.Repeat("word ", 50)))
	assert.Equal(t, 2*time.Minute, ReadingTime(strings.Repeat("word ", 400)))
}

func TestResetOnLessonChange(t *testing.T) {
	e, err := NewEngine("lesson-1", []model.ContentBlock{
		quizBlock(0),
		textBlock(5),
	})
	require.NoError(t, err)

	_, ok := e.SubmitAnswer(0, 0)
	require.True(t, ok)
	require.True(t, e.Next())

	require.NoError(t, e.Reset("lesson-2", []model.ContentBlock{
		textBlock(5),
		quizBlock(1),
	}))

	assert.Equal(t, "lesson-2", e.LessonID())
	assert.Equal(t, 0, e.CurrentStep())
	assert.Equal(t, 0, e.AnsweredCount())
	assert.Equal(t, []int{-1}, e.Choices())
}
