package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebooto/rebooto_api/dto"
	"github.com/rebooto/rebooto_api/model"
	"github.com/rebooto/rebooto_api/playback"
	"github.com/rebooto/rebooto_api/shared"
)

func newPlayerService(pg *PostgresService) *PlayerService {
	return &PlayerService{
		postgresSvc: pg,
		progressSvc: newProgressService(pg),
		engines:     make(map[string]*playback.Engine),
	}
}

func TestCompleteKeepsAttemptOnStoreFailure(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newPlayerService(pg)

	user := createTestUser(t, pg)
	lesson := createTestLesson(t, pg, 100, quizContent(1))

	_, err := svc.StartAttempt(user.ID, lesson.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(user.ID, dto.SubmitAnswerRequest{
		LessonID: lesson.ID,
		Step:     1,
		Option:   1,
	})
	require.NoError(t, err)

	// Take the progress table away so the completion write fails
	require.NoError(t, pg.Db().Migrator().DropTable(&model.UserProgress{}))

	_, err = svc.Complete(user.ID, lesson.ID)
	require.Error(t, err)
	assert.False(t, shared.IsConflict(err))

	// The attempt survives the failure, answers intact
	state, err := svc.GetState(user.ID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, state.AnsweredQuizzes)

	// Once the store is back, retrying the same call succeeds
	require.NoError(t, pg.Migrate())

	resp, err := svc.Complete(user.ID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, resp.XPAwarded)
	assert.Equal(t, 100, resp.Progress.Score)

	_, err = svc.GetState(user.ID, lesson.ID)
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestCompleteDiscardsAttemptOnDuplicate(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newPlayerService(pg)

	user := createTestUser(t, pg)
	lesson := createTestLesson(t, pg, 100, quizContent(0))

	// The lesson was already completed outside this attempt
	_, err := svc.progressSvc.CompleteLesson(user.ID, lesson.ID, []int{0})
	require.NoError(t, err)

	_, err = svc.StartAttempt(user.ID, lesson.ID)
	require.NoError(t, err)

	_, err = svc.Complete(user.ID, lesson.ID)
	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))

	// A duplicate is final; the attempt is gone
	_, err = svc.GetState(user.ID, lesson.ID)
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestStartAttemptEvictsOtherAttempts(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newPlayerService(pg)

	user := createTestUser(t, pg)
	first := createTestLesson(t, pg, 100, quizContent(0))
	second := createTestLesson(t, pg, 100, quizContent(1))

	_, err := svc.StartAttempt(user.ID, first.ID)
	require.NoError(t, err)

	_, err = svc.StartAttempt(user.ID, second.ID)
	require.NoError(t, err)

	_, err = svc.GetState(user.ID, first.ID)
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))

	_, err = svc.GetState(user.ID, second.ID)
	require.NoError(t, err)
}

func TestStartAttemptKeepsOtherUsersRunning(t *testing.T) {
	pg := setupTestStorage(t)
	svc := newPlayerService(pg)

	alice := createTestUser(t, pg)
	bob := createTestUser(t, pg)
	lesson := createTestLesson(t, pg, 100, quizContent(0))

	_, err := svc.StartAttempt(alice.ID, lesson.ID)
	require.NoError(t, err)

	_, err = svc.StartAttempt(bob.ID, lesson.ID)
	require.NoError(t, err)

	_, err = svc.GetState(alice.ID, lesson.ID)
	require.NoError(t, err)
}
