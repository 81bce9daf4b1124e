package services

import (
	"context"
	"testing"

	"classengage-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// questionFixture creates a session with one participant and one pending
// question, returning everything moderation tests need.
func questionFixture(t *testing.T) (sessions *SessionService, questions *QuestionService, code string, questionID, aliceID uint) {
	t.Helper()

	gormDB := setupTestDB(t)
	sessions = NewSessionService(gormDB)
	questions = NewQuestionService(gormDB)
	ctx := context.Background()

	created, err := sessions.CreateSession(ctx, "Physics", "Dr. X")
	require.NoError(t, err)
	code = created.Code

	_, err = sessions.JoinSession(ctx, code, "Alice")
	require.NoError(t, err)
	aliceID = userByName(t, gormDB, "Alice").ID

	summary, err := sessions.SubmitQuestion(ctx, code, aliceID, "What is entropy?")
	require.NoError(t, err)
	questionID = summary.ID
	return
}

func TestUpdateStatusStampsAnsweredAt(t *testing.T) {
	_, questions, code, questionID, _ := questionFixture(t)
	ctx := context.Background()

	summary, err := questions.UpdateStatus(ctx, code, questionID, models.QuestionStatusAnswered)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionStatusAnswered, summary.Status)
	require.NotNil(t, summary.Author)
	assert.Equal(t, "Alice", summary.Author.DisplayName)

	// Reopening clears the answered timestamp.
	summary, err = questions.UpdateStatus(ctx, code, questionID, models.QuestionStatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionStatusPending, summary.Status)
}

func TestUpdateStatusUnknownQuestion(t *testing.T) {
	_, questions, code, _, _ := questionFixture(t)
	ctx := context.Background()

	_, err := questions.UpdateStatus(ctx, code, 9999, models.QuestionStatusAnswered)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	_, err = questions.UpdateStatus(ctx, "UNKNOWN", 1, models.QuestionStatusAnswered)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = questions.UpdateStatus(ctx, code, 1, "bogus")
	assert.ErrorIs(t, err, ErrInvalidQuestionStatus)
}

func TestToggleVote(t *testing.T) {
	sessions, questions, code, questionID, aliceID := questionFixture(t)
	ctx := context.Background()

	result, err := questions.ToggleVote(ctx, code, questionID, aliceID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.TotalLikes)

	// A second participant's like accumulates.
	_, err = sessions.JoinSession(ctx, code, "Bob")
	require.NoError(t, err)
	listed, err := sessions.GetSessionParticipants(ctx, code)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	bobID := listed[2].User.ID

	result, err = questions.ToggleVote(ctx, code, questionID, bobID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 2, result.TotalLikes)

	// Toggling again removes the like.
	result, err = questions.ToggleVote(ctx, code, questionID, aliceID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, 1, result.TotalLikes)

	// The likes column tracks the counter.
	allQuestions, err := sessions.GetSessionQuestions(ctx, code, "")
	require.NoError(t, err)
	require.Len(t, allQuestions, 1)
	assert.Equal(t, 1, allQuestions[0].Likes)
}

func TestToggleVoteRequiresParticipant(t *testing.T) {
	_, questions, code, questionID, _ := questionFixture(t)
	ctx := context.Background()

	_, err := questions.ToggleVote(ctx, code, questionID, 9999)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestToggleVoteUnknownQuestion(t *testing.T) {
	_, questions, code, _, aliceID := questionFixture(t)
	ctx := context.Background()

	_, err := questions.ToggleVote(ctx, code, 9999, aliceID)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}
