package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumate/internal/model"
)

func TestQuizAttemptStats(t *testing.T) {
	repo := NewQuizAttemptRepository(newTestDB(t))
	require.NoError(t, repo.Initialize())

	empty, err := repo.StatsBySessionID("s1")
	require.NoError(t, err)
	assert.Equal(t, QuizStats{}, empty)

	require.NoError(t, repo.Create(&model.QuizAttempt{SessionID: "s1", Topic: "Algebra", Total: 5, Correct: 3}))
	require.NoError(t, repo.Create(&model.QuizAttempt{SessionID: "s1", Topic: "Algebra", Total: 5, Correct: 4}))
	require.NoError(t, repo.Create(&model.QuizAttempt{SessionID: "s2", Topic: "Cells", Total: 5, Correct: 1}))

	stats, err := repo.StatsBySessionID("s1")
	require.NoError(t, err)
	assert.Equal(t, QuizStats{Taken: 2, Correct: 7}, stats)

	attempts, err := repo.ListBySessionID("s1")
	require.NoError(t, err)
	assert.Len(t, attempts, 2)
}
