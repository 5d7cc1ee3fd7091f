package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumate/internal/model"
)

type capturingCreator struct {
	created []model.QuizAttempt
}

func (c *capturingCreator) Create(attempt *model.QuizAttempt) error {
	attempt.ID = uint(len(c.created) + 1)
	c.created = append(c.created, *attempt)
	return nil
}

func TestDirectAttemptRecorder(t *testing.T) {
	store := &capturingCreator{}
	rec := NewDirectAttemptRecorder(store)

	require.NoError(t, rec.Record(context.Background(), model.QuizAttempt{ID: 42, SessionID: "s", Topic: "t", Total: 5, Correct: 2}))
	require.Len(t, store.created, 1)
	assert.Equal(t, uint(1), store.created[0].ID)
	assert.Equal(t, "s", store.created[0].SessionID)
}
