package app

import (
	"context"

	"edumate/internal/model"
)

type attemptCreator interface {
	Create(attempt *model.QuizAttempt) error
}

// DirectAttemptRecorder writes attempts straight to the store; used when no
// broker is configured.
type DirectAttemptRecorder struct {
	store attemptCreator
}

func NewDirectAttemptRecorder(store attemptCreator) *DirectAttemptRecorder {
	return &DirectAttemptRecorder{store: store}
}

func (r *DirectAttemptRecorder) Record(_ context.Context, attempt model.QuizAttempt) error {
	attempt.ID = 0
	return r.store.Create(&attempt)
}
