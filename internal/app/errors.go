package app

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNoContext       = errors.New("no document context in session")
	ErrSessionNotFound = errors.New("session not found")
	ErrNoQuiz          = errors.New("no quiz in session")
	ErrNoPlan          = errors.New("no study plan in session")
)
