package repository

import "errors"

var (
	ErrRecordNotFound    = errors.New("chat record not found")
	ErrEmptyPatch        = errors.New("patch has no fields")
	ErrImmutableField    = errors.New("field cannot be modified")
	ErrUnknownField      = errors.New("unknown field")
	ErrInvalidPatchValue = errors.New("invalid patch value")
)

// PersistenceError reports a failed storage operation. Callers treat it as
// fatal to the single operation only.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + " failed: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
