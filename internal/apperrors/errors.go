package apperrors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidAmount indicates a negative count or amount, or a non-positive unit value.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrSequence indicates an out-of-order mutation of a draft, such as re-dating a count
// after breakdown lines were entered.
var ErrSequence = errors.New("sequence error")

// ErrInvalidTransition indicates a workflow operation that is not allowed in the current state.
var ErrInvalidTransition = errors.New("invalid workflow transition")

// ErrZeroTotalConfirmation indicates that advancing a count with a zero grand total
// requires explicit operator confirmation.
var ErrZeroTotalConfirmation = errors.New("zero total requires confirmation")

// ErrCommitInProgress indicates a commit is already pending for the session.
var ErrCommitInProgress = errors.New("commit already in progress")

// ErrCommitFailed indicates the persistence write of a committed record failed.
// The draft is left untouched so the operator can retry.
var ErrCommitFailed = errors.New("commit failed")

// ValidationError reports which witness slots are still empty when a commit is attempted.
type ValidationError struct {
	MissingWitnesses []int
}

func (e *ValidationError) Error() string {
	slots := make([]string, len(e.MissingWitnesses))
	for i, s := range e.MissingWitnesses {
		slots[i] = strconv.Itoa(s)
	}
	return fmt.Sprintf("validation error: missing witnesses in slot(s) %s", strings.Join(slots, ", "))
}

// Unwrap lets errors.Is(err, ErrValidation) match a ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// AppError carries an HTTP-like status code alongside a wrapped cause.
// Adapters use it to annotate infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}
