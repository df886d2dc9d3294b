package service

import (
	"errors"
	"fmt"

	"alcyxob/group-fitness/internal/repository"
)

// --- Error Definitions ---
var (
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError rejects bad input. errors.Is(err, ErrValidationFailed)
// holds for every ValidationError.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func groupNotFound(id string) error {
	return &repository.NotFoundError{Kind: "group", ID: id}
}

func workoutNotFound(id string) error {
	return &repository.NotFoundError{Kind: "workout", ID: id}
}

func userNotFound(id string) error {
	return &repository.NotFoundError{Kind: "user", ID: id}
}
