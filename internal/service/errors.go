// Package service provides business logic for the application.
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/microshop/microshop/internal/repository"
)

// Service errors.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidID         = errors.New("invalid identifier")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrAggregationFailed = errors.New("aggregation failed")
)

// ValidationError reports missing or malformed input fields.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return strings.Join(e.Fields, " & ") + " required"
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// mapStoreError converts repository errors into service errors.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrProductNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrInvalidID):
		return ErrInvalidID
	default:
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
}
