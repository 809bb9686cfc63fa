package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidInput indicates that the provided input data is invalid.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")
	// ErrStorage indicates an object storage error.
	ErrStorage = errors.New("storage error")
)

// NewInvalidInput wraps ErrInvalidInput with a formatted detail message so
// callers can both match with errors.Is and surface the detail to the user.
func NewInvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
