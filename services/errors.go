package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound reports a referenced post, group, comment or user that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAuthRequired reports an operation that needs an authenticated viewer.
	ErrAuthRequired = errors.New("authentication required")
	// ErrForbidden reports an authenticated actor that may not touch the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict reports a uniqueness violation such as a taken username or slug.
	ErrConflict = errors.New("conflict")
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes rejected input. Input holds the value as submitted so
// callers can hand it back for correction.
type ValidationError struct {
	Field  string
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, input, reason string) error {
	return &ValidationError{Field: field, Input: input, Reason: reason}
}

func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNotFound}, args...)...)
}

// storeErr translates gorm's missing-record error into ErrNotFound.
func storeErr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(format, args...)
	}
	return err
}

// writeErr translates a unique index violation into ErrConflict.
func writeErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
