package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when no record exists for a tracking id.
	ErrNotFound = errors.New("tracking not found")
	// ErrConflict is returned when creating a record whose tracking id already exists.
	ErrConflict = errors.New("tracking id already exists")
	// ErrValidation is the sentinel wrapped by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrTransientStore marks store connectivity failures that may succeed on retry.
	ErrTransientStore = errors.New("tracking store unavailable")
	// ErrDataQuality marks stored or imported data that cannot be interpreted.
	ErrDataQuality = errors.New("tracking data quality error")
	// ErrGeocodeUnavailable is reported by place search adapters. It never leaves the resolver.
	ErrGeocodeUnavailable = errors.New("geocode unavailable")
)

// ValidationError lists the fields that were missing or invalid in a request.
type ValidationError struct {
	Missing []string
	Invalid []string
}

// NewMissingFieldsError builds a ValidationError for absent required fields.
func NewMissingFieldsError(fields ...string) *ValidationError {
	return &ValidationError{Missing: fields}
}

// Fields returns every offending field, missing ones first.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Missing)+len(e.Invalid))
	fields = append(fields, e.Missing...)
	fields = append(fields, e.Invalid...)
	return fields
}

// Empty reports whether no field was recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 {
		return ErrValidation.Error()
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
