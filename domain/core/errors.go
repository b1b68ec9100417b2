package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrCampaignNotFound = fmt.Errorf("%w: campaign", ErrNotFound)
	ErrSeriesNotFound   = fmt.Errorf("%w: metric series", ErrNotFound)

	// Validation errors
	ErrValidation     = errors.New("validation failed")
	ErrInvalidSample  = errors.New("invalid proportion sample")
	ErrInvalidRate    = errors.New("rate out of range")
	ErrInvalidHorizon = errors.New("unsupported forecast horizon")
	ErrInvalidLevel   = errors.New("unsupported confidence level")

	// Series errors
	ErrNonContiguous = errors.New("series dates are not contiguous calendar days")
	ErrNegativeValue = errors.New("series values must be non-negative")
)

// NewValidationError builds a field-level validation error that wraps ErrValidation.
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrValidation, field, reason)
}

// IsNotFoundError reports whether err is any not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError reports whether err stems from rejected input rather than
// a fault in the engine itself.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidSample) ||
		errors.Is(err, ErrInvalidRate) ||
		errors.Is(err, ErrInvalidHorizon) ||
		errors.Is(err, ErrInvalidLevel) ||
		errors.Is(err, ErrNonContiguous) ||
		errors.Is(err, ErrNegativeValue)
}
