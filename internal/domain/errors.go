package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when an input fails validation.
	// It is usually wrapped with a more specific message.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when an update or delete targets a missing record.
	ErrNotFound = errors.New("not found")

	// ErrInvalidUnit is returned for a linear unit other than "cm" or "in".
	ErrInvalidUnit = errors.New("unit must be \"cm\" or \"in\"")

	// ErrInvalidSex is returned for a sex other than "male" or "female".
	ErrInvalidSex = errors.New("sex must be \"male\" or \"female\"")

	// ErrInvalidField is returned when a field name is not tracked.
	ErrInvalidField = errors.New("unknown measurement field")

	// ErrInvalidFormula is returned for an unknown body-fat formula.
	ErrInvalidFormula = errors.New("unknown body fat formula")
)
