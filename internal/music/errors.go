package music

import "errors"

// Sentinel errors for music command operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrValidation is returned when a command or playlist update fails
	// validation. The wrapping error describes the specific field.
	ErrValidation = errors.New("music: validation failed")

	// ErrPublish is returned when a validated command cannot be delivered
	// to the broker.
	ErrPublish = errors.New("music: publish failed")
)
