package zone

import "errors"

// Sentinel errors for zone operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrZoneNotFound is returned when the requested zone is not configured.
	ErrZoneNotFound = errors.New("zone: not found")

	// ErrInvalidZoneID is returned when a zone identifier is empty or malformed.
	ErrInvalidZoneID = errors.New("zone: invalid zone id")
)
