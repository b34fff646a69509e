package repository

import "errors"

var (
	// ErrLevelOutOfRange is returned when an energy or mood rating falls
	// outside [1,10]. Out-of-range values are rejected, never clamped.
	ErrLevelOutOfRange = errors.New("level must be between 1 and 10")

	// ErrEmptyTagName is returned when a tag name is empty after trimming.
	ErrEmptyTagName = errors.New("tag name must not be empty")

	// ErrInvalidMediaType is returned for attachment types other than
	// "image" and "voice".
	ErrInvalidMediaType = errors.New("invalid media type")
)
