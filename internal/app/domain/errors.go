package domain

import "errors"

var (
	// ErrEmptyContent signals that a clip was submitted without body text.
	ErrEmptyContent = errors.New("clip content must not be empty")
	// ErrInvalidExpiry signals a malformed expiration date string.
	ErrInvalidExpiry = errors.New("expiration date must be formatted as YYYY-MM-DD")
)
