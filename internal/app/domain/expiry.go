package domain

import "time"

const expiryLayout = "2006-01-02"

// ParseExpiry parses a date-only expiration string (YYYY-MM-DD) into midnight
// UTC of that date. An empty string means "never expires" and yields nil.
func ParseExpiry(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(expiryLayout, s, time.UTC)
	if err != nil {
		return nil, ErrInvalidExpiry
	}
	return &t, nil
}

// Expired reports whether the given expiration time has passed. A nil
// expiration never expires.
func Expired(expiresAt *time.Time, now time.Time) bool {
	return expiresAt != nil && expiresAt.Before(now)
}
