package domain

// Title is an optional display string. An empty title means "no title".
type Title struct {
	value string
}

// NewTitle wraps an optional title. Any content is allowed.
func NewTitle(s string) Title {
	return Title{value: s}
}

// IsSet reports whether a title is present.
func (t Title) IsSet() bool {
	return t.value != ""
}

func (t Title) String() string {
	return t.value
}
