package domain

// Content is the required body text of a clip. The zero value is never valid;
// use NewContent so emptiness is rejected at the boundary.
type Content struct {
	value string
}

// NewContent validates and wraps clip body text.
func NewContent(s string) (Content, error) {
	if s == "" {
		return Content{}, ErrEmptyContent
	}
	return Content{value: s}, nil
}

func (c Content) String() string {
	return c.value
}
