package domain

// Password is the optional secret gating clip retrieval. An empty string is
// equivalent to "no password set", so the zero value is a valid unset password.
type Password struct {
	value string
}

// NewPassword wraps a password string; empty means unset.
func NewPassword(s string) Password {
	return Password{value: s}
}

// IsSet reports whether a secret is present.
func (p Password) IsSet() bool {
	return p.value != ""
}

// Matches performs the exact-match comparison used for retrieval. A password
// that is not set matches anything.
func (p Password) Matches(candidate Password) bool {
	if !p.IsSet() {
		return true
	}
	return p.value == candidate.value
}

func (p Password) String() string {
	return p.value
}
