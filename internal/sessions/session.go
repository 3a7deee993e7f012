package sessions

import "time"

// Session is an authenticated editor session identified by an opaque token.
type Session struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Status is the result of validating a token.
type Status struct {
	Valid     bool      `json:"valid"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}
