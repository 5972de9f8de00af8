package models

import "time"

// Session is the persisted operator session: the catalog bearer token and the
// moment it stops being usable (24h after login).
type Session struct {
	ID        string    `json:"-" bson:"_id,omitempty"`
	Token     string    `json:"-" bson:"token"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// Expired reports whether the session is past its validity window.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Token string `json:"token" binding:"required"`
}
