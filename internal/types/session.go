package types

import "time"

// Identity is the authenticated principal as reported by the identity
// service. Only referenced here, never owned.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is a materialized authentication session.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Session) Identity() Identity {
	return Identity{ID: s.UserID, Email: s.Email}
}
