package domain

import "time"

// Session represents an established authentication session persisted in
// the session cache so auth state survives restarts.
type Session struct {
	ID        string
	UserID    string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
