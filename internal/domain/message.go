package domain

import "time"

// Message is a free-text message between two users, typically a citizen
// and the municipal office.
type Message struct {
	ID          string
	SenderID    string
	RecipientID string
	Body        string
	Read        bool
	CreatedAt   time.Time
}
