package domain

import "time"

// EventStatus enumerates lifecycle states for community events.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is an admin-published community event such as a cleanliness
// drive or plantation camp.
type Event struct {
	ID          string
	Title       string
	Description string
	Venue       string
	Location    *Location
	StartsAt    time.Time
	Status      EventStatus
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
