package events

import (
	"time"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventTreeWatered            EventType = "tree_watered"
)

// Event represents a domain event emitted by stores.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	CitizenID string               `json:"citizen_id"`
	Type      domain.ComplaintType `json:"complaint_type"`
	Address   string               `json:"address"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	CitizenID  string                 `json:"citizen_id"`
	EmployeeID *string                `json:"employee_id,omitempty"`
	OldStatus  domain.ComplaintStatus `json:"old_status"`
	NewStatus  domain.ComplaintStatus `json:"new_status"`
	Notes      string                 `json:"notes,omitempty"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	CitizenID  string `json:"citizen_id"`
	EmployeeID string `json:"employee_id"`
}

// TreeWateredPayload payload.
type TreeWateredPayload struct {
	OwnerID   string    `json:"owner_id"`
	WateredAt time.Time `json:"watered_at"`
}
