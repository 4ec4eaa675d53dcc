package dto

import (
	"time"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// CreateEventRequest payload.
type CreateEventRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Venue       string           `json:"venue"`
	Location    *LocationPayload `json:"location"`
	StartsAt    time.Time        `json:"startsAt"`
}

// UpdateEventStatusRequest payload.
type UpdateEventStatusRequest struct {
	Status domain.EventStatus `json:"status"`
}

// EventResponse is the full event shape.
type EventResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Venue       string             `json:"venue"`
	Location    *LocationPayload   `json:"location,omitempty"`
	StartsAt    time.Time          `json:"startsAt"`
	Status      domain.EventStatus `json:"status"`
	CreatedBy   string             `json:"createdBy"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// EventFromDomain maps an event to its response shape.
func EventFromDomain(e *domain.Event) EventResponse {
	resp := EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		StartsAt:    e.StartsAt,
		Status:      e.Status,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Location != nil {
		loc := locationFromDomain(*e.Location)
		resp.Location = &loc
	}
	return resp
}

// EventsFromDomain maps a slice of events.
func EventsFromDomain(items []domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(items))
	for i := range items {
		out = append(out, EventFromDomain(&items[i]))
	}
	return out
}

// CreateScheduleRequest payload.
type CreateScheduleRequest struct {
	EmployeeID string    `json:"employeeId"`
	Title      string    `json:"title"`
	Area       string    `json:"area"`
	StartsAt   time.Time `json:"startsAt"`
	EndsAt     time.Time `json:"endsAt"`
}

// ScheduleResponse is the full schedule shape.
type ScheduleResponse struct {
	ID         string                `json:"id"`
	EmployeeID string                `json:"employeeId"`
	Title      string                `json:"title"`
	Area       string                `json:"area"`
	StartsAt   time.Time             `json:"startsAt"`
	EndsAt     time.Time             `json:"endsAt"`
	Status     domain.ScheduleStatus `json:"status"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

// ScheduleFromDomain maps a schedule to its response shape.
func ScheduleFromDomain(s *domain.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:         s.ID,
		EmployeeID: s.EmployeeID,
		Title:      s.Title,
		Area:       s.Area,
		StartsAt:   s.StartsAt,
		EndsAt:     s.EndsAt,
		Status:     s.Status,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// SchedulesFromDomain maps a slice of schedules.
func SchedulesFromDomain(items []domain.Schedule) []ScheduleResponse {
	out := make([]ScheduleResponse, 0, len(items))
	for i := range items {
		out = append(out, ScheduleFromDomain(&items[i]))
	}
	return out
}

// NotificationResponse is one feed entry.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Kind      domain.NotificationKind `json:"kind"`
	Title     string                  `json:"title"`
	Body      string                  `json:"body"`
	SubjectID string                  `json:"subjectId,omitempty"`
	Read      bool                    `json:"read"`
	ReadAt    *time.Time              `json:"readAt,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}

// NotificationFromDomain maps one notification.
func NotificationFromDomain(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		SubjectID: n.SubjectID,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// NotificationsFromDomain maps a slice of notifications.
func NotificationsFromDomain(items []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for i := range items {
		out = append(out, NotificationFromDomain(&items[i]))
	}
	return out
}

// SendMessageRequest payload.
type SendMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Body        string `json:"body"`
}

// MessageResponse is one direct message.
type MessageResponse struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Body        string    `json:"body"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MessageFromDomain maps one message.
func MessageFromDomain(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Body:        m.Body,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt,
	}
}

// MessagesFromDomain maps a slice of messages.
func MessagesFromDomain(items []domain.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(items))
	for i := range items {
		out = append(out, MessageFromDomain(&items[i]))
	}
	return out
}

// SetUserStatusRequest payload for admin suspend/reactivate.
type SetUserStatusRequest struct {
	Status domain.UserStatus `json:"status"`
}

// UsersFromDomain maps a slice of users.
func UsersFromDomain(items []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(items))
	for i := range items {
		out = append(out, UserFromDomain(&items[i]))
	}
	return out
}
