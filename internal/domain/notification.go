package domain

import "time"

// NotificationKind categorizes what a notification is about.
type NotificationKind string

const (
	NotificationKindComplaintUpdate NotificationKind = "complaintUpdate"
	NotificationKindAssignment      NotificationKind = "assignment"
	NotificationKindWateringDue     NotificationKind = "wateringDue"
	NotificationKindEvent           NotificationKind = "event"
	NotificationKindSystem          NotificationKind = "system"
)

// Notification is a per-recipient record with an independently mutated
// read flag. Notifications are the only entity supporting deletion, via
// bulk clear-by-user.
type Notification struct {
	ID        string
	UserID    string
	Kind      NotificationKind
	Title     string
	Body      string
	SubjectID string
	Read      bool
	ReadAt    *time.Time
	CreatedAt time.Time
}
