package domain

import "time"

// ComplaintType enumerates issue categories citizens can report.
type ComplaintType string

const (
	ComplaintTypeGarbage     ComplaintType = "garbage"
	ComplaintTypeRoad        ComplaintType = "road"
	ComplaintTypeWater       ComplaintType = "water"
	ComplaintTypeElectricity ComplaintType = "electricity"
	ComplaintTypeSanitation  ComplaintType = "sanitation"
	ComplaintTypeStreetlight ComplaintType = "streetlight"
	ComplaintTypeOther       ComplaintType = "other"
)

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusInProgress ComplaintStatus = "inProgress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusRejected   ComplaintStatus = "rejected"
)

// Location is a geotagged street address.
type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// Complaint is the aggregate for citizen-reported municipal issues.
// Complaints are never deleted; ResolvedAt is set exactly when the
// status is resolved.
type Complaint struct {
	ID          string
	Type        ComplaintType
	Description string
	MediaURLs   []string
	Location    Location
	Status      ComplaintStatus
	Notes       string
	CitizenID   string
	EmployeeID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  *time.Time
}

// ValidComplaintType reports whether the value is a known category.
func ValidComplaintType(t ComplaintType) bool {
	switch t {
	case ComplaintTypeGarbage, ComplaintTypeRoad, ComplaintTypeWater,
		ComplaintTypeElectricity, ComplaintTypeSanitation,
		ComplaintTypeStreetlight, ComplaintTypeOther:
		return true
	}
	return false
}

// ValidComplaintStatus reports whether the value is a known status.
func ValidComplaintStatus(s ComplaintStatus) bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress,
		ComplaintStatusResolved, ComplaintStatusRejected:
		return true
	}
	return false
}

// StatusPriority orders complaint statuses for task lists: actionable
// work sorts ahead of finished work.
func StatusPriority(s ComplaintStatus) int {
	switch s {
	case ComplaintStatusPending:
		return 0
	case ComplaintStatusInProgress:
		return 1
	case ComplaintStatusResolved:
		return 2
	case ComplaintStatusRejected:
		return 3
	}
	return 4
}
