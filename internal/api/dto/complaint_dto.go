package dto

import (
	"time"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// LocationPayload is the wire shape for a geotagged address.
type LocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

func (l LocationPayload) ToDomain() domain.Location {
	return domain.Location{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Address:   l.Address,
	}
}

func locationFromDomain(l domain.Location) LocationPayload {
	return LocationPayload{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Address:   l.Address,
	}
}

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Type        domain.ComplaintType `json:"type"`
	Description string               `json:"description"`
	MediaURLs   []string             `json:"mediaUrls"`
	Location    LocationPayload      `json:"location"`
}

// UpdateComplaintStatusRequest payload.
type UpdateComplaintStatusRequest struct {
	Status domain.ComplaintStatus `json:"status"`
	Notes  string                 `json:"notes"`
}

// AssignComplaintRequest payload.
type AssignComplaintRequest struct {
	EmployeeID string `json:"employeeId"`
}

// ComplaintResponse is the full complaint shape.
type ComplaintResponse struct {
	ID          string                 `json:"id"`
	Type        domain.ComplaintType   `json:"type"`
	Description string                 `json:"description"`
	MediaURLs   []string               `json:"mediaUrls"`
	Location    LocationPayload        `json:"location"`
	Status      domain.ComplaintStatus `json:"status"`
	Notes       string                 `json:"notes,omitempty"`
	CitizenID   string                 `json:"citizenId"`
	EmployeeID  *string                `json:"employeeId,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
	ResolvedAt  *time.Time             `json:"resolvedAt,omitempty"`
}

// ComplaintFromDomain maps a complaint to its response shape.
func ComplaintFromDomain(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:          c.ID,
		Type:        c.Type,
		Description: c.Description,
		MediaURLs:   c.MediaURLs,
		Location:    locationFromDomain(c.Location),
		Status:      c.Status,
		Notes:       c.Notes,
		CitizenID:   c.CitizenID,
		EmployeeID:  c.EmployeeID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		ResolvedAt:  c.ResolvedAt,
	}
}

// ComplaintsFromDomain maps a slice of complaints.
func ComplaintsFromDomain(items []domain.Complaint) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(items))
	for i := range items {
		out = append(out, ComplaintFromDomain(&items[i]))
	}
	return out
}

// ComplaintHistoryResponse is one audit trail entry.
type ComplaintHistoryResponse struct {
	ID          string         `json:"id"`
	ComplaintID string         `json:"complaintId"`
	ChangedBy   *string        `json:"changedBy,omitempty"`
	ChangeType  string         `json:"changeType"`
	OldValue    map[string]any `json:"oldValue,omitempty"`
	NewValue    map[string]any `json:"newValue,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// HistoryFromDomain maps audit entries to their response shape.
func HistoryFromDomain(items []domain.ComplaintHistory) []ComplaintHistoryResponse {
	out := make([]ComplaintHistoryResponse, 0, len(items))
	for _, h := range items {
		out = append(out, ComplaintHistoryResponse{
			ID:          h.ID,
			ComplaintID: h.ComplaintID,
			ChangedBy:   h.ChangedBy,
			ChangeType:  string(h.ChangeType),
			OldValue:    h.OldValue,
			NewValue:    h.NewValue,
			CreatedAt:   h.CreatedAt,
		})
	}
	return out
}
