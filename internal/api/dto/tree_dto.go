package dto

import (
	"time"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// CreateTreeRequest payload.
type CreateTreeRequest struct {
	Species         string          `json:"species"`
	PlantedAt       time.Time       `json:"plantedAt"`
	Location        LocationPayload `json:"location"`
	ImageURLs       []string        `json:"imageUrls"`
	ReminderEnabled bool            `json:"reminderEnabled"`
	WaterEveryDays  int             `json:"waterEveryDays"`
}

// UpdateWateringConfigRequest payload.
type UpdateWateringConfigRequest struct {
	ReminderEnabled bool `json:"reminderEnabled"`
	WaterEveryDays  int  `json:"waterEveryDays"`
}

// AddWateringRequest payload. WateredAt defaults to now when omitted.
type AddWateringRequest struct {
	WateredAt *time.Time `json:"wateredAt"`
	PhotoURL  *string    `json:"photoUrl"`
}

// WateringResponse is one watering history entry.
type WateringResponse struct {
	ID        string    `json:"id"`
	TreeID    string    `json:"treeId"`
	WateredAt time.Time `json:"wateredAt"`
	PhotoURL  *string   `json:"photoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TreeResponse is the full tree shape with its watering history.
type TreeResponse struct {
	ID              string             `json:"id"`
	OwnerID         string             `json:"ownerId"`
	Species         string             `json:"species"`
	PlantedAt       time.Time          `json:"plantedAt"`
	Location        LocationPayload    `json:"location"`
	ImageURLs       []string           `json:"imageUrls"`
	ReminderEnabled bool               `json:"reminderEnabled"`
	WaterEveryDays  int                `json:"waterEveryDays"`
	LastWateredAt   *time.Time         `json:"lastWateredAt,omitempty"`
	Waterings       []WateringResponse `json:"waterings"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// WateringFromDomain maps one watering entry.
func WateringFromDomain(w *domain.Watering) WateringResponse {
	return WateringResponse{
		ID:        w.ID,
		TreeID:    w.TreeID,
		WateredAt: w.WateredAt,
		PhotoURL:  w.PhotoURL,
		CreatedAt: w.CreatedAt,
	}
}

// TreeFromDomain maps a tree to its response shape.
func TreeFromDomain(t *domain.TreeEntry) TreeResponse {
	waterings := make([]WateringResponse, 0, len(t.Waterings))
	for i := range t.Waterings {
		waterings = append(waterings, WateringFromDomain(&t.Waterings[i]))
	}
	resp := TreeResponse{
		ID:              t.ID,
		OwnerID:         t.OwnerID,
		Species:         t.Species,
		PlantedAt:       t.PlantedAt,
		Location:        locationFromDomain(t.Location),
		ImageURLs:       t.ImageURLs,
		ReminderEnabled: t.ReminderEnabled,
		WaterEveryDays:  t.WaterEveryDays,
		Waterings:       waterings,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	if last := t.LastWateredAt(); !last.IsZero() {
		resp.LastWateredAt = &last
	}
	return resp
}

// TreesFromDomain maps a slice of trees.
func TreesFromDomain(items []domain.TreeEntry) []TreeResponse {
	out := make([]TreeResponse, 0, len(items))
	for i := range items {
		out = append(out, TreeFromDomain(&items[i]))
	}
	return out
}
