package domain

import "time"

// Watering is one entry in a tree's watering history. Entries are
// appended, never edited or removed.
type Watering struct {
	ID        string
	TreeID    string
	WateredAt time.Time
	PhotoURL  *string
	CreatedAt time.Time
}

// TreeEntry models a tree registered and cared for by a user.
type TreeEntry struct {
	ID              string
	OwnerID         string
	Species         string
	PlantedAt       time.Time
	Location        Location
	ImageURLs       []string
	ReminderEnabled bool
	WaterEveryDays  int
	Waterings       []Watering
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LastWateredAt returns the most recent watering timestamp, or zero
// when the tree has never been watered.
func (t *TreeEntry) LastWateredAt() time.Time {
	var last time.Time
	for _, w := range t.Waterings {
		if w.WateredAt.After(last) {
			last = w.WateredAt
		}
	}
	return last
}
