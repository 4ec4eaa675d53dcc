package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/civic-kit/complaint-service/internal/domain"
)

func TestComplaintRowMapping(t *testing.T) {
	employee := "e-1"
	resolvedAt := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
	complaint := domain.Complaint{
		ID:          "c-1",
		Type:        domain.ComplaintTypeWater,
		Description: "burst pipe",
		MediaURLs:   []string{"https://cdn.example.com/1.jpg"},
		Location:    domain.Location{Latitude: 18.52, Longitude: 73.85, Address: "12 Market Road"},
		Status:      domain.ComplaintStatusResolved,
		Notes:       "crew dispatched",
		CitizenID:   "u-1",
		EmployeeID:  &employee,
		ResolvedAt:  &resolvedAt,
	}

	row := complaintToRow(complaint)
	require.Equal(t, "water", row.ComplaintType, "domain type maps onto the complaint_type column")
	require.Equal(t, "resolved", row.Status)
	require.Equal(t, 18.52, row.Latitude)
	require.Equal(t, "12 Market Road", row.Address)

	back := row.toDomain()
	require.Equal(t, complaint, back)
}

func TestComplaintRowMappingUnassigned(t *testing.T) {
	complaint := domain.Complaint{
		ID:        "c-2",
		Type:      domain.ComplaintTypeGarbage,
		Status:    domain.ComplaintStatusPending,
		CitizenID: "u-1",
	}
	back := complaintToRow(complaint).toDomain()
	require.Nil(t, back.EmployeeID, "unassigned stays unassigned across the row boundary")
	require.Nil(t, back.ResolvedAt)
}

func TestAssignClearsResolvedAt(t *testing.T) {
	// Assigning reopens the complaint, so the statement itself must null
	// the resolved timestamp. Leaving it to the caller would let an
	// inProgress row keep a resolved_at from an earlier resolution.
	require.Contains(t, assignComplaintQuery, "resolved_at=NULL")
	require.Contains(t, assignComplaintQuery, "status=$2")
}

func TestUserRowMappingKeepsHash(t *testing.T) {
	user := domain.User{
		ID:           "u-1",
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: "$2a$12$abc",
		Role:         domain.RoleEmployee,
		Status:       domain.UserStatusActive,
	}
	row := userToRow(user)
	require.Equal(t, "employee", row.Role)
	require.Equal(t, user, row.toDomain())
}

func TestEventRowMappingNullableLocation(t *testing.T) {
	venueOnly := domain.Event{
		ID:        "ev-1",
		Title:     "Cleanliness drive",
		Venue:     "Town hall",
		StartsAt:  time.Date(2026, 6, 5, 7, 0, 0, 0, time.UTC),
		Status:    domain.EventStatusScheduled,
		CreatedBy: "a-1",
	}
	row := eventToRow(venueOnly)
	require.Nil(t, row.Latitude)
	require.Nil(t, row.Longitude)
	require.Nil(t, venueOnly.Location)
	require.Nil(t, row.toDomain().Location, "no coordinates means no location on the way back")

	located := venueOnly
	located.Location = &domain.Location{Latitude: 18.5, Longitude: 73.8, Address: "Central Park"}
	back := eventToRow(located).toDomain()
	require.NotNil(t, back.Location)
	require.Equal(t, *located.Location, *back.Location)
}

func TestNotificationRowMapping(t *testing.T) {
	readAt := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	notification := domain.Notification{
		ID:        "n-1",
		UserID:    "u-1",
		Kind:      domain.NotificationKindAssignment,
		Title:     "New assignment",
		Body:      "A complaint has been assigned to you.",
		SubjectID: "c-1",
		Read:      true,
		ReadAt:    &readAt,
	}
	row := notificationToRow(notification)
	require.Equal(t, "assignment", row.Kind)
	require.Equal(t, notification, row.toDomain())
}

func TestTreeRowMapping(t *testing.T) {
	tree := domain.TreeEntry{
		ID:              "t-1",
		OwnerID:         "u-1",
		Species:         "neem",
		PlantedAt:       time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		Location:        domain.Location{Latitude: 18.5, Longitude: 73.8, Address: "Backyard"},
		ImageURLs:       []string{"https://cdn.example.com/t.jpg"},
		ReminderEnabled: true,
		WaterEveryDays:  7,
	}
	back := treeToRow(tree).toDomain()
	// Waterings live in their own table; the row mapping never carries
	// them.
	require.Nil(t, back.Waterings)
	tree.Waterings = nil
	require.Equal(t, tree, back)
}
