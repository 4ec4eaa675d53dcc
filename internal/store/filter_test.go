package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/civic-kit/complaint-service/internal/domain"
)

func sampleComplaints() []domain.Complaint {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Complaint{
		{ID: "c-1", Type: domain.ComplaintTypeGarbage, Status: domain.ComplaintStatusResolved,
			Description: "overflowing bin near market", CreatedAt: base},
		{ID: "c-2", Type: domain.ComplaintTypeRoad, Status: domain.ComplaintStatusPending,
			Description: "pothole on main street", CreatedAt: base.Add(1 * time.Hour)},
		{ID: "c-3", Type: domain.ComplaintTypeWater, Status: domain.ComplaintStatusInProgress,
			Description: "burst pipe", Location: domain.Location{Address: "12 Market Road"},
			CreatedAt: base.Add(2 * time.Hour)},
		{ID: "c-4", Type: domain.ComplaintTypeRoad, Status: domain.ComplaintStatusPending,
			Description: "broken divider", CreatedAt: base.Add(3 * time.Hour)},
		{ID: "c-5", Type: domain.ComplaintTypeStreetlight, Status: domain.ComplaintStatusRejected,
			Description: "lamp flickers", CreatedAt: base.Add(4 * time.Hour)},
	}
}

func TestFilterComplaintsOrdersByStatusThenRecency(t *testing.T) {
	got := FilterComplaints(sampleComplaints(), "", "", "")
	ids := make([]string, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	// pending first (newest of the two pending ahead), then inProgress,
	// resolved, rejected.
	require.Equal(t, []string{"c-4", "c-2", "c-3", "c-1", "c-5"}, ids)
}

func TestFilterComplaintsByStatus(t *testing.T) {
	got := FilterComplaints(sampleComplaints(), "", domain.ComplaintStatusPending, "")
	require.Len(t, got, 2)
	for _, c := range got {
		require.Equal(t, domain.ComplaintStatusPending, c.Status)
	}
}

func TestFilterComplaintsByType(t *testing.T) {
	got := FilterComplaints(sampleComplaints(), "", "", domain.ComplaintTypeRoad)
	require.Len(t, got, 2)
	for _, c := range got {
		require.Equal(t, domain.ComplaintTypeRoad, c.Type)
	}
}

func TestFilterComplaintsCombinesFilters(t *testing.T) {
	got := FilterComplaints(sampleComplaints(), "", domain.ComplaintStatusPending, domain.ComplaintTypeRoad)
	require.Len(t, got, 2)

	got = FilterComplaints(sampleComplaints(), "", domain.ComplaintStatusResolved, domain.ComplaintTypeRoad)
	require.Empty(t, got)
}

func TestFilterComplaintsSearchMatchesSeveralFields(t *testing.T) {
	items := sampleComplaints()

	byDescription := FilterComplaints(items, "POTHOLE", "", "")
	require.Len(t, byDescription, 1)
	require.Equal(t, "c-2", byDescription[0].ID)

	// "market" hits both a description and an address.
	byAddress := FilterComplaints(items, "market", "", "")
	require.Len(t, byAddress, 2)

	byID := FilterComplaints(items, "c-5", "", "")
	require.Len(t, byID, 1)

	byType := FilterComplaints(items, "streetlight", "", "")
	require.Len(t, byType, 1)

	nothing := FilterComplaints(items, "no such complaint", "", "")
	require.Empty(t, nothing)
}

func TestFilterComplaintsDoesNotMutateInput(t *testing.T) {
	items := sampleComplaints()
	originalOrder := []string{items[0].ID, items[1].ID, items[2].ID, items[3].ID, items[4].ID}

	_ = FilterComplaints(items, "", "", "")
	for i, id := range originalOrder {
		require.Equal(t, id, items[i].ID)
	}
}

func TestFilterComplaintsIsIdempotent(t *testing.T) {
	once := FilterComplaints(sampleComplaints(), "", "", "")
	twice := FilterComplaints(once, "", "", "")
	require.Equal(t, once, twice)
}

func TestFilterComplaintsEmptyInput(t *testing.T) {
	require.Empty(t, FilterComplaints(nil, "anything", domain.ComplaintStatusPending, domain.ComplaintTypeRoad))
}
