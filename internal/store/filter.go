package store

import (
	"sort"
	"strings"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// FilterComplaints applies free-text search plus independent status and
// type filters, then sorts by status priority (pending < inProgress <
// resolved < rejected) with ties broken by creation time descending.
// The sort is stable and the function is pure: the input slice is never
// mutated, and applying it twice yields the same result as once.
func FilterComplaints(items []domain.Complaint, search string, status domain.ComplaintStatus, ctype domain.ComplaintType) []domain.Complaint {
	result := make([]domain.Complaint, 0, len(items))

	needle := strings.ToLower(strings.TrimSpace(search))
	for _, c := range items {
		if needle != "" && !matchesSearch(c, needle) {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		if ctype != "" && c.Type != ctype {
			continue
		}
		result = append(result, c)
	}

	sort.SliceStable(result, func(i, j int) bool {
		pi, pj := domain.StatusPriority(result[i].Status), domain.StatusPriority(result[j].Status)
		if pi != pj {
			return pi < pj
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result
}

func matchesSearch(c domain.Complaint, needle string) bool {
	for _, field := range []string{
		c.Description,
		c.Location.Address,
		c.ID,
		string(c.Type),
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
