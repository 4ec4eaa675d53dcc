package domain

import "time"

// ScheduleStatus enumerates states for a work shift.
type ScheduleStatus string

const (
	ScheduleStatusPlanned   ScheduleStatus = "planned"
	ScheduleStatusCompleted ScheduleStatus = "completed"
)

// Schedule is a work shift assigned to a municipal employee.
type Schedule struct {
	ID         string
	EmployeeID string
	Title      string
	Area       string
	StartsAt   time.Time
	EndsAt     time.Time
	Status     ScheduleStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
