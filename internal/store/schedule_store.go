package store

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/persistence"
	"github.com/civic-kit/complaint-service/internal/repository"
	apperrors "github.com/civic-kit/complaint-service/pkg/util"
)

// ScheduleStore owns employee work schedules.
type ScheduleStore struct {
	base
	schedules repository.ScheduleRepository

	items []domain.Schedule
}

// NewScheduleStore constructs the store.
func NewScheduleStore(repo repository.ScheduleRepository, snapshots *persistence.SnapshotCache, logger *zap.Logger, timeout time.Duration) *ScheduleStore {
	return &ScheduleStore{
		base:      newBase("schedules", timeout, snapshots, logger),
		schedules: repo,
	}
}

// ScheduleCreateInput describes schedule assignment payload.
type ScheduleCreateInput struct {
	EmployeeID string
	Title      string
	Area       string
	StartsAt   time.Time
	EndsAt     time.Time
}

// FetchAll loads every schedule, newest first.
func (s *ScheduleStore) FetchAll(ctx context.Context) ([]domain.Schedule, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	list, err := s.schedules.List(ctx)
	if err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.items = list
	s.mu.Unlock()
	s.saveSnapshot(list)
	return s.Items(), s.finish(nil)
}

// FetchByEmployee loads the schedules assigned to one employee. The
// scoped slice is returned while the cache keeps a union of everything
// fetched so far.
func (s *ScheduleStore) FetchByEmployee(ctx context.Context, employeeID string) ([]domain.Schedule, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	list, err := s.schedules.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	for i := range list {
		s.upsertLocked(list[i])
	}
	s.mu.Unlock()
	return list, s.finish(nil)
}

// Create assigns a schedule to an employee.
func (s *ScheduleStore) Create(ctx context.Context, input ScheduleCreateInput) (*domain.Schedule, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	if !input.EndsAt.After(input.StartsAt) {
		return nil, s.finish(apperrors.NewValidationError("shift must end after it starts", nil))
	}

	schedule := &domain.Schedule{
		EmployeeID: input.EmployeeID,
		Title:      strings.TrimSpace(input.Title),
		Area:       strings.TrimSpace(input.Area),
		StartsAt:   input.StartsAt,
		EndsAt:     input.EndsAt,
		Status:     domain.ScheduleStatusPlanned,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.items = append([]domain.Schedule{*schedule}, s.items...)
	s.mu.Unlock()
	return schedule, s.finish(nil)
}

// MarkCompleted flips a planned schedule to completed.
func (s *ScheduleStore) MarkCompleted(ctx context.Context, id string) (*domain.Schedule, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	updatedAt, err := s.schedules.UpdateStatus(ctx, id, domain.ScheduleStatusCompleted)
	if err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	var updated *domain.Schedule
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Status = domain.ScheduleStatusCompleted
			s.items[i].UpdatedAt = updatedAt
			clone := s.items[i]
			updated = &clone
			break
		}
	}
	s.mu.Unlock()

	if updated == nil {
		updated = &domain.Schedule{ID: id, Status: domain.ScheduleStatusCompleted, UpdatedAt: updatedAt}
	}
	return updated, s.finish(nil)
}

// Items returns a copy of the cached collection.
func (s *ScheduleStore) Items() []domain.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Schedule(nil), s.items...)
}

func (s *ScheduleStore) upsertLocked(item domain.Schedule) {
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			return
		}
	}
	s.items = append(s.items, item)
}
