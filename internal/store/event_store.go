package store

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/persistence"
	"github.com/civic-kit/complaint-service/internal/repository"
)

// EventStore owns the community event collection.
type EventStore struct {
	base
	events repository.EventRepository

	items []domain.Event
}

// NewEventStore constructs the store.
func NewEventStore(repo repository.EventRepository, snapshots *persistence.SnapshotCache, logger *zap.Logger, timeout time.Duration) *EventStore {
	return &EventStore{
		base:   newBase("events", timeout, snapshots, logger),
		events: repo,
	}
}

// EventCreateInput describes event publication payload.
type EventCreateInput struct {
	CreatedBy   string
	Title       string
	Description string
	Venue       string
	Location    *domain.Location
	StartsAt    time.Time
}

// FetchAll loads every event, newest first.
func (s *EventStore) FetchAll(ctx context.Context) ([]domain.Event, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	list, err := s.events.List(ctx)
	if err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.items = list
	s.mu.Unlock()
	s.saveSnapshot(list)
	return s.Items(), s.finish(nil)
}

// Create publishes an event and prepends the canonical record.
func (s *EventStore) Create(ctx context.Context, input EventCreateInput) (*domain.Event, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	event := &domain.Event{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Venue:       strings.TrimSpace(input.Venue),
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		Status:      domain.EventStatusScheduled,
		CreatedBy:   input.CreatedBy,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.items = append([]domain.Event{*event}, s.items...)
	snapshot := append([]domain.Event(nil), s.items...)
	s.mu.Unlock()
	s.saveSnapshot(snapshot)
	return event, s.finish(nil)
}

// UpdateStatus marks an event completed or cancelled, touching only the
// status and updatedAt fields.
func (s *EventStore) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, s.finish(err)
	}
	updatedAt, err := s.events.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, s.finish(err)
	}

	updated := *event
	updated.Status = status
	updated.UpdatedAt = updatedAt

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Status = status
			s.items[i].UpdatedAt = updatedAt
			break
		}
	}
	s.mu.Unlock()
	return &updated, s.finish(nil)
}

// Items returns a copy of the cached collection.
func (s *EventStore) Items() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Event(nil), s.items...)
}
