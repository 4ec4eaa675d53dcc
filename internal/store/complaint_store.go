package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/events"
	"github.com/civic-kit/complaint-service/internal/persistence"
	"github.com/civic-kit/complaint-service/internal/repository"
	apperrors "github.com/civic-kit/complaint-service/pkg/util"
)

// ComplaintStore owns the complaint collection. Mutations are
// last-write-wins: there is no version check and no conflict error,
// which the domain tolerates because corrections are human-supervised.
type ComplaintStore struct {
	base
	complaints repository.ComplaintRepository
	history    repository.ComplaintHistoryRepository
	dispatcher events.Dispatcher

	items []domain.Complaint
}

// ComplaintStoreDependencies bundles collaborators.
type ComplaintStoreDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	HistoryRepo   repository.ComplaintHistoryRepository
	Dispatcher    events.Dispatcher
	Snapshots     *persistence.SnapshotCache
	Logger        *zap.Logger
	Timeout       time.Duration
}

// NewComplaintStore constructs the store.
func NewComplaintStore(deps ComplaintStoreDependencies) *ComplaintStore {
	return &ComplaintStore{
		base:       newBase("complaints", deps.Timeout, deps.Snapshots, deps.Logger),
		complaints: deps.ComplaintRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ComplaintCreateInput describes complaint creation payload. Required
// fields are validated at the API layer before the store is called.
type ComplaintCreateInput struct {
	CitizenID   string
	Type        domain.ComplaintType
	Description string
	MediaURLs   []string
	Location    domain.Location
}

// FetchAll loads the entire collection, newest first. On failure the
// prior collection stays untouched.
func (s *ComplaintStore) FetchAll(ctx context.Context) ([]domain.Complaint, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	list, err := s.complaints.List(ctx, repository.ComplaintFilter{})
	if err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.items = list
	s.mu.Unlock()
	s.saveSnapshot(list)
	return s.Items(), s.finish(nil)
}

// FetchByCitizen returns the citizen's complaints directly and upserts
// them into the cache. Callers hold the returned slice; the global
// collection is not guaranteed to stay scoped.
func (s *ComplaintStore) FetchByCitizen(ctx context.Context, citizenID string) ([]domain.Complaint, error) {
	return s.fetchScoped(ctx, repository.ComplaintFilter{CitizenID: &citizenID})
}

// FetchByEmployee returns complaints assigned to the employee.
func (s *ComplaintStore) FetchByEmployee(ctx context.Context, employeeID string) ([]domain.Complaint, error) {
	return s.fetchScoped(ctx, repository.ComplaintFilter{EmployeeID: &employeeID})
}

func (s *ComplaintStore) fetchScoped(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	list, err := s.complaints.List(ctx, filter)
	if err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	for _, c := range list {
		s.upsertLocked(c)
	}
	s.mu.Unlock()
	return list, s.finish(nil)
}

// GetByID fetches a single complaint, preferring the gateway so detail
// views see fresh state.
func (s *ComplaintStore) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.upsertLocked(*complaint)
	s.mu.Unlock()
	return complaint, s.finish(nil)
}

// Create inserts a new pending complaint, prepends the canonical record
// to the collection and returns it so the caller can navigate to it.
// Deliberately no de-duplication: two rapid submissions are two
// complaints.
func (s *ComplaintStore) Create(ctx context.Context, input ComplaintCreateInput) (*domain.Complaint, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	complaint := &domain.Complaint{
		Type:        input.Type,
		Description: strings.TrimSpace(input.Description),
		MediaURLs:   input.MediaURLs,
		Location:    input.Location,
		Status:      domain.ComplaintStatusPending,
		CitizenID:   input.CitizenID,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.items = append([]domain.Complaint{*complaint}, s.items...)
	snapshot := append([]domain.Complaint(nil), s.items...)
	s.mu.Unlock()
	s.saveSnapshot(snapshot)

	s.publish(ctx, events.Event{
		Type:      events.EventComplaintCreated,
		SubjectID: complaint.ID,
		ActorID:   input.CitizenID,
		Payload: events.ComplaintCreatedPayload{
			CitizenID: complaint.CitizenID,
			Type:      complaint.Type,
			Address:   complaint.Location.Address,
		},
	})
	return complaint, s.finish(nil)
}

// UpdateStatus sends a targeted update touching only status, notes,
// updatedAt and resolvedAt. ResolvedAt is stamped exactly when the new
// status is resolved and cleared otherwise, so the invariant holds at
// every observed point in time.
func (s *ComplaintStore) UpdateStatus(ctx context.Context, actorID, id string, newStatus domain.ComplaintStatus, notes string) (*domain.Complaint, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	if !domain.ValidComplaintStatus(newStatus) {
		return nil, s.finish(apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus}))
	}

	current, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, s.finish(err)
	}

	var resolvedAt *time.Time
	if newStatus == domain.ComplaintStatusResolved {
		now := time.Now()
		resolvedAt = &now
	}

	updatedAt, err := s.complaints.UpdateStatus(ctx, id, newStatus, notes, resolvedAt)
	if err != nil {
		return nil, s.finish(err)
	}

	oldStatus := current.Status
	updated := *current
	updated.Status = newStatus
	updated.Notes = notes
	updated.UpdatedAt = updatedAt
	updated.ResolvedAt = resolvedAt

	s.mu.Lock()
	s.applyLocked(updated, func(c *domain.Complaint) {
		c.Status = updated.Status
		c.Notes = updated.Notes
		c.UpdatedAt = updated.UpdatedAt
		c.ResolvedAt = updated.ResolvedAt
	})
	s.mu.Unlock()

	s.recordHistory(ctx, &domain.ComplaintHistory{
		ComplaintID: id,
		ChangedBy:   &actorID,
		ChangeType:  domain.ChangeTypeStatus,
		OldValue:    map[string]any{"status": oldStatus},
		NewValue:    map[string]any{"status": newStatus, "notes": notes},
	})
	s.publish(ctx, events.Event{
		Type:      events.EventComplaintStatusChanged,
		SubjectID: id,
		ActorID:   actorID,
		Payload: events.ComplaintStatusChangedPayload{
			CitizenID:  updated.CitizenID,
			EmployeeID: updated.EmployeeID,
			OldStatus:  oldStatus,
			NewStatus:  newStatus,
			Notes:      notes,
		},
	})
	return &updated, s.finish(nil)
}

// Assign sets the assignee and moves the complaint to inProgress in a
// single update. No check is made that the complaint was previously
// unassigned; the last writer wins.
func (s *ComplaintStore) Assign(ctx context.Context, actorID, id, employeeID string) (*domain.Complaint, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	current, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, s.finish(err)
	}

	updatedAt, err := s.complaints.Assign(ctx, id, employeeID, domain.ComplaintStatusInProgress)
	if err != nil {
		return nil, s.finish(err)
	}

	oldAssignee := current.EmployeeID
	updated := *current
	updated.EmployeeID = &employeeID
	updated.Status = domain.ComplaintStatusInProgress
	updated.UpdatedAt = updatedAt
	updated.ResolvedAt = nil

	s.mu.Lock()
	s.applyLocked(updated, func(c *domain.Complaint) {
		c.EmployeeID = updated.EmployeeID
		c.Status = updated.Status
		c.UpdatedAt = updated.UpdatedAt
		c.ResolvedAt = nil
	})
	s.mu.Unlock()

	s.recordHistory(ctx, &domain.ComplaintHistory{
		ComplaintID: id,
		ChangedBy:   &actorID,
		ChangeType:  domain.ChangeTypeAssignee,
		OldValue:    map[string]any{"employee_id": oldAssignee},
		NewValue:    map[string]any{"employee_id": employeeID},
	})
	s.publish(ctx, events.Event{
		Type:      events.EventComplaintAssigned,
		SubjectID: id,
		ActorID:   actorID,
		Payload: events.ComplaintAssignedPayload{
			CitizenID:  updated.CitizenID,
			EmployeeID: employeeID,
		},
	})
	return &updated, s.finish(nil)
}

// History lists the audit trail for a complaint.
func (s *ComplaintStore) History(ctx context.Context, id string) ([]domain.ComplaintHistory, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	entries, err := s.history.ListByComplaint(ctx, id)
	if err != nil {
		return nil, s.finish(err)
	}
	return entries, s.finish(nil)
}

// Items returns a copy of the cached collection.
func (s *ComplaintStore) Items() []domain.Complaint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Complaint(nil), s.items...)
}

// Restore warms the cache from the last snapshot. Used at startup; the
// next fetch overwrites whatever was restored.
func (s *ComplaintStore) Restore(ctx context.Context) {
	var cached []domain.Complaint
	if !s.loadSnapshot(ctx, &cached) {
		return
	}
	s.mu.Lock()
	if len(s.items) == 0 {
		s.items = cached
	}
	s.mu.Unlock()
}

// upsertLocked replaces the cached entry by id or appends. Caller holds
// the lock.
func (s *ComplaintStore) upsertLocked(c domain.Complaint) {
	for i := range s.items {
		if s.items[i].ID == c.ID {
			s.items[i] = c
			return
		}
	}
	s.items = append(s.items, c)
}

// applyLocked mutates the matching cached entry field-selectively,
// leaving every other field as it was. Caller holds the lock.
func (s *ComplaintStore) applyLocked(updated domain.Complaint, mutate func(*domain.Complaint)) {
	for i := range s.items {
		if s.items[i].ID == updated.ID {
			mutate(&s.items[i])
			return
		}
	}
	s.items = append(s.items, updated)
}

func (s *ComplaintStore) recordHistory(ctx context.Context, entry *domain.ComplaintHistory) {
	if s.history == nil {
		return
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Warn("record complaint history failed", zap.Error(err))
	}
}

func (s *ComplaintStore) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
