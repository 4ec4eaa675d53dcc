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
)

// TreeStore owns the tree collection. Watering history is append-only:
// entries are added, never edited or removed.
type TreeStore struct {
	base
	trees      repository.TreeRepository
	dispatcher events.Dispatcher

	items []domain.TreeEntry
}

// TreeStoreDependencies bundles collaborators.
type TreeStoreDependencies struct {
	TreeRepo   repository.TreeRepository
	Dispatcher events.Dispatcher
	Snapshots  *persistence.SnapshotCache
	Logger     *zap.Logger
	Timeout    time.Duration
}

// NewTreeStore constructs the store.
func NewTreeStore(deps TreeStoreDependencies) *TreeStore {
	return &TreeStore{
		base:       newBase("trees", deps.Timeout, deps.Snapshots, deps.Logger),
		trees:      deps.TreeRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TreeCreateInput describes tree registration payload.
type TreeCreateInput struct {
	OwnerID         string
	Species         string
	PlantedAt       time.Time
	Location        domain.Location
	ImageURLs       []string
	ReminderEnabled bool
	WaterEveryDays  int
}

// FetchAll loads every tree with its watering history.
func (s *TreeStore) FetchAll(ctx context.Context) ([]domain.TreeEntry, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	list, err := s.trees.List(ctx)
	if err != nil {
		return nil, s.finish(err)
	}
	if err := s.attachWaterings(ctx, list); err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.items = list
	s.mu.Unlock()
	s.saveSnapshot(list)
	return s.Items(), s.finish(nil)
}

// FetchByOwner returns the owner's trees directly and upserts them into
// the cache.
func (s *TreeStore) FetchByOwner(ctx context.Context, ownerID string) ([]domain.TreeEntry, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	list, err := s.trees.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.finish(err)
	}
	if err := s.attachWaterings(ctx, list); err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	for _, tree := range list {
		s.upsertLocked(tree)
	}
	s.mu.Unlock()
	return list, s.finish(nil)
}

// Create registers a tree and prepends the canonical record.
func (s *TreeStore) Create(ctx context.Context, input TreeCreateInput) (*domain.TreeEntry, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	tree := &domain.TreeEntry{
		OwnerID:         input.OwnerID,
		Species:         strings.TrimSpace(input.Species),
		PlantedAt:       input.PlantedAt,
		Location:        input.Location,
		ImageURLs:       input.ImageURLs,
		ReminderEnabled: input.ReminderEnabled,
		WaterEveryDays:  input.WaterEveryDays,
	}
	if err := s.trees.Create(ctx, tree); err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	s.items = append([]domain.TreeEntry{*tree}, s.items...)
	snapshot := append([]domain.TreeEntry(nil), s.items...)
	s.mu.Unlock()
	s.saveSnapshot(snapshot)
	return tree, s.finish(nil)
}

// UpdateWateringConfig changes the reminder flag and frequency only.
func (s *TreeStore) UpdateWateringConfig(ctx context.Context, id string, reminderEnabled bool, waterEveryDays int) (*domain.TreeEntry, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	tree, err := s.trees.GetByID(ctx, id)
	if err != nil {
		return nil, s.finish(err)
	}
	updatedAt, err := s.trees.UpdateWateringConfig(ctx, id, reminderEnabled, waterEveryDays)
	if err != nil {
		return nil, s.finish(err)
	}

	updated := *tree
	updated.ReminderEnabled = reminderEnabled
	updated.WaterEveryDays = waterEveryDays
	updated.UpdatedAt = updatedAt

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].ReminderEnabled = reminderEnabled
			s.items[i].WaterEveryDays = waterEveryDays
			s.items[i].UpdatedAt = updatedAt
			break
		}
	}
	s.mu.Unlock()
	return &updated, s.finish(nil)
}

// AddWatering appends a watering entry to the tree's history.
func (s *TreeStore) AddWatering(ctx context.Context, treeID string, wateredAt time.Time, photoURL *string) (*domain.Watering, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	tree, err := s.trees.GetByID(ctx, treeID)
	if err != nil {
		return nil, s.finish(err)
	}
	if wateredAt.IsZero() {
		wateredAt = time.Now()
	}
	watering := &domain.Watering{
		TreeID:    treeID,
		WateredAt: wateredAt,
		PhotoURL:  photoURL,
	}
	if err := s.trees.AddWatering(ctx, watering); err != nil {
		return nil, s.finish(err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == treeID {
			s.items[i].Waterings = append(s.items[i].Waterings, *watering)
			break
		}
	}
	s.mu.Unlock()

	s.publish(ctx, events.Event{
		Type:      events.EventTreeWatered,
		SubjectID: treeID,
		ActorID:   tree.OwnerID,
		Payload: events.TreeWateredPayload{
			OwnerID:   tree.OwnerID,
			WateredAt: wateredAt,
		},
	})
	return watering, s.finish(nil)
}

// GetByID fetches a single tree with its watering history.
func (s *TreeStore) GetByID(ctx context.Context, id string) (*domain.TreeEntry, error) {
	s.begin()
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	tree, err := s.trees.GetByID(ctx, id)
	if err != nil {
		return nil, s.finish(err)
	}
	waterings, err := s.trees.ListWaterings(ctx, id)
	if err != nil {
		return nil, s.finish(err)
	}
	tree.Waterings = waterings

	s.mu.Lock()
	s.upsertLocked(*tree)
	s.mu.Unlock()
	return tree, s.finish(nil)
}

// Items returns a copy of the cached collection.
func (s *TreeStore) Items() []domain.TreeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.TreeEntry(nil), s.items...)
}

func (s *TreeStore) attachWaterings(ctx context.Context, trees []domain.TreeEntry) error {
	for i := range trees {
		waterings, err := s.trees.ListWaterings(ctx, trees[i].ID)
		if err != nil {
			return err
		}
		trees[i].Waterings = waterings
	}
	return nil
}

func (s *TreeStore) upsertLocked(tree domain.TreeEntry) {
	for i := range s.items {
		if s.items[i].ID == tree.ID {
			s.items[i] = tree
			return
		}
	}
	s.items = append(s.items, tree)
}

func (s *TreeStore) publish(ctx context.Context, event events.Event) {
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
