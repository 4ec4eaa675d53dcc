package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/events"
	"github.com/civic-kit/complaint-service/internal/repository"
	apperrors "github.com/civic-kit/complaint-service/pkg/util"
)

type MockComplaintRepository struct {
	mock.Mock
}

func (m *MockComplaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockComplaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) List(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, notes string, resolvedAt *time.Time) (time.Time, error) {
	args := m.Called(ctx, id, status, notes, resolvedAt)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockComplaintRepository) Assign(ctx context.Context, id, employeeID string, status domain.ComplaintStatus) (time.Time, error) {
	args := m.Called(ctx, id, employeeID, status)
	return args.Get(0).(time.Time), args.Error(1)
}

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Create(ctx context.Context, history *domain.ComplaintHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.ComplaintHistory, error) {
	args := m.Called(ctx, complaintID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ComplaintHistory), args.Error(1)
}

func newTestComplaintStore(repo repository.ComplaintRepository, history repository.ComplaintHistoryRepository, dispatcher events.Dispatcher) *ComplaintStore {
	return NewComplaintStore(ComplaintStoreDependencies{
		ComplaintRepo: repo,
		HistoryRepo:   history,
		Dispatcher:    dispatcher,
		Timeout:       5 * time.Second,
	})
}

func TestCreateStartsPending(t *testing.T) {
	repo := new(MockComplaintRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Complaint) bool {
		return c.Status == domain.ComplaintStatusPending
	})).Run(func(args mock.Arguments) {
		c := args.Get(1).(*domain.Complaint)
		c.ID = "c-1"
		c.CreatedAt = time.Now()
		c.UpdatedAt = c.CreatedAt
	}).Return(nil)

	s := newTestComplaintStore(repo, nil, nil)
	complaint, err := s.Create(context.Background(), ComplaintCreateInput{
		CitizenID:   "u-1",
		Type:        domain.ComplaintTypeGarbage,
		Description: "overflowing bin",
	})
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusPending, complaint.Status)
	require.Nil(t, complaint.EmployeeID)
	require.Nil(t, complaint.ResolvedAt)
	require.Len(t, s.Items(), 1)
	repo.AssertExpectations(t)
}

func TestCreateNoDeduplication(t *testing.T) {
	repo := new(MockComplaintRepository)
	id := 0
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		id++
		c := args.Get(1).(*domain.Complaint)
		c.ID = string(rune('a' + id))
	}).Return(nil)

	s := newTestComplaintStore(repo, nil, nil)
	input := ComplaintCreateInput{CitizenID: "u-1", Type: domain.ComplaintTypeRoad, Description: "pothole"}
	_, err := s.Create(context.Background(), input)
	require.NoError(t, err)
	_, err = s.Create(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, s.Items(), 2)
}

func TestUpdateStatusStampsResolvedAt(t *testing.T) {
	existing := &domain.Complaint{
		ID:        "c-1",
		Status:    domain.ComplaintStatusInProgress,
		CitizenID: "u-1",
	}
	repo := new(MockComplaintRepository)
	repo.On("GetByID", mock.Anything, "c-1").Return(existing, nil)
	repo.On("UpdateStatus", mock.Anything, "c-1", domain.ComplaintStatusResolved, "done", mock.MatchedBy(func(ts *time.Time) bool {
		return ts != nil
	})).Return(time.Now(), nil)
	history := new(MockHistoryRepository)
	history.On("Create", mock.Anything, mock.Anything).Return(nil)

	s := newTestComplaintStore(repo, history, nil)
	updated, err := s.UpdateStatus(context.Background(), "admin-1", "c-1", domain.ComplaintStatusResolved, "done")
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusResolved, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	repo.AssertExpectations(t)
}

func TestUpdateStatusClearsResolvedAtWhenReopened(t *testing.T) {
	resolvedAt := time.Now().Add(-time.Hour)
	existing := &domain.Complaint{
		ID:         "c-1",
		Status:     domain.ComplaintStatusResolved,
		ResolvedAt: &resolvedAt,
		CitizenID:  "u-1",
	}
	repo := new(MockComplaintRepository)
	repo.On("GetByID", mock.Anything, "c-1").Return(existing, nil)
	repo.On("UpdateStatus", mock.Anything, "c-1", domain.ComplaintStatusInProgress, "", (*time.Time)(nil)).
		Return(time.Now(), nil)
	history := new(MockHistoryRepository)
	history.On("Create", mock.Anything, mock.Anything).Return(nil)

	s := newTestComplaintStore(repo, history, nil)
	updated, err := s.UpdateStatus(context.Background(), "admin-1", "c-1", domain.ComplaintStatusInProgress, "")
	require.NoError(t, err)
	require.Nil(t, updated.ResolvedAt)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := new(MockComplaintRepository)
	s := newTestComplaintStore(repo, nil, nil)

	_, err := s.UpdateStatus(context.Background(), "admin-1", "c-1", domain.ComplaintStatus("archived"), "")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	repo.AssertNotCalled(t, "UpdateStatus")
}

func TestAssignSetsEmployeeAndStatusTogether(t *testing.T) {
	existing := &domain.Complaint{
		ID:        "c-1",
		Status:    domain.ComplaintStatusPending,
		CitizenID: "u-1",
	}
	repo := new(MockComplaintRepository)
	repo.On("GetByID", mock.Anything, "c-1").Return(existing, nil)
	repo.On("Assign", mock.Anything, "c-1", "e-1", domain.ComplaintStatusInProgress).Return(time.Now(), nil)
	history := new(MockHistoryRepository)
	history.On("Create", mock.Anything, mock.Anything).Return(nil)

	s := newTestComplaintStore(repo, history, nil)
	updated, err := s.Assign(context.Background(), "admin-1", "c-1", "e-1")
	require.NoError(t, err)
	require.NotNil(t, updated.EmployeeID)
	require.Equal(t, "e-1", *updated.EmployeeID)
	require.Equal(t, domain.ComplaintStatusInProgress, updated.Status)
}

func TestAssignLastWriteWins(t *testing.T) {
	assignedTo := "e-1"
	existing := &domain.Complaint{
		ID:         "c-1",
		Status:     domain.ComplaintStatusInProgress,
		EmployeeID: &assignedTo,
		CitizenID:  "u-1",
	}
	repo := new(MockComplaintRepository)
	repo.On("GetByID", mock.Anything, "c-1").Return(existing, nil)
	repo.On("Assign", mock.Anything, "c-1", "e-2", domain.ComplaintStatusInProgress).Return(time.Now(), nil)
	history := new(MockHistoryRepository)
	history.On("Create", mock.Anything, mock.Anything).Return(nil)

	s := newTestComplaintStore(repo, history, nil)
	updated, err := s.Assign(context.Background(), "admin-1", "c-1", "e-2")
	require.NoError(t, err)
	require.Equal(t, "e-2", *updated.EmployeeID)
}

func TestAssignReopensResolvedComplaint(t *testing.T) {
	resolvedAt := time.Now().Add(-time.Hour)
	existing := &domain.Complaint{
		ID:         "c-1",
		Status:     domain.ComplaintStatusResolved,
		CitizenID:  "u-1",
		ResolvedAt: &resolvedAt,
	}
	repo := new(MockComplaintRepository)
	repo.On("GetByID", mock.Anything, "c-1").Return(existing, nil)
	repo.On("Assign", mock.Anything, "c-1", "e-1", domain.ComplaintStatusInProgress).Return(time.Now(), nil)
	history := new(MockHistoryRepository)
	history.On("Create", mock.Anything, mock.Anything).Return(nil)

	s := newTestComplaintStore(repo, history, nil)
	updated, err := s.Assign(context.Background(), "admin-1", "c-1", "e-1")
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusInProgress, updated.Status)
	require.Nil(t, updated.ResolvedAt, "a reopened complaint sheds its resolved timestamp")
}

func TestFetchFailurePreservesCollection(t *testing.T) {
	repo := new(MockComplaintRepository)
	repo.On("List", mock.Anything, mock.Anything).Return([]domain.Complaint{{ID: "c-1"}}, nil).Once()
	repo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()

	s := newTestComplaintStore(repo, nil, nil)
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, s.Items(), 1)

	_, err = s.FetchAll(context.Background())
	require.Error(t, err)
	require.Len(t, s.Items(), 1, "failed fetch must leave the prior collection untouched")
	require.NotEmpty(t, s.Err())
}

func TestErrorIsRecordedAndReturned(t *testing.T) {
	repo := new(MockComplaintRepository)
	repo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	s := newTestComplaintStore(repo, nil, nil)
	_, err := s.FetchAll(context.Background())
	require.Error(t, err, "the failure must be returned, not only recorded")
	require.NotEmpty(t, s.Err(), "the failure must be recorded, not only returned")
	require.False(t, s.Loading())

	s.ClearError()
	require.Empty(t, s.Err())
}

func TestTimeoutSurfacesAsGatewayTimeout(t *testing.T) {
	repo := new(MockComplaintRepository)
	repo.On("List", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded)

	s := newTestComplaintStore(repo, nil, nil)
	_, err := s.FetchAll(context.Background())
	require.Error(t, err)
	require.True(t, apperrors.IsTimeout(err))
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "GATEWAY_TIMEOUT", domainErr.Code)
}

func TestStatusChangePublishesEvent(t *testing.T) {
	existing := &domain.Complaint{ID: "c-1", Status: domain.ComplaintStatusPending, CitizenID: "u-1"}
	repo := new(MockComplaintRepository)
	repo.On("GetByID", mock.Anything, "c-1").Return(existing, nil)
	repo.On("UpdateStatus", mock.Anything, "c-1", domain.ComplaintStatusRejected, "duplicate", (*time.Time)(nil)).
		Return(time.Now(), nil)
	history := new(MockHistoryRepository)
	history.On("Create", mock.Anything, mock.Anything).Return(nil)

	dispatcher := events.NewInMemoryDispatcher(nil)
	var received []events.Event
	dispatcher.Subscribe(events.EventComplaintStatusChanged, func(_ context.Context, e events.Event) error {
		received = append(received, e)
		return nil
	})

	s := newTestComplaintStore(repo, history, dispatcher)
	_, err := s.UpdateStatus(context.Background(), "admin-1", "c-1", domain.ComplaintStatusRejected, "duplicate")
	require.NoError(t, err)
	require.Len(t, received, 1)
	payload := received[0].Payload.(events.ComplaintStatusChangedPayload)
	require.Equal(t, domain.ComplaintStatusPending, payload.OldStatus)
	require.Equal(t, domain.ComplaintStatusRejected, payload.NewStatus)
}
