package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/civic-kit/complaint-service/internal/domain"
	apperrors "github.com/civic-kit/complaint-service/pkg/util"
)

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageRepository) ListConversation(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepository) ListByUser(ctx context.Context, userID string) ([]domain.Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestMessageStore(repo *MockMessageRepository) *MessageStore {
	return NewMessageStore(repo, nil, nil, 5*time.Second)
}

func TestMarkReadByRecipient(t *testing.T) {
	repo := new(MockMessageRepository)
	repo.On("GetByID", mock.Anything, "m-1").Return(&domain.Message{
		ID:          "m-1",
		SenderID:    "u-1",
		RecipientID: "u-2",
		Body:        "pothole fixed?",
	}, nil)
	repo.On("MarkRead", mock.Anything, "m-1").Return(nil)

	s := newTestMessageStore(repo)
	require.NoError(t, s.MarkRead(context.Background(), "u-2", "m-1"))
	repo.AssertExpectations(t)
}

func TestMarkReadRejectsNonRecipient(t *testing.T) {
	// The ownership check consults persistence, not just this instance's
	// cache, so a fresh process still refuses an intruder.
	repo := new(MockMessageRepository)
	repo.On("GetByID", mock.Anything, "m-1").Return(&domain.Message{
		ID:          "m-1",
		SenderID:    "u-1",
		RecipientID: "u-2",
	}, nil)

	s := newTestMessageStore(repo)
	err := s.MarkRead(context.Background(), "intruder", "m-1")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "FORBIDDEN", domainErr.Code)
	repo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestSendRejectsEmptyBody(t *testing.T) {
	repo := new(MockMessageRepository)
	s := newTestMessageStore(repo)
	_, err := s.Send(context.Background(), "u-1", "u-2", "   ")
	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
