package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	transport "github.com/civic-kit/complaint-service/internal/api/http"
	"github.com/civic-kit/complaint-service/internal/api/http/handlers"
	"github.com/civic-kit/complaint-service/internal/auth"
	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/observability"
	"github.com/civic-kit/complaint-service/internal/persistence"
	"github.com/civic-kit/complaint-service/internal/repository"
	"github.com/civic-kit/complaint-service/internal/store"
)

type stubComplaintRepo struct {
	mock.Mock
}

func (m *stubComplaintRepo) Create(ctx context.Context, complaint *domain.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *stubComplaintRepo) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *stubComplaintRepo) List(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Complaint), args.Error(1)
}

func (m *stubComplaintRepo) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, notes string, resolvedAt *time.Time) (time.Time, error) {
	args := m.Called(ctx, id, status, notes, resolvedAt)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *stubComplaintRepo) Assign(ctx context.Context, id, employeeID string, status domain.ComplaintStatus) (time.Time, error) {
	args := m.Called(ctx, id, employeeID, status)
	return args.Get(0).(time.Time), args.Error(1)
}

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) Create(context.Context, *domain.User) error        { return nil }
func (r *stubUserRepo) UpdateProfile(context.Context, *domain.User) error { return nil }
func (r *stubUserRepo) SetStatus(context.Context, string, domain.UserStatus) error {
	return nil
}
func (r *stubUserRepo) SetPasswordHash(context.Context, string, string) error { return nil }
func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}
func (r *stubUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (r *stubUserRepo) ListByRole(context.Context, domain.Role) ([]domain.User, error) {
	return nil, nil
}
func (r *stubUserRepo) List(context.Context) ([]domain.User, error) { return nil, nil }

type stubSessions struct {
	sessions map[string]domain.Session
}

func (s *stubSessions) Save(_ context.Context, session domain.Session) error {
	s.sessions[session.ID] = session
	return nil
}

func (s *stubSessions) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, persistence.ErrSessionNotFound
	}
	return &session, nil
}

func (s *stubSessions) Delete(_ context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

// newComplaintsApp wires a Fiber app with the real middleware chain, the
// real auth middleware and the citizen complaint routes over a mocked
// repository.
func newComplaintsApp(t *testing.T, repo repository.ComplaintRepository, user *domain.User) (*fiber.App, string) {
	t.Helper()

	tokens := auth.NewTokenManager("handler-test-secret", 60)
	sessions := &stubSessions{sessions: make(map[string]domain.Session)}
	session := domain.Session{
		ID:        "s-1",
		UserID:    user.ID,
		Role:      user.Role,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, sessions.Save(context.Background(), session))
	token, _, err := tokens.GenerateToken(user.ID, user.Role, session.ID)
	require.NoError(t, err)

	users := &stubUserRepo{users: map[string]*domain.User{user.ID: user}}
	authMw := auth.NewAuthMiddleware(tokens, users, sessions)

	complaints := store.NewComplaintStore(store.ComplaintStoreDependencies{
		ComplaintRepo: repo,
		Timeout:       5 * time.Second,
	})
	handler := handlers.NewComplaintsHandler(complaints)

	app := fiber.New()
	transport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	group := app.Group("/complaints", authMw.Handle, auth.RequireRole(domain.RoleCitizen))
	group.Post("", handler.Create)
	group.Get("/:id", handler.Get)
	return app, token
}

func TestCreateComplaintEndpoint(t *testing.T) {
	repo := new(stubComplaintRepo)
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		c := args.Get(1).(*domain.Complaint)
		c.ID = "c-1"
		c.CreatedAt = time.Now()
		c.UpdatedAt = c.CreatedAt
	}).Return(nil)

	citizen := &domain.User{ID: "u-1", Role: domain.RoleCitizen, Status: domain.UserStatusActive}
	app, token := newComplaintsApp(t, repo, citizen)

	body := `{"type":"garbage","description":"overflowing bin","location":{"latitude":18.52,"longitude":73.85,"address":"MG Road"}}`
	req := httptest.NewRequest("POST", "/complaints", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var payload struct {
		Data struct {
			ID        string `json:"id"`
			Status    string `json:"status"`
			CitizenID string `json:"citizenId"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, "c-1", payload.Data.ID)
	require.Equal(t, "pending", payload.Data.Status)
	require.Equal(t, "u-1", payload.Data.CitizenID)
	repo.AssertExpectations(t)
}

func TestCreateComplaintRejectsMissingFields(t *testing.T) {
	repo := new(stubComplaintRepo)
	citizen := &domain.User{ID: "u-1", Role: domain.RoleCitizen, Status: domain.UserStatusActive}
	app, token := newComplaintsApp(t, repo, citizen)

	cases := []struct {
		name string
		body string
	}{
		{"empty payload", `{}`},
		{"unknown type", `{"type":"potholes","description":"x","location":{"address":"MG Road"}}`},
		{"missing description", `{"type":"garbage","location":{"address":"MG Road"}}`},
		{"missing address", `{"type":"garbage","description":"overflowing bin","location":{"latitude":18.52,"longitude":73.85}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/complaints", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
			require.Equal(t, "VALIDATION_FAILED", payload.Error.Code)
		})
	}
	// The store never sees an invalid payload.
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateComplaintRequiresAuth(t *testing.T) {
	citizen := &domain.User{ID: "u-1", Role: domain.RoleCitizen, Status: domain.UserStatusActive}
	app, _ := newComplaintsApp(t, new(stubComplaintRepo), citizen)

	req := httptest.NewRequest("POST", "/complaints", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, "UNAUTHORIZED", payload.Error.Code)
}

func TestComplaintRoutesRejectOtherRoles(t *testing.T) {
	employee := &domain.User{ID: "e-1", Role: domain.RoleEmployee, Status: domain.UserStatusActive}
	app, token := newComplaintsApp(t, new(stubComplaintRepo), employee)

	req := httptest.NewRequest("POST", "/complaints", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestGetComplaintHidesOtherCitizens(t *testing.T) {
	repo := new(stubComplaintRepo)
	repo.On("GetByID", mock.Anything, "c-9").Return(&domain.Complaint{
		ID:        "c-9",
		CitizenID: "someone-else",
		Status:    domain.ComplaintStatusPending,
	}, nil)

	citizen := &domain.User{ID: "u-1", Role: domain.RoleCitizen, Status: domain.UserStatusActive}
	app, token := newComplaintsApp(t, repo, citizen)

	req := httptest.NewRequest("GET", "/complaints/c-9", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
