package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civic-kit/complaint-service/internal/api/dto"
	"github.com/civic-kit/complaint-service/internal/auth"
	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/store"
	apperrors "github.com/civic-kit/complaint-service/pkg/util"
)

// AdminHandler manages admin-only endpoints: the full complaint list,
// assignment, the user directory, events and schedule planning.
type AdminHandler struct {
	complaints *store.ComplaintStore
	users      *store.UserStore
	events     *store.EventStore
	schedules  *store.ScheduleStore
}

// NewAdminHandler constructs handler.
func NewAdminHandler(complaints *store.ComplaintStore, users *store.UserStore, events *store.EventStore, schedules *store.ScheduleStore) *AdminHandler {
	return &AdminHandler{complaints: complaints, users: users, events: events, schedules: schedules}
}

// ListComplaints handles GET /admin/complaints.
func (h *AdminHandler) ListComplaints(c *fiber.Ctx) error {
	items, err := h.complaints.FetchAll(c.Context())
	if err != nil {
		return err
	}
	items = applyComplaintQuery(c, items)
	return c.JSON(fiber.Map{"data": dto.ComplaintsFromDomain(items)})
}

// Assign handles POST /admin/complaints/:id/assign. Assignment sets
// the employee and moves the complaint to inProgress in one step.
func (h *AdminHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EmployeeID == "" {
		return apperrors.NewValidationError("employeeId required", nil)
	}

	employee, err := h.users.GetByID(c.Context(), req.EmployeeID)
	if err != nil {
		return err
	}
	if employee.Role != domain.RoleEmployee {
		return apperrors.NewValidationError("assignee must be an employee", map[string]any{"role": employee.Role})
	}

	complaint, err := h.complaints.Assign(c.Context(), principal.User.ID, c.Params("id"), req.EmployeeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ComplaintFromDomain(complaint)})
}

// UpdateComplaintStatus handles PATCH /admin/complaints/:id/status.
// Admins may move any complaint, assigned or not.
func (h *AdminHandler) UpdateComplaintStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateComplaintStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.complaints.UpdateStatus(c.Context(), principal.User.ID, c.Params("id"), req.Status, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ComplaintFromDomain(complaint)})
}

// ListUsers handles GET /admin/users. The role query param narrows to
// one role, e.g. the employee roster for the assignment screen.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	if role := c.Query("role"); role != "" {
		items, err := h.users.FetchByRole(c.Context(), domain.Role(role))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": dto.UsersFromDomain(items)})
	}
	items, err := h.users.FetchAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UsersFromDomain(items)})
}

// SetUserStatus handles PATCH /admin/users/:id/status.
func (h *AdminHandler) SetUserStatus(c *fiber.Ctx) error {
	var req dto.SetUserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.SetStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UserFromDomain(user)})
}

// CreateEvent handles POST /admin/events.
func (h *AdminHandler) CreateEvent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.StartsAt.IsZero() {
		return apperrors.NewValidationError("title and startsAt required", nil)
	}

	input := store.EventCreateInput{
		CreatedBy:   principal.User.ID,
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		StartsAt:    req.StartsAt,
	}
	if req.Location != nil {
		loc := req.Location.ToDomain()
		input.Location = &loc
	}
	event, err := h.events.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.EventFromDomain(event)})
}

// UpdateEventStatus handles PATCH /admin/events/:id/status.
func (h *AdminHandler) UpdateEventStatus(c *fiber.Ctx) error {
	var req dto.UpdateEventStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	switch req.Status {
	case domain.EventStatusCompleted, domain.EventStatusCancelled:
	default:
		return apperrors.NewValidationError("status must be completed or cancelled", nil)
	}
	event, err := h.events.UpdateStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EventFromDomain(event)})
}

// CreateSchedule handles POST /admin/schedules.
func (h *AdminHandler) CreateSchedule(c *fiber.Ctx) error {
	var req dto.CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EmployeeID == "" || req.Title == "" {
		return apperrors.NewValidationError("employeeId and title required", nil)
	}

	employee, err := h.users.GetByID(c.Context(), req.EmployeeID)
	if err != nil {
		return err
	}
	if employee.Role != domain.RoleEmployee {
		return apperrors.NewValidationError("schedules can only target employees", nil)
	}

	schedule, err := h.schedules.Create(c.Context(), store.ScheduleCreateInput{
		EmployeeID: req.EmployeeID,
		Title:      req.Title,
		Area:       req.Area,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ScheduleFromDomain(schedule)})
}

// ListSchedules handles GET /admin/schedules.
func (h *AdminHandler) ListSchedules(c *fiber.Ctx) error {
	items, err := h.schedules.FetchAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SchedulesFromDomain(items)})
}
