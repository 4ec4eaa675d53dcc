package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civic-kit/complaint-service/internal/api/dto"
	"github.com/civic-kit/complaint-service/internal/auth"
	"github.com/civic-kit/complaint-service/internal/store"
	apperrors "github.com/civic-kit/complaint-service/pkg/util"
)

// TasksHandler manages the employee work queue: complaints assigned to
// the caller plus their own shift schedule.
type TasksHandler struct {
	complaints *store.ComplaintStore
	schedules  *store.ScheduleStore
}

// NewTasksHandler constructs handler.
func NewTasksHandler(complaints *store.ComplaintStore, schedules *store.ScheduleStore) *TasksHandler {
	return &TasksHandler{complaints: complaints, schedules: schedules}
}

// ListAssigned handles GET /tasks. Results sort actionable work first.
func (h *TasksHandler) ListAssigned(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	items, err := h.complaints.FetchByEmployee(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	items = applyComplaintQuery(c, items)
	return c.JSON(fiber.Map{"data": dto.ComplaintsFromDomain(items)})
}

// UpdateStatus handles PATCH /tasks/:id/status. The complaint must be
// assigned to the caller.
func (h *TasksHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateComplaintStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if complaint.EmployeeID == nil || *complaint.EmployeeID != principal.User.ID {
		return apperrors.NewForbidden("complaint not assigned to you")
	}

	updated, err := h.complaints.UpdateStatus(c.Context(), principal.User.ID, complaint.ID, req.Status, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ComplaintFromDomain(updated)})
}

// ListSchedules handles GET /tasks/schedules.
func (h *TasksHandler) ListSchedules(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	items, err := h.schedules.FetchByEmployee(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SchedulesFromDomain(items)})
}

// CompleteSchedule handles POST /tasks/schedules/:id/complete.
func (h *TasksHandler) CompleteSchedule(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	mine, err := h.schedules.FetchByEmployee(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	id := c.Params("id")
	owned := false
	for i := range mine {
		if mine[i].ID == id {
			owned = true
			break
		}
	}
	if !owned {
		return apperrors.NewNotFound("schedule", nil)
	}

	schedule, err := h.schedules.MarkCompleted(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ScheduleFromDomain(schedule)})
}
