package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// scheduleRow mirrors the schedules table column shape.
type scheduleRow struct {
	ID         string
	EmployeeID string
	Title      string
	Area       string
	StartsAt   time.Time
	EndsAt     time.Time
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r scheduleRow) toDomain() domain.Schedule {
	return domain.Schedule{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Title:      r.Title,
		Area:       r.Area,
		StartsAt:   r.StartsAt,
		EndsAt:     r.EndsAt,
		Status:     domain.ScheduleStatus(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func scheduleToRow(s domain.Schedule) scheduleRow {
	return scheduleRow{
		ID:         s.ID,
		EmployeeID: s.EmployeeID,
		Title:      s.Title,
		Area:       s.Area,
		StartsAt:   s.StartsAt,
		EndsAt:     s.EndsAt,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// ScheduleRepository encapsulates work shift persistence.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *domain.Schedule) error
	ListByEmployee(ctx context.Context, employeeID string) ([]domain.Schedule, error)
	List(ctx context.Context) ([]domain.Schedule, error)
	UpdateStatus(ctx context.Context, id string, status domain.ScheduleStatus) (time.Time, error)
}

type scheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository instantiates repository.
func NewScheduleRepository(pool *pgxpool.Pool) ScheduleRepository {
	return &scheduleRepository{pool: pool}
}

const scheduleColumns = `id, employee_id, title, area, starts_at, ends_at, status, created_at, updated_at`

func (r *scheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	row := scheduleToRow(*schedule)
	const query = `
        INSERT INTO schedules (employee_id, title, area, starts_at, ends_at, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		row.EmployeeID,
		row.Title,
		row.Area,
		row.StartsAt,
		row.EndsAt,
		row.Status,
	).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt)
}

func (r *scheduleRepository) ListByEmployee(ctx context.Context, employeeID string) ([]domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE employee_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSchedules(rows)
}

func (r *scheduleRepository) List(ctx context.Context) ([]domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSchedules(rows)
}

func (r *scheduleRepository) UpdateStatus(ctx context.Context, id string, status domain.ScheduleStatus) (time.Time, error) {
	const query = `
        UPDATE schedules SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING updated_at`
	var updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, string(status), id).Scan(&updatedAt); err != nil {
		return time.Time{}, err
	}
	return updatedAt, nil
}

func collectSchedules(rows pgx.Rows) ([]domain.Schedule, error) {
	var result []domain.Schedule
	for rows.Next() {
		var r scheduleRow
		if err := rows.Scan(
			&r.ID,
			&r.EmployeeID,
			&r.Title,
			&r.Area,
			&r.StartsAt,
			&r.EndsAt,
			&r.Status,
			&r.CreatedAt,
			&r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, r.toDomain())
	}
	return result, rows.Err()
}
