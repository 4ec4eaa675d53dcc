package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// complaintRow mirrors the complaints table column shape. All reads and
// writes go through the toDomain/complaintToRow pair so the translation
// between the snake_case row shape and the domain shape lives in one
// place.
type complaintRow struct {
	ID            string
	ComplaintType string
	Description   string
	MediaURLs     []string
	Latitude      float64
	Longitude     float64
	Address       string
	Status        string
	Notes         string
	CitizenID     string
	EmployeeID    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ResolvedAt    *time.Time
}

func (r complaintRow) toDomain() domain.Complaint {
	return domain.Complaint{
		ID:          r.ID,
		Type:        domain.ComplaintType(r.ComplaintType),
		Description: r.Description,
		MediaURLs:   r.MediaURLs,
		Location: domain.Location{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Address:   r.Address,
		},
		Status:     domain.ComplaintStatus(r.Status),
		Notes:      r.Notes,
		CitizenID:  r.CitizenID,
		EmployeeID: r.EmployeeID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		ResolvedAt: r.ResolvedAt,
	}
}

func complaintToRow(c domain.Complaint) complaintRow {
	return complaintRow{
		ID:            c.ID,
		ComplaintType: string(c.Type),
		Description:   c.Description,
		MediaURLs:     c.MediaURLs,
		Latitude:      c.Location.Latitude,
		Longitude:     c.Location.Longitude,
		Address:       c.Location.Address,
		Status:        string(c.Status),
		Notes:         c.Notes,
		CitizenID:     c.CitizenID,
		EmployeeID:    c.EmployeeID,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		ResolvedAt:    c.ResolvedAt,
	}
}

// ComplaintFilter captures listing parameters.
type ComplaintFilter struct {
	CitizenID  *string
	EmployeeID *string
	Statuses   []domain.ComplaintStatus
	Types      []domain.ComplaintType
	Limit      int
	Offset     int
}

// ComplaintRepository encapsulates complaint persistence. Mutations are
// targeted: UpdateStatus and Assign touch only their own columns so
// every other field stays byte-identical.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, notes string, resolvedAt *time.Time) (time.Time, error)
	Assign(ctx context.Context, id, employeeID string, status domain.ComplaintStatus) (time.Time, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, complaint_type, description, media_urls, latitude, longitude, address,
               status, notes, citizen_id, employee_id, created_at, updated_at, resolved_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	row := complaintToRow(*complaint)
	const query = `
        INSERT INTO complaints (complaint_type, description, media_urls, latitude, longitude, address, status, notes, citizen_id, employee_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	if err := r.pool.QueryRow(ctx, query,
		row.ComplaintType,
		row.Description,
		row.MediaURLs,
		row.Latitude,
		row.Longitude,
		row.Address,
		row.Status,
		row.Notes,
		row.CitizenID,
		row.EmployeeID,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt); err != nil {
		return err
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	row, err := scanComplaintRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	complaint := row.toDomain()
	return &complaint, nil
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CitizenID != nil {
		args = append(args, *filter.CitizenID)
		clauses = append(clauses, fmt.Sprintf("citizen_id=$%d", len(args)))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("employee_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, string(status))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, ct := range filter.Types {
			args = append(args, string(ct))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("complaint_type IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE %s ORDER BY created_at DESC`,
		complaintColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		row, err := scanComplaintRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row.toDomain())
	}
	return result, rows.Err()
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, notes string, resolvedAt *time.Time) (time.Time, error) {
	const query = `
        UPDATE complaints SET status=$1, notes=$2, resolved_at=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`
	var updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, string(status), notes, resolvedAt, id).Scan(&updatedAt); err != nil {
		return time.Time{}, err
	}
	return updatedAt, nil
}

// Assign moves the complaint back into active handling, so resolved_at
// is cleared in the same statement. A resolved timestamp may only exist
// on a resolved row.
const assignComplaintQuery = `
        UPDATE complaints SET employee_id=$1, status=$2, resolved_at=NULL, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`

func (r *complaintRepository) Assign(ctx context.Context, id, employeeID string, status domain.ComplaintStatus) (time.Time, error) {
	var updatedAt time.Time
	if err := r.pool.QueryRow(ctx, assignComplaintQuery, employeeID, string(status), id).Scan(&updatedAt); err != nil {
		return time.Time{}, err
	}
	return updatedAt, nil
}

func scanComplaintRow(row pgx.Row) (complaintRow, error) {
	var r complaintRow
	if err := row.Scan(
		&r.ID,
		&r.ComplaintType,
		&r.Description,
		&r.MediaURLs,
		&r.Latitude,
		&r.Longitude,
		&r.Address,
		&r.Status,
		&r.Notes,
		&r.CitizenID,
		&r.EmployeeID,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.ResolvedAt,
	); err != nil {
		return complaintRow{}, err
	}
	return r, nil
}
