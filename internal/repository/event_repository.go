package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// eventRow mirrors the events table column shape. Location columns are
// nullable because venue-only events carry no coordinates.
type eventRow struct {
	ID          string
	Title       string
	Description string
	Venue       string
	Latitude    *float64
	Longitude   *float64
	Address     *string
	StartsAt    time.Time
	Status      string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r eventRow) toDomain() domain.Event {
	event := domain.Event{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Venue:       r.Venue,
		StartsAt:    r.StartsAt,
		Status:      domain.EventStatus(r.Status),
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Latitude != nil && r.Longitude != nil {
		loc := domain.Location{
			Latitude:  *r.Latitude,
			Longitude: *r.Longitude,
		}
		if r.Address != nil {
			loc.Address = *r.Address
		}
		event.Location = &loc
	}
	return event
}

func eventToRow(e domain.Event) eventRow {
	row := eventRow{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		StartsAt:    e.StartsAt,
		Status:      string(e.Status),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Location != nil {
		lat, lng, addr := e.Location.Latitude, e.Location.Longitude, e.Location.Address
		row.Latitude = &lat
		row.Longitude = &lng
		row.Address = &addr
	}
	return row
}

// EventRepository encapsulates community event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (time.Time, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `id, title, description, venue, latitude, longitude, address, starts_at, status, created_by, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	row := eventToRow(*event)
	const query = `
        INSERT INTO events (title, description, venue, latitude, longitude, address, starts_at, status, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		row.Title,
		row.Description,
		row.Venue,
		row.Latitude,
		row.Longitude,
		row.Address,
		row.StartsAt,
		row.Status,
		row.CreatedBy,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id=$1`
	row, err := scanEventRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	event := row.toDomain()
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		row, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row.toDomain())
	}
	return result, rows.Err()
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (time.Time, error) {
	const query = `
        UPDATE events SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING updated_at`
	var updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, string(status), id).Scan(&updatedAt); err != nil {
		return time.Time{}, err
	}
	return updatedAt, nil
}

func scanEventRow(row pgx.Row) (eventRow, error) {
	var r eventRow
	if err := row.Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&r.Venue,
		&r.Latitude,
		&r.Longitude,
		&r.Address,
		&r.StartsAt,
		&r.Status,
		&r.CreatedBy,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return eventRow{}, err
	}
	return r, nil
}
