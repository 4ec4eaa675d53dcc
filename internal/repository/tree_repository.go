package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// treeRow mirrors the trees table column shape.
type treeRow struct {
	ID              string
	OwnerID         string
	Species         string
	PlantedAt       time.Time
	Latitude        float64
	Longitude       float64
	Address         string
	ImageURLs       []string
	ReminderEnabled bool
	WaterEveryDays  int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r treeRow) toDomain() domain.TreeEntry {
	return domain.TreeEntry{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Species:   r.Species,
		PlantedAt: r.PlantedAt,
		Location: domain.Location{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Address:   r.Address,
		},
		ImageURLs:       r.ImageURLs,
		ReminderEnabled: r.ReminderEnabled,
		WaterEveryDays:  r.WaterEveryDays,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func treeToRow(t domain.TreeEntry) treeRow {
	return treeRow{
		ID:              t.ID,
		OwnerID:         t.OwnerID,
		Species:         t.Species,
		PlantedAt:       t.PlantedAt,
		Latitude:        t.Location.Latitude,
		Longitude:       t.Location.Longitude,
		Address:         t.Location.Address,
		ImageURLs:       t.ImageURLs,
		ReminderEnabled: t.ReminderEnabled,
		WaterEveryDays:  t.WaterEveryDays,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// TreeRepository encapsulates tree persistence. Watering history is an
// append-only table: entries are inserted, never updated or deleted.
type TreeRepository interface {
	Create(ctx context.Context, tree *domain.TreeEntry) error
	GetByID(ctx context.Context, id string) (*domain.TreeEntry, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.TreeEntry, error)
	List(ctx context.Context) ([]domain.TreeEntry, error)
	UpdateWateringConfig(ctx context.Context, id string, reminderEnabled bool, waterEveryDays int) (time.Time, error)
	AddWatering(ctx context.Context, watering *domain.Watering) error
	ListWaterings(ctx context.Context, treeID string) ([]domain.Watering, error)
}

type treeRepository struct {
	pool *pgxpool.Pool
}

// NewTreeRepository instantiates repository.
func NewTreeRepository(pool *pgxpool.Pool) TreeRepository {
	return &treeRepository{pool: pool}
}

const treeColumns = `id, owner_id, species, planted_at, latitude, longitude, address,
               image_urls, reminder_enabled, water_every_days, created_at, updated_at`

func (r *treeRepository) Create(ctx context.Context, tree *domain.TreeEntry) error {
	row := treeToRow(*tree)
	const query = `
        INSERT INTO trees (owner_id, species, planted_at, latitude, longitude, address, image_urls, reminder_enabled, water_every_days)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		row.OwnerID,
		row.Species,
		row.PlantedAt,
		row.Latitude,
		row.Longitude,
		row.Address,
		row.ImageURLs,
		row.ReminderEnabled,
		row.WaterEveryDays,
	).Scan(&tree.ID, &tree.CreatedAt, &tree.UpdatedAt)
}

func (r *treeRepository) GetByID(ctx context.Context, id string) (*domain.TreeEntry, error) {
	query := `SELECT ` + treeColumns + ` FROM trees WHERE id=$1`
	row, err := scanTreeRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	tree := row.toDomain()
	return &tree, nil
}

func (r *treeRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.TreeEntry, error) {
	query := `SELECT ` + treeColumns + ` FROM trees WHERE owner_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrees(rows)
}

func (r *treeRepository) List(ctx context.Context) ([]domain.TreeEntry, error) {
	query := `SELECT ` + treeColumns + ` FROM trees ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrees(rows)
}

func (r *treeRepository) UpdateWateringConfig(ctx context.Context, id string, reminderEnabled bool, waterEveryDays int) (time.Time, error) {
	const query = `
        UPDATE trees SET reminder_enabled=$1, water_every_days=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`
	var updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, reminderEnabled, waterEveryDays, id).Scan(&updatedAt); err != nil {
		return time.Time{}, err
	}
	return updatedAt, nil
}

func (r *treeRepository) AddWatering(ctx context.Context, watering *domain.Watering) error {
	const query = `
        INSERT INTO tree_waterings (tree_id, watered_at, photo_url)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		watering.TreeID,
		watering.WateredAt,
		watering.PhotoURL,
	).Scan(&watering.ID, &watering.CreatedAt)
}

func (r *treeRepository) ListWaterings(ctx context.Context, treeID string) ([]domain.Watering, error) {
	const query = `
        SELECT id, tree_id, watered_at, photo_url, created_at
        FROM tree_waterings WHERE tree_id=$1 ORDER BY watered_at ASC`
	rows, err := r.pool.Query(ctx, query, treeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Watering
	for rows.Next() {
		var watering domain.Watering
		if err := rows.Scan(
			&watering.ID,
			&watering.TreeID,
			&watering.WateredAt,
			&watering.PhotoURL,
			&watering.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, watering)
	}
	return result, rows.Err()
}

func collectTrees(rows pgx.Rows) ([]domain.TreeEntry, error) {
	var result []domain.TreeEntry
	for rows.Next() {
		row, err := scanTreeRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row.toDomain())
	}
	return result, rows.Err()
}

func scanTreeRow(row pgx.Row) (treeRow, error) {
	var r treeRow
	if err := row.Scan(
		&r.ID,
		&r.OwnerID,
		&r.Species,
		&r.PlantedAt,
		&r.Latitude,
		&r.Longitude,
		&r.Address,
		&r.ImageURLs,
		&r.ReminderEnabled,
		&r.WaterEveryDays,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return treeRow{}, err
	}
	return r, nil
}
