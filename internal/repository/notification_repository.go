package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// notificationRow mirrors the notifications table column shape.
type notificationRow struct {
	ID        string
	UserID    string
	Kind      string
	Title     string
	Body      string
	SubjectID string
	Read      bool
	ReadAt    *time.Time
	CreatedAt time.Time
}

func (r notificationRow) toDomain() domain.Notification {
	return domain.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		Kind:      domain.NotificationKind(r.Kind),
		Title:     r.Title,
		Body:      r.Body,
		SubjectID: r.SubjectID,
		Read:      r.Read,
		ReadAt:    r.ReadAt,
		CreatedAt: r.CreatedAt,
	}
}

func notificationToRow(n domain.Notification) notificationRow {
	return notificationRow{
		ID:        n.ID,
		UserID:    n.UserID,
		Kind:      string(n.Kind),
		Title:     n.Title,
		Body:      n.Body,
		SubjectID: n.SubjectID,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// NotificationRepository encapsulates notification persistence. This is
// the only repository with a delete operation: bulk clear by user.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) (time.Time, error)
	ClearByUser(ctx context.Context, userID string) (int64, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

const notificationColumns = `id, user_id, kind, title, body, subject_id, read, read_at, created_at`

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	row := notificationToRow(*notification)
	const query = `
        INSERT INTO notifications (user_id, kind, title, body, subject_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		row.UserID,
		row.Kind,
		row.Title,
		row.Body,
		row.SubjectID,
	).Scan(&notification.ID, &notification.CreatedAt)
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id=$1`
	var row notificationRow
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.UserID,
		&row.Kind,
		&row.Title,
		&row.Body,
		&row.SubjectID,
		&row.Read,
		&row.ReadAt,
		&row.CreatedAt,
	); err != nil {
		return nil, err
	}
	notification := row.toDomain()
	return &notification, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var row notificationRow
		if err := rows.Scan(
			&row.ID,
			&row.UserID,
			&row.Kind,
			&row.Title,
			&row.Body,
			&row.SubjectID,
			&row.Read,
			&row.ReadAt,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, row.toDomain())
	}
	return result, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) (time.Time, error) {
	const query = `
        UPDATE notifications SET read=TRUE, read_at=NOW()
        WHERE id=$1
        RETURNING read_at`
	var readAt time.Time
	if err := r.pool.QueryRow(ctx, query, id).Scan(&readAt); err != nil {
		return time.Time{}, err
	}
	return readAt, nil
}

func (r *notificationRepository) ClearByUser(ctx context.Context, userID string) (int64, error) {
	const query = `DELETE FROM notifications WHERE user_id=$1`
	cmd, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
