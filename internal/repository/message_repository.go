package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// messageRow mirrors the messages table column shape.
type messageRow struct {
	ID          string
	SenderID    string
	RecipientID string
	Body        string
	Read        bool
	CreatedAt   time.Time
}

func (r messageRow) toDomain() domain.Message {
	return domain.Message{
		ID:          r.ID,
		SenderID:    r.SenderID,
		RecipientID: r.RecipientID,
		Body:        r.Body,
		Read:        r.Read,
		CreatedAt:   r.CreatedAt,
	}
}

func messageToRow(m domain.Message) messageRow {
	return messageRow{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Body:        m.Body,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt,
	}
}

// MessageRepository encapsulates direct message persistence.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	ListConversation(ctx context.Context, userA, userB string) ([]domain.Message, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Message, error)
	MarkRead(ctx context.Context, id string) error
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository instantiates repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

const messageColumns = `id, sender_id, recipient_id, body, read, created_at`

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	row := messageToRow(*message)
	const query = `
        INSERT INTO messages (sender_id, recipient_id, body)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		row.SenderID,
		row.RecipientID,
		row.Body,
	).Scan(&message.ID, &message.CreatedAt)
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id=$1`
	var row messageRow
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.SenderID,
		&row.RecipientID,
		&row.Body,
		&row.Read,
		&row.CreatedAt,
	); err != nil {
		return nil, err
	}
	message := row.toDomain()
	return &message, nil
}

func (r *messageRepository) ListConversation(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
        WHERE (sender_id=$1 AND recipient_id=$2) OR (sender_id=$2 AND recipient_id=$1)
        ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (r *messageRepository) ListByUser(ctx context.Context, userID string) ([]domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
        WHERE sender_id=$1 OR recipient_id=$1
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (r *messageRepository) MarkRead(ctx context.Context, id string) error {
	const query = `UPDATE messages SET read=TRUE WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectMessages(rows pgx.Rows) ([]domain.Message, error) {
	var result []domain.Message
	for rows.Next() {
		var row messageRow
		if err := rows.Scan(
			&row.ID,
			&row.SenderID,
			&row.RecipientID,
			&row.Body,
			&row.Read,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, row.toDomain())
	}
	return result, rows.Err()
}
