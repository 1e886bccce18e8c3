package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"message-admin/internal/domain"
)

// ErrNotFound se devuelve cuando el mensaje pedido no existe, sin importar el driver.
var ErrNotFound = errors.New("message not found")

// MessageRepository define el contrato de persistencia para mensajes.
type MessageRepository interface {
	FindUnique(ctx context.Context, id int64) (domain.Message, error)
	FindMany(ctx context.Context) ([]domain.Message, error)
	Create(ctx context.Context, draft domain.MessageDraft) (domain.Message, error)
	Update(ctx context.Context, id int64, patch domain.MessagePatch) (domain.Message, error)
	Delete(ctx context.Context, id int64) (domain.Message, error)
	Ping(ctx context.Context) error
}

// PgMessageRepository implementa MessageRepository usando pgxpool.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) FindUnique(ctx context.Context, id int64) (domain.Message, error) {
	const query = `
		SELECT id, message_text, created_at
		FROM messages
		WHERE id = $1
	`
	var m domain.Message
	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.MessageText, &m.CreatedAt)
	if err != nil {
		return domain.Message{}, translatePgError(err)
	}
	return m, nil
}

func (r *PgMessageRepository) FindMany(ctx context.Context) ([]domain.Message, error) {
	const query = `
		SELECT id, message_text, created_at
		FROM messages
		ORDER BY id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.MessageText, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PgMessageRepository) Create(ctx context.Context, draft domain.MessageDraft) (domain.Message, error) {
	const query = `
		INSERT INTO messages (message_text)
		VALUES ($1)
		RETURNING id, message_text, created_at
	`
	var m domain.Message
	err := r.pool.QueryRow(ctx, query, draft.MessageText).Scan(&m.ID, &m.MessageText, &m.CreatedAt)
	if err != nil {
		return domain.Message{}, err
	}
	return m, nil
}

func (r *PgMessageRepository) Update(ctx context.Context, id int64, patch domain.MessagePatch) (domain.Message, error) {
	const query = `
		UPDATE messages
		SET message_text = COALESCE($2, message_text)
		WHERE id = $1
		RETURNING id, message_text, created_at
	`
	var m domain.Message
	err := r.pool.QueryRow(ctx, query, id, patch.MessageText).Scan(&m.ID, &m.MessageText, &m.CreatedAt)
	if err != nil {
		return domain.Message{}, translatePgError(err)
	}
	return m, nil
}

func (r *PgMessageRepository) Delete(ctx context.Context, id int64) (domain.Message, error) {
	const query = `
		DELETE FROM messages
		WHERE id = $1
		RETURNING id, message_text, created_at
	`
	var m domain.Message
	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.MessageText, &m.CreatedAt)
	if err != nil {
		return domain.Message{}, translatePgError(err)
	}
	return m, nil
}

func (r *PgMessageRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func translatePgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
