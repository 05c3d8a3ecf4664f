package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glimmerchat/glimmer/internal/domain"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func (r *MessageRepository) Append(ctx context.Context, m *domain.Message) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO messages (chat_id, character_id, role, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		m.ChatID, m.CharacterID, m.Role, m.Content, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (r *MessageRepository) ListByChat(ctx context.Context, chatID uuid.UUID) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, chat_id, character_id, role, content, created_at
		 FROM messages WHERE chat_id = $1 ORDER BY created_at, id`,
		chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.CharacterID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *MessageRepository) CountByChat(ctx context.Context, chatID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM messages WHERE chat_id = $1`, chatID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}

func (r *MessageRepository) DeleteByChat(ctx context.Context, chatID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE chat_id = $1`, chatID)
	if err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	return nil
}
