package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glimmerchat/glimmer/internal/domain"
)

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

const chatColumns = `id, character_id, user_id, guest_id, title, pinned, created_at, updated_at`

func scanChat(row pgx.Row) (*domain.Chat, error) {
	var c domain.Chat
	err := row.Scan(&c.ID, &c.CharacterID, &c.UserID, &c.GuestID, &c.Title,
		&c.Pinned, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChatRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+chatColumns+` FROM chats WHERE id = $1`, id)
	c, err := scanChat(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChatNotFound
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return c, nil
}

// FindByGuest returns the guest's single chat regardless of character, or
// ErrChatNotFound.
func (r *ChatRepository) FindByGuest(ctx context.Context, guestID string) (*domain.Chat, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+chatColumns+` FROM chats WHERE guest_id = $1`, guestID)
	c, err := scanChat(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChatNotFound
		}
		return nil, fmt.Errorf("find chat by guest: %w", err)
	}
	return c, nil
}

func (r *ChatRepository) FindByUserAndCharacter(ctx context.Context, userID string, characterID uuid.UUID) (*domain.Chat, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+chatColumns+` FROM chats WHERE user_id = $1 AND character_id = $2`,
		userID, characterID)
	c, err := scanChat(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChatNotFound
		}
		return nil, fmt.Errorf("find chat by user and character: %w", err)
	}
	return c, nil
}

func (r *ChatRepository) ListByOwner(ctx context.Context, owner domain.Identity) ([]domain.Chat, error) {
	var (
		rows pgx.Rows
		err  error
	)
	switch owner.Kind {
	case domain.IdentityGuest:
		rows, err = r.pool.Query(ctx,
			`SELECT `+chatColumns+` FROM chats WHERE guest_id = $1 ORDER BY pinned DESC, updated_at DESC`,
			owner.GuestID)
	default:
		rows, err = r.pool.Query(ctx,
			`SELECT `+chatColumns+` FROM chats WHERE user_id = $1 ORDER BY pinned DESC, updated_at DESC`,
			owner.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var chats []domain.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, *c)
	}
	return chats, rows.Err()
}

// Create inserts the chat. A unique_violation from the partial indexes is
// returned as ErrChatExists so the caller can re-fetch the winner.
func (r *ChatRepository) Create(ctx context.Context, c *domain.Chat) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO chats (id, character_id, user_id, guest_id, title, pinned)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		c.ID, c.CharacterID, c.UserID, c.GuestID, c.Title, c.Pinned,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrChatExists
		}
		return fmt.Errorf("create chat: %w", err)
	}
	return nil
}

func (r *ChatRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM chats WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count chats: %w", err)
	}
	return count, nil
}

func (r *ChatRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE chats SET title = $2, updated_at = now() WHERE id = $1`, id, title)
	if err != nil {
		return fmt.Errorf("update chat title: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}

func (r *ChatRepository) SetPinned(ctx context.Context, id uuid.UUID, pinned bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE chats SET pinned = $2, updated_at = now() WHERE id = $1`, id, pinned)
	if err != nil {
		return fmt.Errorf("set chat pinned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}

// Touch bumps updated_at after a message append.
func (r *ChatRepository) Touch(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE chats SET updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch chat: %w", err)
	}
	return nil
}

// Delete removes the chat; messages cascade at the schema level.
func (r *ChatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM chats WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}
