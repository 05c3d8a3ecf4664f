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

type CharacterRepository struct {
	pool *pgxpool.Pool
}

func NewCharacterRepository(pool *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{pool: pool}
}

const characterColumns = `id, name, tagline, prompt_template, personality, voice_style, creator_user_id, created_at, updated_at`

func scanCharacter(row pgx.Row) (*domain.Character, error) {
	var c domain.Character
	err := row.Scan(&c.ID, &c.Name, &c.Tagline, &c.PromptTemplate, &c.Personality,
		&c.VoiceStyle, &c.CreatorUserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CharacterRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Character, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`, id)
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("get character: %w", err)
	}
	return c, nil
}

func (r *CharacterRepository) List(ctx context.Context) ([]domain.Character, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+characterColumns+` FROM characters ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var characters []domain.Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		characters = append(characters, *c)
	}
	return characters, rows.Err()
}

func (r *CharacterRepository) Create(ctx context.Context, c *domain.Character) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO characters (id, name, tagline, prompt_template, personality, voice_style, creator_user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Tagline, c.PromptTemplate, c.Personality, c.VoiceStyle, c.CreatorUserID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create character: %w", err)
	}
	return nil
}

func (r *CharacterRepository) Update(ctx context.Context, c *domain.Character) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE characters
		 SET name = $2, tagline = $3, prompt_template = $4, personality = $5, voice_style = $6, updated_at = now()
		 WHERE id = $1`,
		c.ID, c.Name, c.Tagline, c.PromptTemplate, c.Personality, c.VoiceStyle)
	if err != nil {
		return fmt.Errorf("update character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCharacterNotFound
	}
	return nil
}
