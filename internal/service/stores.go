package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/glimmerchat/glimmer/internal/domain"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them in production; tests use in-memory fakes.

type ChatStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error)
	FindByGuest(ctx context.Context, guestID string) (*domain.Chat, error)
	FindByUserAndCharacter(ctx context.Context, userID string, characterID uuid.UUID) (*domain.Chat, error)
	ListByOwner(ctx context.Context, owner domain.Identity) ([]domain.Chat, error)
	Create(ctx context.Context, c *domain.Chat) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	SetPinned(ctx context.Context, id uuid.UUID, pinned bool) error
	Touch(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MessageStore interface {
	Append(ctx context.Context, m *domain.Message) error
	ListByChat(ctx context.Context, chatID uuid.UUID) ([]domain.Message, error)
	CountByChat(ctx context.Context, chatID uuid.UUID) (int64, error)
	DeleteByChat(ctx context.Context, chatID uuid.UUID) error
}

type CharacterStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Character, error)
	List(ctx context.Context) ([]domain.Character, error)
	Create(ctx context.Context, c *domain.Character) error
	Update(ctx context.Context, c *domain.Character) error
}

type PlanStore interface {
	ActivePlan(ctx context.Context, userID string) (*domain.Plan, error)
}
