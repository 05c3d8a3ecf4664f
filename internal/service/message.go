package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/glimmerchat/glimmer/internal/domain"
)

// MessageService owns the append-only message log. Ownership is verified
// at write time on every append, not only when the chat was fetched, to
// close the gap between read and write.
type MessageService struct {
	chats    ChatStore
	messages MessageStore
}

func NewMessageService(chats ChatStore, messages MessageStore) *MessageService {
	return &MessageService{chats: chats, messages: messages}
}

// loadOwned fetches the chat and verifies ownership. A foreign chat is
// reported exactly like a missing one.
func (s *MessageService) loadOwned(ctx context.Context, actor domain.Identity, chatID uuid.UUID) (*domain.Chat, error) {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.OwnedBy(actor) {
		return nil, domain.ErrChatNotFound
	}
	return chat, nil
}

// Append writes one message to the chat and bumps its updated_at.
func (s *MessageService) Append(ctx context.Context, actor domain.Identity, chatID uuid.UUID, role domain.MessageRole, content string) (*domain.Message, error) {
	chat, err := s.loadOwned(ctx, actor, chatID)
	if err != nil {
		return nil, err
	}

	m := &domain.Message{
		ChatID:      chat.ID,
		CharacterID: chat.CharacterID,
		Role:        role,
		Content:     content,
		CreatedAt:   time.Now(),
	}
	if err := s.messages.Append(ctx, m); err != nil {
		return nil, fmt.Errorf("append %s message: %w", role, err)
	}

	if err := s.chats.Touch(ctx, chat.ID); err != nil {
		return nil, err
	}
	return m, nil
}

// History returns the chat's messages oldest-first.
func (s *MessageService) History(ctx context.Context, actor domain.Identity, chatID uuid.UUID) ([]domain.Message, error) {
	if _, err := s.loadOwned(ctx, actor, chatID); err != nil {
		return nil, err
	}
	return s.messages.ListByChat(ctx, chatID)
}

// Count returns the number of messages in the chat.
func (s *MessageService) Count(ctx context.Context, actor domain.Identity, chatID uuid.UUID) (int64, error) {
	if _, err := s.loadOwned(ctx, actor, chatID); err != nil {
		return 0, err
	}
	return s.messages.CountByChat(ctx, chatID)
}

// Clear bulk-deletes the chat's messages. Ownership rules are identical
// to Append.
func (s *MessageService) Clear(ctx context.Context, actor domain.Identity, chatID uuid.UUID) error {
	chat, err := s.loadOwned(ctx, actor, chatID)
	if err != nil {
		return err
	}
	if err := s.messages.DeleteByChat(ctx, chat.ID); err != nil {
		return err
	}
	return s.chats.Touch(ctx, chat.ID)
}
