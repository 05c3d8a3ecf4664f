package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/glimmerchat/glimmer/internal/domain"
)

// ChatService finds or creates the single chat between an identity and a
// character, and owns the chat-level mutations (rename, pin, delete).
//
// The central product rule lives here: a guest gets one conversation
// partner for the lifetime of their token, while a user gets one chat per
// character up to their plan's chat quota.
type ChatService struct {
	chats      ChatStore
	messages   MessageStore
	characters CharacterStore
	quota      *QuotaService
	generator  TextGenerator
}

func NewChatService(chats ChatStore, messages MessageStore, characters CharacterStore, quota *QuotaService, generator TextGenerator) *ChatService {
	return &ChatService{
		chats:      chats,
		messages:   messages,
		characters: characters,
		quota:      quota,
		generator:  generator,
	}
}

// GetOrCreate returns the existing chat between actor and character, or
// creates one seeded with the character's greeting. Calling it twice with
// the same arguments returns the same chat.
func (s *ChatService) GetOrCreate(ctx context.Context, actor domain.Identity, characterID uuid.UUID) (*domain.Chat, error) {
	character, err := s.characters.GetByID(ctx, characterID)
	if err != nil {
		return nil, err
	}

	if chat, err := s.findExisting(ctx, actor, characterID); err != nil || chat != nil {
		return chat, err
	}

	if actor.Kind == domain.IdentityUser {
		count, err := s.chats.CountByUser(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if err := s.quota.Check(ctx, actor, domain.ActionCreateChat, count); err != nil {
			return nil, err
		}
	}

	chat := &domain.Chat{
		ID:          uuid.New(),
		CharacterID: character.ID,
		Title:       character.Name,
	}
	switch actor.Kind {
	case domain.IdentityGuest:
		chat.GuestID = &actor.GuestID
	default:
		chat.UserID = &actor.UserID
	}

	if err := s.chats.Create(ctx, chat); err != nil {
		if errors.Is(err, domain.ErrChatExists) {
			// Lost the find-or-create race; the winner's chat is
			// authoritative.
			return s.refetchAfterRace(ctx, actor, characterID)
		}
		return nil, err
	}

	s.seedGreeting(ctx, chat, character)
	return chat, nil
}

// findExisting returns the actor's chat for the character if there is
// one, nil when a chat may be created, or the guest-cap denial.
func (s *ChatService) findExisting(ctx context.Context, actor domain.Identity, characterID uuid.UUID) (*domain.Chat, error) {
	switch actor.Kind {
	case domain.IdentityGuest:
		chat, err := s.chats.FindByGuest(ctx, actor.GuestID)
		if errors.Is(err, domain.ErrChatNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if chat.CharacterID == characterID {
			return chat, nil
		}
		// One lifetime conversation partner per guest; a second
		// character requires signing up.
		return nil, &domain.QuotaDeniedError{
			Action: domain.ActionCreateChat,
			Tier:   domain.TierGuest,
			Reason: domain.DenialLoginRequired,
			Limit:  1,
		}
	default:
		chat, err := s.chats.FindByUserAndCharacter(ctx, actor.UserID, characterID)
		if errors.Is(err, domain.ErrChatNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return chat, nil
	}
}

func (s *ChatService) refetchAfterRace(ctx context.Context, actor domain.Identity, characterID uuid.UUID) (*domain.Chat, error) {
	chat, err := s.findExisting(ctx, actor, characterID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		// The conflicting row vanished between the insert and the
		// re-fetch; surface it as a plain miss.
		return nil, domain.ErrChatNotFound
	}
	return chat, nil
}

// seedGreeting writes the character's opening assistant message into a
// freshly created chat. Generation failures fall back to a canned line so
// chat creation never depends on the model being up.
func (s *ChatService) seedGreeting(ctx context.Context, chat *domain.Chat, character *domain.Character) {
	greeting, err := s.generator.Complete(ctx, BuildGreetingContext(character))
	if err != nil {
		slog.Error("generate greeting", "error", err, "character_id", character.ID)
		greeting = fmt.Sprintf("Hi, I'm %s. What's on your mind?", character.Name)
	}

	m := &domain.Message{
		ChatID:      chat.ID,
		CharacterID: character.ID,
		Role:        domain.RoleAssistant,
		Content:     greeting,
		CreatedAt:   time.Now(),
	}
	if err := s.messages.Append(ctx, m); err != nil {
		slog.Error("seed greeting message", "error", err, "chat_id", chat.ID)
	}
}

func (s *ChatService) loadOwned(ctx context.Context, actor domain.Identity, chatID uuid.UUID) (*domain.Chat, error) {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.OwnedBy(actor) {
		return nil, domain.ErrChatNotFound
	}
	return chat, nil
}

func (s *ChatService) Get(ctx context.Context, actor domain.Identity, chatID uuid.UUID) (*domain.Chat, error) {
	return s.loadOwned(ctx, actor, chatID)
}

func (s *ChatService) List(ctx context.Context, actor domain.Identity) ([]domain.Chat, error) {
	return s.chats.ListByOwner(ctx, actor)
}

func (s *ChatService) Rename(ctx context.Context, actor domain.Identity, chatID uuid.UUID, title string) error {
	if _, err := s.loadOwned(ctx, actor, chatID); err != nil {
		return err
	}
	return s.chats.UpdateTitle(ctx, chatID, title)
}

func (s *ChatService) SetPinned(ctx context.Context, actor domain.Identity, chatID uuid.UUID, pinned bool) error {
	if _, err := s.loadOwned(ctx, actor, chatID); err != nil {
		return err
	}
	return s.chats.SetPinned(ctx, chatID, pinned)
}

// Delete removes the chat and, through the schema cascade, its messages.
func (s *ChatService) Delete(ctx context.Context, actor domain.Identity, chatID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actor, chatID); err != nil {
		return err
	}
	return s.chats.Delete(ctx, chatID)
}
