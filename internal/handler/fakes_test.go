package handler

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/glimmerchat/glimmer/internal/domain"
	"github.com/glimmerchat/glimmer/internal/service"
)

// In-memory stores backing the services under httptest.

type memChatStore struct {
	chats map[uuid.UUID]*domain.Chat
}

func newMemChatStore() *memChatStore {
	return &memChatStore{chats: map[uuid.UUID]*domain.Chat{}}
}

func (s *memChatStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Chat, error) {
	if c, ok := s.chats[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, domain.ErrChatNotFound
}

func (s *memChatStore) FindByGuest(_ context.Context, guestID string) (*domain.Chat, error) {
	for _, c := range s.chats {
		if c.GuestID != nil && *c.GuestID == guestID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrChatNotFound
}

func (s *memChatStore) FindByUserAndCharacter(_ context.Context, userID string, characterID uuid.UUID) (*domain.Chat, error) {
	for _, c := range s.chats {
		if c.UserID != nil && *c.UserID == userID && c.CharacterID == characterID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrChatNotFound
}

func (s *memChatStore) ListByOwner(_ context.Context, owner domain.Identity) ([]domain.Chat, error) {
	var out []domain.Chat
	for _, c := range s.chats {
		if c.OwnedBy(owner) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *memChatStore) Create(_ context.Context, c *domain.Chat) error {
	for _, existing := range s.chats {
		if c.GuestID != nil && existing.GuestID != nil && *existing.GuestID == *c.GuestID {
			return domain.ErrChatExists
		}
		if c.UserID != nil && existing.UserID != nil && *existing.UserID == *c.UserID && existing.CharacterID == c.CharacterID {
			return domain.ErrChatExists
		}
	}
	clone := *c
	s.chats[c.ID] = &clone
	return nil
}

func (s *memChatStore) CountByUser(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, c := range s.chats {
		if c.UserID != nil && *c.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *memChatStore) UpdateTitle(_ context.Context, id uuid.UUID, title string) error {
	c, ok := s.chats[id]
	if !ok {
		return domain.ErrChatNotFound
	}
	c.Title = title
	return nil
}

func (s *memChatStore) SetPinned(_ context.Context, id uuid.UUID, pinned bool) error {
	c, ok := s.chats[id]
	if !ok {
		return domain.ErrChatNotFound
	}
	c.Pinned = pinned
	return nil
}

func (s *memChatStore) Touch(_ context.Context, id uuid.UUID) error { return nil }

func (s *memChatStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.chats[id]; !ok {
		return domain.ErrChatNotFound
	}
	delete(s.chats, id)
	return nil
}

type memMessageStore struct {
	messages []domain.Message
	nextID   int64
}

func newMemMessageStore() *memMessageStore { return &memMessageStore{} }

func (s *memMessageStore) Append(_ context.Context, m *domain.Message) error {
	s.nextID++
	m.ID = s.nextID
	s.messages = append(s.messages, *m)
	return nil
}

func (s *memMessageStore) ListByChat(_ context.Context, chatID uuid.UUID) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range s.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memMessageStore) CountByChat(_ context.Context, chatID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range s.messages {
		if m.ChatID == chatID {
			count++
		}
	}
	return count, nil
}

func (s *memMessageStore) DeleteByChat(_ context.Context, chatID uuid.UUID) error {
	kept := s.messages[:0]
	for _, m := range s.messages {
		if m.ChatID != chatID {
			kept = append(kept, m)
		}
	}
	s.messages = kept
	return nil
}

type memCharacterStore struct {
	characters map[uuid.UUID]*domain.Character
}

func newMemCharacterStore(characters ...*domain.Character) *memCharacterStore {
	s := &memCharacterStore{characters: map[uuid.UUID]*domain.Character{}}
	for _, c := range characters {
		s.characters[c.ID] = c
	}
	return s
}

func (s *memCharacterStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Character, error) {
	if c, ok := s.characters[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, domain.ErrCharacterNotFound
}

func (s *memCharacterStore) List(_ context.Context) ([]domain.Character, error) {
	var out []domain.Character
	for _, c := range s.characters {
		out = append(out, *c)
	}
	return out, nil
}

func (s *memCharacterStore) Create(_ context.Context, c *domain.Character) error {
	clone := *c
	s.characters[c.ID] = &clone
	return nil
}

func (s *memCharacterStore) Update(_ context.Context, c *domain.Character) error {
	if _, ok := s.characters[c.ID]; !ok {
		return domain.ErrCharacterNotFound
	}
	clone := *c
	s.characters[c.ID] = &clone
	return nil
}

type memPlanStore struct {
	plans map[string]*domain.Plan
}

func newMemPlanStore() *memPlanStore { return &memPlanStore{plans: map[string]*domain.Plan{}} }

func (s *memPlanStore) ActivePlan(_ context.Context, userID string) (*domain.Plan, error) {
	return s.plans[userID], nil
}

type scriptedGenerator struct {
	mu    sync.Mutex
	reply string
	err   error
}

func (g *scriptedGenerator) fail(err error) {
	g.mu.Lock()
	g.err = err
	g.mu.Unlock()
}

func (g *scriptedGenerator) Complete(_ context.Context, _ []service.ChatMessage) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}
