package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/glimmerchat/glimmer/internal/domain"
)

type fakeChatStore struct {
	mu        sync.Mutex
	chats     map[uuid.UUID]*domain.Chat
	createErr error
	// onCreateConflict runs before createErr is returned, with the lock
	// held; tests use it to plant the race winner's row.
	onCreateConflict func(f *fakeChatStore)
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{chats: map[uuid.UUID]*domain.Chat{}}
}

func (f *fakeChatStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.chats[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, domain.ErrChatNotFound
}

func (f *fakeChatStore) FindByGuest(_ context.Context, guestID string) (*domain.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.chats {
		if c.GuestID != nil && *c.GuestID == guestID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrChatNotFound
}

func (f *fakeChatStore) FindByUserAndCharacter(_ context.Context, userID string, characterID uuid.UUID) (*domain.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.chats {
		if c.UserID != nil && *c.UserID == userID && c.CharacterID == characterID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrChatNotFound
}

func (f *fakeChatStore) ListByOwner(_ context.Context, owner domain.Identity) ([]domain.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Chat
	for _, c := range f.chats {
		if c.OwnedBy(owner) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeChatStore) Create(_ context.Context, c *domain.Chat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		if f.onCreateConflict != nil {
			f.onCreateConflict(f)
		}
		return f.createErr
	}
	// Mirror the partial unique indexes.
	for _, existing := range f.chats {
		if c.GuestID != nil && existing.GuestID != nil && *existing.GuestID == *c.GuestID {
			return domain.ErrChatExists
		}
		if c.UserID != nil && existing.UserID != nil && *existing.UserID == *c.UserID && existing.CharacterID == c.CharacterID {
			return domain.ErrChatExists
		}
	}
	clone := *c
	f.chats[c.ID] = &clone
	return nil
}

func (f *fakeChatStore) CountByUser(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, c := range f.chats {
		if c.UserID != nil && *c.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeChatStore) UpdateTitle(_ context.Context, id uuid.UUID, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chats[id]
	if !ok {
		return domain.ErrChatNotFound
	}
	c.Title = title
	return nil
}

func (f *fakeChatStore) SetPinned(_ context.Context, id uuid.UUID, pinned bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chats[id]
	if !ok {
		return domain.ErrChatNotFound
	}
	c.Pinned = pinned
	return nil
}

func (f *fakeChatStore) Touch(_ context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeChatStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.chats[id]; !ok {
		return domain.ErrChatNotFound
	}
	delete(f.chats, id)
	return nil
}

type fakeMessageStore struct {
	mu         sync.Mutex
	messages   []domain.Message
	nextID     int64
	failRole   domain.MessageRole
	failAppend error
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{}
}

func (f *fakeMessageStore) Append(_ context.Context, m *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppend != nil && m.Role == f.failRole {
		return f.failAppend
	}
	f.nextID++
	m.ID = f.nextID
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeMessageStore) ListByChat(_ context.Context, chatID uuid.UUID) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Message
	for _, m := range f.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) CountByChat(_ context.Context, chatID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, m := range f.messages {
		if m.ChatID == chatID {
			count++
		}
	}
	return count, nil
}

func (f *fakeMessageStore) DeleteByChat(_ context.Context, chatID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.messages[:0]
	for _, m := range f.messages {
		if m.ChatID != chatID {
			kept = append(kept, m)
		}
	}
	f.messages = kept
	return nil
}

type fakeCharacterStore struct {
	mu         sync.Mutex
	characters map[uuid.UUID]*domain.Character
}

func newFakeCharacterStore(characters ...*domain.Character) *fakeCharacterStore {
	f := &fakeCharacterStore{characters: map[uuid.UUID]*domain.Character{}}
	for _, c := range characters {
		f.characters[c.ID] = c
	}
	return f
}

func (f *fakeCharacterStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.characters[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, domain.ErrCharacterNotFound
}

func (f *fakeCharacterStore) List(_ context.Context) ([]domain.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Character
	for _, c := range f.characters {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCharacterStore) Create(_ context.Context, c *domain.Character) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *c
	f.characters[c.ID] = &clone
	return nil
}

func (f *fakeCharacterStore) Update(_ context.Context, c *domain.Character) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.characters[c.ID]; !ok {
		return domain.ErrCharacterNotFound
	}
	clone := *c
	f.characters[c.ID] = &clone
	return nil
}

type fakePlanStore struct {
	plans map[string]*domain.Plan
}

func newFakePlanStore() *fakePlanStore {
	return &fakePlanStore{plans: map[string]*domain.Plan{}}
}

func (f *fakePlanStore) ActivePlan(_ context.Context, userID string) (*domain.Plan, error) {
	return f.plans[userID], nil
}

type fakeGenerator struct {
	reply    string
	err      error
	lastSent []ChatMessage
	calls    int
}

func (f *fakeGenerator) Complete(_ context.Context, messages []ChatMessage) (string, error) {
	f.calls++
	f.lastSent = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
