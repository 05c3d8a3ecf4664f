package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glimmerchat/glimmer/internal/domain"
)

func newMessageFixture(t *testing.T) (*MessageService, *fakeMessageStore, *domain.Chat, domain.Identity) {
	t.Helper()
	owner := domain.UserIdentity("u1")
	uid := owner.UserID
	chat := &domain.Chat{ID: uuid.New(), CharacterID: uuid.New(), UserID: &uid}

	chats := newFakeChatStore()
	chats.chats[chat.ID] = chat
	messages := newFakeMessageStore()
	return NewMessageService(chats, messages), messages, chat, owner
}

func TestMessageAppend_OwnershipCheckedAtWriteTime(t *testing.T) {
	ctx := context.Background()
	svc, store, chat, owner := newMessageFixture(t)

	m, err := svc.Append(ctx, owner, chat.ID, domain.RoleUser, "mine")
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	assert.Equal(t, chat.CharacterID, m.CharacterID)

	_, err = svc.Append(ctx, domain.UserIdentity("stranger"), chat.ID, domain.RoleUser, "not mine")
	assert.ErrorIs(t, err, domain.ErrChatNotFound)

	stored, err := store.ListByChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestMessageClear(t *testing.T) {
	ctx := context.Background()
	svc, store, chat, owner := newMessageFixture(t)

	for _, content := range []string{"one", "two", "three"} {
		_, err := svc.Append(ctx, owner, chat.ID, domain.RoleUser, content)
		require.NoError(t, err)
	}

	// Ownership rules are the same as for appends.
	assert.ErrorIs(t, svc.Clear(ctx, domain.GuestIdentity("guest_abc"), chat.ID), domain.ErrChatNotFound)

	require.NoError(t, svc.Clear(ctx, owner, chat.ID))
	stored, err := store.ListByChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestMessageHistory_Order(t *testing.T) {
	ctx := context.Background()
	svc, _, chat, owner := newMessageFixture(t)

	contents := []string{"a", "b", "c", "d"}
	for i, content := range contents {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		_, err := svc.Append(ctx, owner, chat.ID, role, content)
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, owner, chat.ID)
	require.NoError(t, err)
	require.Len(t, history, len(contents))
	for i, m := range history {
		assert.Equal(t, contents[i], m.Content)
		if i > 0 {
			assert.False(t, m.CreatedAt.Before(history[i-1].CreatedAt))
		}
	}
}
