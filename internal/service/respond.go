package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/glimmerchat/glimmer/internal/config"
	"github.com/glimmerchat/glimmer/internal/domain"
)

// Responder runs one exchange end to end: validate the chat belongs to
// the caller, enforce the message quota, assemble context, invoke the
// model, persist the user/assistant pair, return the assistant message.
// Nothing is retried automatically; the caller decides whether to
// resubmit.
type Responder struct {
	chats      ChatStore
	characters CharacterStore
	msgs       *MessageService
	quota      *QuotaService
	generator  TextGenerator
}

func NewResponder(chats ChatStore, characters CharacterStore, msgs *MessageService, quota *QuotaService, generator TextGenerator) *Responder {
	return &Responder{
		chats:      chats,
		characters: characters,
		msgs:       msgs,
		quota:      quota,
		generator:  generator,
	}
}

// Respond submits the user's text to the chat and returns the assistant
// reply. The user message is persisted only once generation succeeded, so
// a failed generation leaves the history unchanged and the caller can
// resubmit as-is; if the assistant write fails after the user write, the
// user's input is retained.
func (s *Responder) Respond(ctx context.Context, actor domain.Identity, chatID uuid.UUID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}

	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.OwnedBy(actor) {
		return nil, domain.ErrChatNotFound
	}

	count, err := s.msgs.Count(ctx, actor, chat.ID)
	if err != nil {
		return nil, err
	}
	if err := s.quota.Check(ctx, actor, domain.ActionSendMessage, count); err != nil {
		return nil, err
	}

	character, err := s.characters.GetByID(ctx, chat.CharacterID)
	if err != nil {
		return nil, err
	}

	history, err := s.msgs.History(ctx, actor, chat.ID)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, config.GenerationTimeout)
	defer cancel()

	reply, err := s.generator.Complete(genCtx, BuildContext(character, history, text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}

	if _, err := s.msgs.Append(ctx, actor, chat.ID, domain.RoleUser, text); err != nil {
		return nil, err
	}
	assistant, err := s.msgs.Append(ctx, actor, chat.ID, domain.RoleAssistant, reply)
	if err != nil {
		return nil, err
	}
	return assistant, nil
}
