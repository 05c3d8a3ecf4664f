package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole is who authored a message within a chat.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one entry in a chat. Append-only; ordering is by CreatedAt
// ascending with ID as tiebreaker.
type Message struct {
	ID          int64
	ChatID      uuid.UUID
	CharacterID uuid.UUID
	Role        MessageRole
	Content     string
	CreatedAt   time.Time
}
