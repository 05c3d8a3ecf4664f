package domain

import (
	"time"

	"github.com/google/uuid"
)

// Chat is one conversation thread between an identity and a character.
// Exactly one of UserID/GuestID is set, enforced by a CHECK constraint.
type Chat struct {
	ID          uuid.UUID
	CharacterID uuid.UUID
	UserID      *string
	GuestID     *string
	Title       string
	Pinned      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether the given identity owns the chat. Both the kind
// and the id must match.
func (c *Chat) OwnedBy(id Identity) bool {
	switch id.Kind {
	case IdentityUser:
		return c.UserID != nil && *c.UserID == id.UserID
	case IdentityGuest:
		return c.GuestID != nil && *c.GuestID == id.GuestID
	default:
		return false
	}
}
