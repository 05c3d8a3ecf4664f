package domain

import (
	"time"

	"github.com/google/uuid"
)

// Character is an AI persona users chat with. Official characters have no
// creator; the rest belong to the user who created them.
type Character struct {
	ID             uuid.UUID
	Name           string
	Tagline        string
	PromptTemplate string
	Personality    string
	VoiceStyle     string
	CreatorUserID  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (c *Character) IsOfficial() bool {
	return c.CreatorUserID == nil
}

// CreatedBy reports whether the identity is the character's creator.
// Guests never own characters.
func (c *Character) CreatedBy(id Identity) bool {
	if c.CreatorUserID == nil || id.Kind != IdentityUser {
		return false
	}
	return *c.CreatorUserID == id.UserID
}
