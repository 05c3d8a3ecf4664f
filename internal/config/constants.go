package config

import (
	"time"

	"github.com/glimmerchat/glimmer/internal/domain"
)

const (
	// Chat count limits per tier. Zero or negative means no cap. The guest
	// limit is informational only: guests are capped at one lifetime chat
	// by an identity-kind rule, not by this table.
	MaxChatsGuest = 1
	MaxChatsFree  = 10
	MaxChatsPlus  = 0

	// Messages per chat.
	MaxMessagesGuest = 10
	MaxMessagesFree  = 200
	MaxMessagesPlus  = 0

	// AI request timeout.
	GenerationTimeout = 90 * time.Second

	// Guest cookie lifetime.
	GuestCookieMaxAge = 365 * 24 * time.Hour
)

// ChatLimit returns the chat-count cap for a tier.
func ChatLimit(tier domain.PlanTier) int {
	switch tier {
	case domain.TierGuest:
		return MaxChatsGuest
	case domain.TierPlus:
		return MaxChatsPlus
	default:
		return MaxChatsFree
	}
}

// MessageLimit returns the per-chat message cap for a tier.
func MessageLimit(tier domain.PlanTier) int {
	switch tier {
	case domain.TierGuest:
		return MaxMessagesGuest
	case domain.TierPlus:
		return MaxMessagesPlus
	default:
		return MaxMessagesFree
	}
}
