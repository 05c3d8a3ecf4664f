package domain

import "fmt"

// ActionType is a quota-limited action.
type ActionType string

const (
	ActionCreateChat  ActionType = "create_chat"
	ActionSendMessage ActionType = "send_message"
)

// DenialReason tells the caller which call-to-action to render.
type DenialReason string

const (
	// DenialLoginRequired: the guest tier is out of headroom; signing up
	// lifts the limit.
	DenialLoginRequired DenialReason = "LOGIN_REQUIRED"
	// DenialUpgradeRequired: a free-tier user hit a limit; a paid plan
	// lifts it.
	DenialUpgradeRequired DenialReason = "UPGRADE_REQUIRED"
)

// QuotaDeniedError is a first-class outcome, not an exceptional failure:
// the user can always recover by logging in or upgrading.
type QuotaDeniedError struct {
	Action ActionType
	Tier   PlanTier
	Reason DenialReason
	Limit  int
}

func (e *QuotaDeniedError) Error() string {
	return fmt.Sprintf("quota denied: %s limit %d reached on tier %s (%s)", e.Action, e.Limit, e.Tier, e.Reason)
}
