package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanTier is the usage-limit bracket an identity falls into.
type PlanTier string

const (
	TierGuest PlanTier = "guest"
	TierFree  PlanTier = "free"
	TierPlus  PlanTier = "plus"
)

// Plan is a purchased subscription record for a user. Users without an
// active plan are on the free tier; guests never have plans.
type Plan struct {
	ID        int64
	UserID    string
	Tier      PlanTier
	Price     decimal.Decimal
	StartedAt time.Time
	ExpiresAt *time.Time
}

func (p *Plan) IsActive() bool {
	if p.ExpiresAt == nil {
		return true
	}
	return p.ExpiresAt.After(time.Now())
}
