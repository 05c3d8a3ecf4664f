package service

import (
	"context"
	"fmt"

	"github.com/glimmerchat/glimmer/internal/config"
	"github.com/glimmerchat/glimmer/internal/domain"
)

// QuotaService decides whether an identity may perform one more unit of a
// quota-limited action. Aside from the plan lookup it is a pure function
// of (tier, count, limits) and safe to call repeatedly.
type QuotaService struct {
	plans PlanStore
}

func NewQuotaService(plans PlanStore) *QuotaService {
	return &QuotaService{plans: plans}
}

// EffectiveTier maps an identity to its usage-limit bracket. Guests are
// always the most restrictive tier; users without an active plan are free.
func (s *QuotaService) EffectiveTier(ctx context.Context, id domain.Identity) (domain.PlanTier, error) {
	if id.IsGuest() {
		return domain.TierGuest, nil
	}
	plan, err := s.plans.ActivePlan(ctx, id.UserID)
	if err != nil {
		return "", fmt.Errorf("look up plan: %w", err)
	}
	if plan == nil || !plan.IsActive() {
		return domain.TierFree, nil
	}
	return plan.Tier, nil
}

// Check returns nil when one more unit of action is allowed, or a
// *domain.QuotaDeniedError whose reason tells the caller which
// call-to-action to render.
func (s *QuotaService) Check(ctx context.Context, id domain.Identity, action domain.ActionType, currentCount int64) error {
	tier, err := s.EffectiveTier(ctx, id)
	if err != nil {
		return err
	}
	return CheckTier(tier, action, currentCount)
}

// CheckTier is the side-effect-free core of the quota decision.
func CheckTier(tier domain.PlanTier, action domain.ActionType, currentCount int64) error {
	limit := limitFor(tier, action)
	if limit <= 0 || currentCount < int64(limit) {
		return nil
	}

	reason := domain.DenialUpgradeRequired
	if tier == domain.TierGuest {
		reason = domain.DenialLoginRequired
	}
	return &domain.QuotaDeniedError{
		Action: action,
		Tier:   tier,
		Reason: reason,
		Limit:  limit,
	}
}

func limitFor(tier domain.PlanTier, action domain.ActionType) int {
	switch action {
	case domain.ActionCreateChat:
		return config.ChatLimit(tier)
	case domain.ActionSendMessage:
		return config.MessageLimit(tier)
	default:
		return 0
	}
}
