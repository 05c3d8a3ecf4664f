package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glimmerchat/glimmer/internal/domain"
)

// PlanRepository reads subscription records. Plan rows are written by the
// billing surface, not by this service.
type PlanRepository struct {
	pool *pgxpool.Pool
}

func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

// ActivePlan returns the user's newest unexpired plan, or nil when the
// user is on the free tier.
func (r *PlanRepository) ActivePlan(ctx context.Context, userID string) (*domain.Plan, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, tier, price, started_at, expires_at
		 FROM plans
		 WHERE user_id = $1 AND (expires_at IS NULL OR expires_at > now())
		 ORDER BY started_at DESC
		 LIMIT 1`,
		userID)

	var p domain.Plan
	err := row.Scan(&p.ID, &p.UserID, &p.Tier, &p.Price, &p.StartedAt, &p.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active plan: %w", err)
	}
	return &p, nil
}
