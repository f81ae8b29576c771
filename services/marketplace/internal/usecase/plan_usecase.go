package usecase

import (
	"context"
	"fmt"
	"sync"

	"souk-oman/pkg/logger"
	"souk-oman/pkg/metrics"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/repo/persistent"

	"github.com/google/uuid"
)

// PlanUseCase lists subscription plans and records purchases.
type PlanUseCase interface {
	Plans() []*entity.Plan
	Durations() []int
	Summary(planID string, days int) (*entity.PlanSummary, error)
	Subscribe(ctx context.Context, userID, planID string, days int) (*entity.Subscription, error)
	ActiveSubscription(ctx context.Context, userID string) (*entity.Subscription, bool)
}

type PlanDeps struct {
	Plans            []*entity.Plan
	SubscriptionRepo persistent.SubscriptionRepository
	Delayer          Delayer
	Clock            Clock
	Metrics          *metrics.Metrics
	Logger           *logger.Logger
}

type planUseCase struct {
	plans   []*entity.Plan
	repo    persistent.SubscriptionRepository
	delayer Delayer
	clock   Clock
	metrics *metrics.Metrics
	logger  *logger.Logger
	mu      sync.Mutex
}

func NewPlanUseCase(deps PlanDeps) PlanUseCase {
	uc := &planUseCase{
		repo:    deps.SubscriptionRepo,
		delayer: deps.Delayer,
		clock:   deps.Clock,
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}
	for _, p := range deps.Plans {
		uc.plans = append(uc.plans, p.Clone())
	}
	if uc.delayer == nil {
		uc.delayer = NoDelay{}
	}
	if uc.clock == nil {
		uc.clock = SystemClock{}
	}
	return uc
}

func (uc *planUseCase) Plans() []*entity.Plan {
	out := make([]*entity.Plan, 0, len(uc.plans))
	for _, p := range uc.plans {
		out = append(out, p.Clone())
	}
	return out
}

func (uc *planUseCase) Durations() []int {
	return append([]int(nil), entity.PlanDurations...)
}

func (uc *planUseCase) plan(planID string) (*entity.Plan, error) {
	if planID == "" {
		return nil, fmt.Errorf("%w: no plan selected", entity.ErrValidation)
	}
	for _, p := range uc.plans {
		if p.ID == planID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", entity.ErrPlanNotFound, planID)
}

// Summary prices planID for days. The plan price covers a 30-day period
// and is prorated for other durations.
func (uc *planUseCase) Summary(planID string, days int) (*entity.PlanSummary, error) {
	p, err := uc.plan(planID)
	if err != nil {
		return nil, err
	}
	if !entity.ValidDuration(days) {
		return nil, fmt.Errorf("%w: unsupported duration %d", entity.ErrValidation, days)
	}
	return &entity.PlanSummary{
		Plan:          p.Clone(),
		DurationDays:  days,
		PricePerMonth: p.Price,
		Total:         p.Total(days),
	}, nil
}

// Subscribe records a subscription after the simulated payment delay. A new
// subscription replaces the user's current one.
func (uc *planUseCase) Subscribe(ctx context.Context, userID, planID string, days int) (*entity.Subscription, error) {
	if userID == "" {
		return nil, entity.ErrAuthRequired
	}
	summary, err := uc.Summary(planID, days)
	if err != nil {
		return nil, err
	}
	if err := uc.delayer.Delay(ctx); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	sub := &entity.Subscription{
		ID:           uuid.NewString(),
		UserID:       userID,
		PlanID:       planID,
		DurationDays: days,
		Total:        summary.Total,
		StartedAt:    now,
		ExpiresAt:    now.AddDate(0, 0, days),
	}

	uc.mu.Lock()
	uc.repo.Put(ctx, sub)
	uc.mu.Unlock()

	uc.metrics.Subscribed(planID)
	uc.logger.Info("User %s subscribed to %s for %d days", userID, planID, days)
	return sub, nil
}

func (uc *planUseCase) ActiveSubscription(ctx context.Context, userID string) (*entity.Subscription, bool) {
	uc.mu.Lock()
	sub, ok := uc.repo.Get(ctx, userID)
	uc.mu.Unlock()

	if !ok || !sub.Active(uc.clock.Now()) {
		return nil, false
	}
	return sub, true
}
