package persistent

import (
	"context"

	"souk-oman/pkg/storage"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/model"
)

// SubscriptionRepository keeps the latest subscription of each user.
type SubscriptionRepository interface {
	Get(ctx context.Context, userID string) (*entity.Subscription, bool)
	Put(ctx context.Context, sub *entity.Subscription)
}

type subscriptionRepository struct {
	store *storage.Facade
}

func NewSubscriptionRepository(store *storage.Facade) SubscriptionRepository {
	return &subscriptionRepository{store: store}
}

func (r *subscriptionRepository) load(ctx context.Context) map[string]model.SubscriptionModel {
	subs := storage.GetItem(ctx, r.store, storage.KeySubscriptions, map[string]model.SubscriptionModel{})
	if subs == nil {
		subs = map[string]model.SubscriptionModel{}
	}
	return subs
}

func (r *subscriptionRepository) Get(ctx context.Context, userID string) (*entity.Subscription, bool) {
	m, ok := r.load(ctx)[userID]
	if !ok {
		return nil, false
	}
	return ToSubscriptionEntity(userID, m), true
}

func (r *subscriptionRepository) Put(ctx context.Context, sub *entity.Subscription) {
	subs := r.load(ctx)
	subs[sub.UserID] = ToSubscriptionModel(sub)
	r.store.Set(ctx, storage.KeySubscriptions, subs)
}
