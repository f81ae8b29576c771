package persistent

import (
	"context"

	"souk-oman/pkg/storage"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/model"
)

type AnalyticsRepository interface {
	Get(ctx context.Context) entity.Analytics
	Put(ctx context.Context, a entity.Analytics)
}

type analyticsRepository struct {
	store *storage.Facade
}

func NewAnalyticsRepository(store *storage.Facade) AnalyticsRepository {
	return &analyticsRepository{store: store}
}

func (r *analyticsRepository) Get(ctx context.Context) entity.Analytics {
	return ToAnalyticsEntity(storage.GetItem(ctx, r.store, storage.KeyAnalytics, model.AnalyticsModel{}))
}

func (r *analyticsRepository) Put(ctx context.Context, a entity.Analytics) {
	r.store.Set(ctx, storage.KeyAnalytics, ToAnalyticsModel(a))
}
