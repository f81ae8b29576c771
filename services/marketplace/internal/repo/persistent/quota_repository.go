package persistent

import (
	"context"

	"souk-oman/pkg/storage"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/model"
)

// QuotaRepository stores the weekly ad counters of all users in one map.
type QuotaRepository interface {
	Get(ctx context.Context, userID string) (entity.QuotaRecord, bool)
	Put(ctx context.Context, userID string, rec entity.QuotaRecord)
}

type quotaRepository struct {
	store *storage.Facade
}

func NewQuotaRepository(store *storage.Facade) QuotaRepository {
	return &quotaRepository{store: store}
}

func (r *quotaRepository) load(ctx context.Context) map[string]model.WeeklyCountModel {
	counts := storage.GetItem(ctx, r.store, storage.KeyWeeklyAdCount, map[string]model.WeeklyCountModel{})
	if counts == nil {
		counts = map[string]model.WeeklyCountModel{}
	}
	return counts
}

func (r *quotaRepository) Get(ctx context.Context, userID string) (entity.QuotaRecord, bool) {
	m, ok := r.load(ctx)[userID]
	if !ok {
		return entity.QuotaRecord{}, false
	}
	return entity.QuotaRecord{Count: m.Count, WeekStart: m.WeekStart}, true
}

func (r *quotaRepository) Put(ctx context.Context, userID string, rec entity.QuotaRecord) {
	counts := r.load(ctx)
	counts[userID] = model.WeeklyCountModel{Count: rec.Count, WeekStart: rec.WeekStart}
	r.store.Set(ctx, storage.KeyWeeklyAdCount, counts)
}
