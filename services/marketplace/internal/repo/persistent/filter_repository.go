package persistent

import (
	"context"

	"souk-oman/pkg/storage"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/model"
)

type FilterRepository interface {
	Get(ctx context.Context) entity.FilterSet
	Save(ctx context.Context, filters entity.FilterSet)
	Clear(ctx context.Context)
}

type filterRepository struct {
	store *storage.Facade
}

func NewFilterRepository(store *storage.Facade) FilterRepository {
	return &filterRepository{store: store}
}

func (r *filterRepository) Get(ctx context.Context) entity.FilterSet {
	var m model.FilterModel
	if !r.store.Get(ctx, storage.KeyFilters, &m) {
		return entity.DefaultFilters()
	}
	return ToFilterEntity(m)
}

func (r *filterRepository) Save(ctx context.Context, filters entity.FilterSet) {
	r.store.Set(ctx, storage.KeyFilters, ToFilterModel(filters))
}

func (r *filterRepository) Clear(ctx context.Context) {
	r.store.Remove(ctx, storage.KeyFilters)
}
