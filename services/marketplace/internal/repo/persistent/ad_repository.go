package persistent

import (
	"context"

	"souk-oman/pkg/storage"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/model"
)

// AdRepository persists user-created ads. Seed ads never go through it.
type AdRepository interface {
	List(ctx context.Context) []*entity.Ad
	Add(ctx context.Context, ad *entity.Ad)
	Update(ctx context.Context, ad *entity.Ad) bool
	Delete(ctx context.Context, id string) bool
}

type adRepository struct {
	store *storage.Facade
}

func NewAdRepository(store *storage.Facade) AdRepository {
	return &adRepository{store: store}
}

func (r *adRepository) load(ctx context.Context) []model.AdModel {
	return storage.GetItem(ctx, r.store, storage.KeyUserAds, []model.AdModel{})
}

func (r *adRepository) save(ctx context.Context, ads []model.AdModel) {
	r.store.Set(ctx, storage.KeyUserAds, ads)
}

func (r *adRepository) List(ctx context.Context) []*entity.Ad {
	stored := r.load(ctx)
	ads := make([]*entity.Ad, 0, len(stored))
	for i := range stored {
		ads = append(ads, ToAdEntity(&stored[i]))
	}
	return ads
}

func (r *adRepository) Add(ctx context.Context, ad *entity.Ad) {
	stored := r.load(ctx)
	stored = append(stored, *ToAdModel(ad))
	r.save(ctx, stored)
}

// Update replaces the stored ad with the same id and reports whether one
// existed.
func (r *adRepository) Update(ctx context.Context, ad *entity.Ad) bool {
	stored := r.load(ctx)
	for i := range stored {
		if stored[i].ID == ad.ID {
			stored[i] = *ToAdModel(ad)
			r.save(ctx, stored)
			return true
		}
	}
	return false
}

func (r *adRepository) Delete(ctx context.Context, id string) bool {
	stored := r.load(ctx)
	kept := stored[:0]
	for _, m := range stored {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(stored) {
		return false
	}
	r.save(ctx, kept)
	return true
}
