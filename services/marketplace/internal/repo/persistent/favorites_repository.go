package persistent

import (
	"context"

	"souk-oman/pkg/storage"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/model"
)

// FavoritesRepository keeps snapshots of favorited ads for one session.
type FavoritesRepository interface {
	List(ctx context.Context) []*entity.Ad
	Save(ctx context.Context, ads []*entity.Ad)
}

type favoritesRepository struct {
	store *storage.Facade
}

func NewFavoritesRepository(store *storage.Facade) FavoritesRepository {
	return &favoritesRepository{store: store}
}

func (r *favoritesRepository) List(ctx context.Context) []*entity.Ad {
	stored := storage.GetItem(ctx, r.store, storage.KeyFavorites, []model.AdModel{})
	ads := make([]*entity.Ad, 0, len(stored))
	for i := range stored {
		ads = append(ads, ToAdEntity(&stored[i]))
	}
	return ads
}

func (r *favoritesRepository) Save(ctx context.Context, ads []*entity.Ad) {
	stored := make([]*model.AdModel, 0, len(ads))
	for _, ad := range ads {
		stored = append(stored, ToAdModel(ad))
	}
	r.store.Set(ctx, storage.KeyFavorites, stored)
}
