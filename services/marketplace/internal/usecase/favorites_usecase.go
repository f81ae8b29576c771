package usecase

import (
	"context"
	"sync"

	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/repo/persistent"
)

// FavoritesUseCase keeps the favorited ads of one session.
type FavoritesUseCase interface {
	List(ctx context.Context) []*entity.Ad
	Add(ctx context.Context, ad *entity.Ad) bool
	Remove(ctx context.Context, adID string) bool
	Contains(ctx context.Context, adID string) bool
}

type favoritesUseCase struct {
	repo persistent.FavoritesRepository
	mu   sync.Mutex
}

func NewFavoritesUseCase(repo persistent.FavoritesRepository) FavoritesUseCase {
	return &favoritesUseCase{repo: repo}
}

func (uc *favoritesUseCase) List(ctx context.Context) []*entity.Ad {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.repo.List(ctx)
}

// Add stores a snapshot of ad. It reports false when the ad is already a
// favorite.
func (uc *favoritesUseCase) Add(ctx context.Context, ad *entity.Ad) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	favorites := uc.repo.List(ctx)
	for _, fav := range favorites {
		if fav.ID == ad.ID {
			return false
		}
	}
	uc.repo.Save(ctx, append(favorites, ad.Clone()))
	return true
}

func (uc *favoritesUseCase) Remove(ctx context.Context, adID string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	favorites := uc.repo.List(ctx)
	kept := make([]*entity.Ad, 0, len(favorites))
	for _, fav := range favorites {
		if fav.ID != adID {
			kept = append(kept, fav)
		}
	}
	if len(kept) == len(favorites) {
		return false
	}
	uc.repo.Save(ctx, kept)
	return true
}

func (uc *favoritesUseCase) Contains(ctx context.Context, adID string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for _, fav := range uc.repo.List(ctx) {
		if fav.ID == adID {
			return true
		}
	}
	return false
}
