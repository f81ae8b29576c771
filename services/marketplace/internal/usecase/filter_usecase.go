package usecase

import (
	"context"
	"sync"

	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/repo/persistent"
)

// FilterState is the active filter set of one session.
type FilterState interface {
	Active(ctx context.Context) entity.FilterSet
	Update(ctx context.Context, patch entity.FilterPatch) (entity.FilterSet, error)
	Clear(ctx context.Context) entity.FilterSet
}

type filterState struct {
	repo persistent.FilterRepository
	mu   sync.Mutex
}

func NewFilterState(repo persistent.FilterRepository) FilterState {
	return &filterState{repo: repo}
}

func (s *filterState) Active(ctx context.Context) entity.FilterSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Get(ctx)
}

// Update merges patch into the active set. An invalid result is rejected
// and the active set is kept.
func (s *filterState) Update(ctx context.Context, patch entity.FilterPatch) (entity.FilterSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.repo.Get(ctx)
	next := patch.Apply(current)
	if err := next.Validate(); err != nil {
		return current, err
	}
	s.repo.Save(ctx, next)
	return next, nil
}

func (s *filterState) Clear(ctx context.Context) entity.FilterSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo.Clear(ctx)
	return entity.DefaultFilters()
}
