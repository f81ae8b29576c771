package usecase

import (
	"context"
	"sync"
	"time"

	"souk-oman/pkg/logger"
	"souk-oman/pkg/queue"
	"souk-oman/pkg/storage"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/repo/persistent"

	"github.com/stretchr/testify/mock"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type acceptCode string

func (a acceptCode) Verify(code string) bool { return code == string(a) }

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishAdEvent(ctx context.Context, event queue.AdEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// Wednesday 1 May 2024, 09:00 in Muscat.
var wednesday = time.Date(2024, 5, 1, 5, 0, 0, 0, time.UTC)

func muscat() *time.Location {
	loc, err := time.LoadLocation("Asia/Muscat")
	if err != nil {
		panic(err)
	}
	return loc
}

func newStore() *storage.Facade {
	return storage.NewFacade(storage.NewMemoryBackend(), logger.NewNop())
}

func newListing(store *storage.Facade, clock Clock, seed []*entity.Ad) ListingUseCase {
	return NewListingUseCase(context.Background(), ListingDeps{
		AdRepo:        persistent.NewAdRepository(store),
		QuotaRepo:     persistent.NewQuotaRepository(store),
		AnalyticsRepo: persistent.NewAnalyticsRepository(store),
		Seed:          seed,
		Clock:         clock,
		Location:      muscat(),
		Logger:        logger.NewNop(),
	})
}

func validDraft() entity.AdDraft {
	return entity.AdDraft{
		Title:       entity.LocalizedText{"ar": "هاتف", "en": "Phone"},
		Description: entity.LocalizedText{"ar": "هاتف مستعمل", "en": "Used phone"},
		Price:       25,
		Category:    "electronics",
		Location:    "muscat_city",
	}
}

func pricedAd(id string, price float64, posted time.Time) *entity.Ad {
	return &entity.Ad{
		ID:          id,
		Title:       entity.LocalizedText{"ar": "إعلان", "en": "Ad " + id},
		Description: entity.LocalizedText{"ar": "وصف", "en": "Description"},
		Price:       price,
		Category:    "electronics",
		Location:    "muscat_city",
		PostedAt:    posted,
		Clicks:      entity.DefaultClicks(),
		UserID:      "seller",
	}
}

func ids(ads []*entity.Ad) []string {
	out := make([]string, 0, len(ads))
	for _, ad := range ads {
		out = append(out, ad.ID)
	}
	return out
}
