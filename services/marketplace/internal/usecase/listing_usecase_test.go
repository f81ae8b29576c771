package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"souk-oman/pkg/logger"
	"souk-oman/pkg/queue"
	"souk-oman/pkg/storage"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/fixture"
	"souk-oman/services/marketplace/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateAd_FirstOfWeek(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	uc := newListing(store, newFakeClock(wednesday), nil)

	ad, err := uc.CreateAd(ctx, "user-1", validDraft())
	require.NoError(t, err)

	assert.Equal(t, "user-1", ad.UserID)
	assert.Equal(t, 0, ad.Views)
	assert.Equal(t, entity.DefaultClicks(), ad.Clicks)
	assert.Equal(t, wednesday, ad.PostedAt)
	assert.Equal(t, "1714539600000", ad.ID)
	assert.Equal(t, 2, uc.RemainingAds(ctx, "user-1"))
	assert.True(t, uc.CanCreateAd(ctx, "user-1"))

	stored := persistent.NewAdRepository(store).List(ctx)
	require.Len(t, stored, 1)
	assert.Equal(t, ad.ID, stored[0].ID)
}

func TestCreateAd_QuotaExceeded(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	clock := newFakeClock(wednesday)
	uc := newListing(store, clock, nil)

	for i := 1; i <= entity.WeeklyAdLimit; i++ {
		_, err := uc.CreateAd(ctx, "user-1", validDraft())
		require.NoError(t, err)
		assert.Equal(t, i, uc.Quota(ctx, "user-1").Used)
		clock.Advance(time.Minute)
	}

	before := ids(uc.FilterAds(entity.DefaultFilters()))
	storedBefore := persistent.NewAdRepository(store).List(ctx)

	_, err := uc.CreateAd(ctx, "user-1", validDraft())
	assert.True(t, errors.Is(err, entity.ErrQuotaExceeded))

	assert.Equal(t, before, ids(uc.FilterAds(entity.DefaultFilters())))
	assert.Equal(t, storedBefore, persistent.NewAdRepository(store).List(ctx))
	assert.Equal(t, 0, uc.RemainingAds(ctx, "user-1"))
	assert.False(t, uc.CanCreateAd(ctx, "user-1"))

	// Other users keep their own quota.
	_, err = uc.CreateAd(ctx, "user-2", validDraft())
	assert.NoError(t, err)
}

func TestQuota_ResetsInNewWeek(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(wednesday)
	uc := newListing(newStore(), clock, nil)

	for i := 0; i < entity.WeeklyAdLimit; i++ {
		_, err := uc.CreateAd(ctx, "user-1", validDraft())
		require.NoError(t, err)
	}
	assert.Equal(t, "2024-04-28", uc.Quota(ctx, "user-1").WeekStart)

	// Saturday 23:30 Muscat is still the same week.
	clock.Advance(3*24*time.Hour + 14*time.Hour + 30*time.Minute)
	assert.Equal(t, 0, uc.RemainingAds(ctx, "user-1"))

	// Sunday 00:30 Muscat starts a new one.
	clock.Advance(time.Hour)
	q := uc.Quota(ctx, "user-1")
	assert.Equal(t, "2024-05-05", q.WeekStart)
	assert.Equal(t, 0, q.Used)
	assert.Equal(t, 3, q.Remaining)

	_, err := uc.CreateAd(ctx, "user-1", validDraft())
	assert.NoError(t, err)
	assert.Equal(t, 2, uc.RemainingAds(ctx, "user-1"))
}

func TestWeekStart(t *testing.T) {
	loc := muscat()
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"Sunday", time.Date(2024, 5, 5, 10, 0, 0, 0, loc), "2024-05-05"},
		{"Saturday", time.Date(2024, 5, 4, 23, 59, 0, 0, loc), "2024-04-28"},
		{"UTC evening is next day locally", time.Date(2024, 5, 4, 21, 0, 0, 0, time.UTC), "2024-05-05"},
		{"Across month", time.Date(2024, 6, 1, 12, 0, 0, 0, loc), "2024-05-26"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.at, loc))
		})
	}
}

func TestCreateAd_Errors(t *testing.T) {
	ctx := context.Background()
	uc := newListing(newStore(), newFakeClock(wednesday), nil)

	_, err := uc.CreateAd(ctx, "", validDraft())
	assert.True(t, errors.Is(err, entity.ErrAuthRequired))

	tests := []struct {
		name   string
		mutate func(d *entity.AdDraft)
	}{
		{"Negative price", func(d *entity.AdDraft) { d.Price = -1 }},
		{"Price too high", func(d *entity.AdDraft) { d.Price = 100001 }},
		{"Missing English title", func(d *entity.AdDraft) { d.Title = entity.LocalizedText{"ar": "هاتف"} }},
		{"Missing description", func(d *entity.AdDraft) { d.Description = nil }},
		{"Missing category", func(d *entity.AdDraft) { d.Category = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			_, err := uc.CreateAd(ctx, "user-1", d)
			assert.True(t, errors.Is(err, entity.ErrValidation))
		})
	}
	assert.Equal(t, 3, uc.RemainingAds(ctx, "user-1"))
}

func TestCreateAd_UniqueIDsWithinSameMillisecond(t *testing.T) {
	ctx := context.Background()
	uc := newListing(newStore(), newFakeClock(wednesday), nil)

	first, err := uc.CreateAd(ctx, "user-1", validDraft())
	require.NoError(t, err)
	second, err := uc.CreateAd(ctx, "user-2", validDraft())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateAd_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	publisher := new(MockPublisher)
	done := make(chan struct{})
	publisher.On("PublishAdEvent", mock.Anything, mock.MatchedBy(func(e queue.AdEvent) bool {
		return e.Type == queue.RoutingAdCreated && e.UserID == "user-1"
	})).Return(nil).Run(func(mock.Arguments) { close(done) })

	uc := NewListingUseCase(ctx, ListingDeps{
		AdRepo:        persistent.NewAdRepository(store),
		QuotaRepo:     persistent.NewQuotaRepository(store),
		AnalyticsRepo: persistent.NewAnalyticsRepository(store),
		Clock:         newFakeClock(wednesday),
		Location:      muscat(),
		Publisher:     publisher,
		Logger:        logger.NewNop(),
	})

	_, err := uc.CreateAd(ctx, "user-1", validDraft())
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event not published")
	}
	publisher.AssertExpectations(t)
}

func TestUpdateAndDeleteAd(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	seed := []*entity.Ad{pricedAd("seed-1", 10, wednesday.Add(-time.Hour))}
	uc := newListing(store, newFakeClock(wednesday), seed)

	ad, err := uc.CreateAd(ctx, "user-1", validDraft())
	require.NoError(t, err)

	price := 30.0
	updated, err := uc.UpdateAd(ctx, "user-1", ad.ID, entity.AdPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 30.0, updated.Price)
	assert.Equal(t, ad.ID, updated.ID)
	assert.Equal(t, 30.0, persistent.NewAdRepository(store).List(ctx)[0].Price)

	_, err = uc.UpdateAd(ctx, "user-2", ad.ID, entity.AdPatch{Price: &price})
	assert.True(t, errors.Is(err, entity.ErrForbidden))

	_, err = uc.UpdateAd(ctx, "seller", "seed-1", entity.AdPatch{Price: &price})
	assert.True(t, errors.Is(err, entity.ErrForbidden))

	_, err = uc.UpdateAd(ctx, "user-1", "missing", entity.AdPatch{Price: &price})
	assert.True(t, errors.Is(err, entity.ErrAdNotFound))

	assert.True(t, errors.Is(uc.DeleteAd(ctx, "user-1", "missing"), entity.ErrAdNotFound))
	assert.True(t, errors.Is(uc.DeleteAd(ctx, "user-2", ad.ID), entity.ErrForbidden))

	require.NoError(t, uc.DeleteAd(ctx, "user-1", ad.ID))
	_, err = uc.GetAd(ad.ID)
	assert.True(t, errors.Is(err, entity.ErrAdNotFound))
	assert.Empty(t, persistent.NewAdRepository(store).List(ctx))
	assert.Equal(t, []string{"seed-1"}, ids(uc.FilterAds(entity.DefaultFilters())))

	// Deleting does not give the quota back.
	assert.Equal(t, 2, uc.RemainingAds(ctx, "user-1"))
}

func TestViewAd_IncrementsOnlyThatAd(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	seed := []*entity.Ad{
		pricedAd("a", 10, wednesday.Add(-2*time.Hour)),
		pricedAd("b", 20, wednesday.Add(-time.Hour)),
	}
	uc := newListing(store, newFakeClock(wednesday), seed)

	const n = 7
	for i := 0; i < n; i++ {
		_, err := uc.ViewAd(ctx, "a")
		require.NoError(t, err)
	}

	a, _ := uc.GetAd("a")
	b, _ := uc.GetAd("b")
	assert.Equal(t, n, a.Views)
	assert.Equal(t, 0, b.Views)
	assert.Equal(t, entity.DefaultClicks(), b.Clicks)

	analytics := uc.Analytics(ctx)
	assert.Equal(t, n, analytics.AdViews["a"])
	assert.Equal(t, n, analytics.TotalViews)

	_, err := uc.ViewAd(ctx, "missing")
	assert.True(t, errors.Is(err, entity.ErrAdNotFound))
}

func TestClickAd(t *testing.T) {
	ctx := context.Background()
	uc := newListing(newStore(), newFakeClock(wednesday), []*entity.Ad{pricedAd("a", 10, wednesday)})

	_, err := uc.ClickAd(ctx, "a", "phone")
	require.NoError(t, err)
	ad, err := uc.ClickAd(ctx, "a", "telegram")
	require.NoError(t, err)

	assert.Equal(t, 1, ad.Clicks["phone"])
	assert.Equal(t, 1, ad.Clicks["telegram"])
	assert.Equal(t, 0, ad.Clicks["whatsapp"])

	analytics := uc.Analytics(ctx)
	assert.Equal(t, 2, analytics.TotalClicks)
	assert.Equal(t, 1, analytics.AdClicks["a"]["telegram"])

	_, err = uc.ClickAd(ctx, "a", "")
	assert.True(t, errors.Is(err, entity.ErrValidation))
}

func TestNewListingUseCase_RestoresCounters(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	clock := newFakeClock(wednesday)

	first := newListing(store, clock, nil)
	ad, err := first.CreateAd(ctx, "user-1", validDraft())
	require.NoError(t, err)
	_, _ = first.ViewAd(ctx, ad.ID)
	_, _ = first.ClickAd(ctx, ad.ID, "whatsapp")

	second := newListing(store, clock, nil)
	restored, err := second.GetAd(ad.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Views)
	assert.Equal(t, 1, restored.Clicks["whatsapp"])
	assert.Equal(t, 2, second.RemainingAds(ctx, "user-1"))

	next, err := second.CreateAd(ctx, "user-1", validDraft())
	require.NoError(t, err)
	assert.NotEqual(t, ad.ID, next.ID)
}

func TestNewListingUseCase_SeedCountersSurviveRestart(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	clock := newFakeClock(wednesday)

	first := newListing(store, clock, fixture.SeedAds())
	base, err := first.GetAd("1")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = first.ViewAd(ctx, "1")
		require.NoError(t, err)
	}
	_, err = first.ClickAd(ctx, "1", "phone")
	require.NoError(t, err)
	_, err = first.ClickAd(ctx, "1", "telegram")
	require.NoError(t, err)

	second := newListing(store, clock, fixture.SeedAds())
	restored, err := second.GetAd("1")
	require.NoError(t, err)
	assert.Equal(t, base.Views+3, restored.Views)
	assert.Equal(t, base.Clicks["phone"]+1, restored.Clicks["phone"])
	assert.Equal(t, base.Clicks["whatsapp"], restored.Clicks["whatsapp"])
	assert.Equal(t, 1, restored.Clicks["telegram"])

	// A further restart does not count the same activity twice.
	third := newListing(store, clock, fixture.SeedAds())
	again, err := third.GetAd("1")
	require.NoError(t, err)
	assert.Equal(t, restored.Views, again.Views)
	assert.Equal(t, restored.Clicks, again.Clicks)

	untouched, err := third.GetAd("2")
	require.NoError(t, err)
	assert.Equal(t, fixture.SeedAds()[1].Views, untouched.Views)
}

func TestNewListingUseCase_UpdatedUserAdCountersSurviveRestart(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	clock := newFakeClock(wednesday)

	first := newListing(store, clock, nil)
	ad, err := first.CreateAd(ctx, "user-1", validDraft())
	require.NoError(t, err)
	_, _ = first.ViewAd(ctx, ad.ID)
	_, _ = first.ViewAd(ctx, ad.ID)

	// The update stores the ad with its two views.
	price := 30.0
	_, err = first.UpdateAd(ctx, "user-1", ad.ID, entity.AdPatch{Price: &price})
	require.NoError(t, err)
	_, _ = first.ViewAd(ctx, ad.ID)

	second := newListing(store, clock, nil)
	restored, err := second.GetAd(ad.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, restored.Views)
}

func TestFilterAds_PriceRangeScenario(t *testing.T) {
	ads := []*entity.Ad{
		pricedAd("1", 5, wednesday),
		pricedAd("2", 45, wednesday.Add(-time.Hour)),
		pricedAd("3", 15, wednesday.Add(-2*time.Hour)),
		pricedAd("4", 60, wednesday.Add(-3*time.Hour)),
	}
	uc := newListing(newStore(), newFakeClock(wednesday), ads)

	got := uc.FilterAds(entity.FilterSet{PriceMin: "10", PriceMax: "50", SortBy: entity.SortPriceLow})

	require.Len(t, got, 2)
	assert.Equal(t, 15.0, got[0].Price)
	assert.Equal(t, 45.0, got[1].Price)
}

func TestFilterAds_Conjunction(t *testing.T) {
	now := wednesday
	ads := []*entity.Ad{
		{ID: "1", Category: "cars", Location: "seeb", Price: 100, PostedAt: now.Add(-48 * time.Hour)},
		{ID: "2", Category: "cars", Location: "muttrah", Price: 200, PostedAt: now.Add(-1 * time.Hour)},
		{ID: "3", Category: "electronics", Location: "seeb", Price: 150, PostedAt: now.Add(-2 * time.Hour)},
		{ID: "4", Category: "cars", Location: "seeb", Price: 900, PostedAt: now.Add(-3 * time.Hour)},
		{ID: "5", Category: "cars", Location: "seeb", Price: 120, PostedAt: now.Add(time.Hour)},
	}

	tests := []struct {
		name    string
		filters entity.FilterSet
		want    []string
	}{
		{"No constraint, newest first", entity.FilterSet{}, []string{"5", "2", "3", "4", "1"}},
		{"Category", entity.FilterSet{Category: "cars"}, []string{"5", "2", "4", "1"}},
		{"Category and location", entity.FilterSet{Category: "cars", Location: "seeb"}, []string{"5", "4", "1"}},
		{"Range with open max", entity.FilterSet{PriceRange: "150-"}, []string{"2", "3", "4"}},
		{"Range with zero max", entity.FilterSet{PriceRange: "150-0"}, []string{"2", "3", "4"}},
		{"Range", entity.FilterSet{PriceRange: "100-150", SortBy: entity.SortOldest}, []string{"1", "3", "5"}},
		{"Date excludes older and future", entity.FilterSet{Date: "2024-05-01"}, []string{"2", "3", "4"}},
		{"Everything", entity.FilterSet{Category: "cars", Location: "seeb", PriceMin: "100", PriceMax: "500", Date: "2024-04-29"}, []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAds(ads, tt.filters, now)
			assert.Equal(t, tt.want, ids(got))
			for _, ad := range got {
				if tt.filters.Category != "" {
					assert.Equal(t, tt.filters.Category, ad.Category)
				}
				if tt.filters.Location != "" {
					assert.Equal(t, tt.filters.Location, ad.Location)
				}
			}
		})
	}
}

func TestFilterAds_Idempotent(t *testing.T) {
	uc := newListing(newStore(), newFakeClock(wednesday), []*entity.Ad{
		pricedAd("1", 30, wednesday.Add(-time.Hour)),
		pricedAd("2", 10, wednesday.Add(-2*time.Hour)),
		pricedAd("3", 20, wednesday.Add(-3*time.Hour)),
	})
	f := entity.FilterSet{PriceMin: "15", SortBy: entity.SortPriceHigh}

	assert.Equal(t, uc.FilterAds(f), uc.FilterAds(f))
}

func TestSortAds_Monotonic(t *testing.T) {
	base := wednesday
	build := func() []*entity.Ad {
		return []*entity.Ad{
			pricedAd("1", 40, base.Add(-5*time.Hour)),
			pricedAd("2", 10, base.Add(-1*time.Hour)),
			pricedAd("3", 40, base.Add(-3*time.Hour)),
			pricedAd("4", 25, base.Add(-2*time.Hour)),
			pricedAd("5", 10, base.Add(-4*time.Hour)),
		}
	}

	low := build()
	SortAds(low, entity.SortPriceLow)
	for i := 1; i < len(low); i++ {
		assert.LessOrEqual(t, low[i-1].Price, low[i].Price)
	}
	// Equal prices keep insertion order.
	assert.Equal(t, []string{"2", "5", "4", "1", "3"}, ids(low))

	high := build()
	SortAds(high, entity.SortPriceHigh)
	for i := 1; i < len(high); i++ {
		assert.GreaterOrEqual(t, high[i-1].Price, high[i].Price)
	}

	newest := build()
	SortAds(newest, entity.SortNewest)
	for i := 1; i < len(newest); i++ {
		assert.False(t, newest[i].PostedAt.After(newest[i-1].PostedAt))
	}

	oldest := build()
	SortAds(oldest, entity.SortOldest)
	for i := 1; i < len(oldest); i++ {
		assert.False(t, oldest[i].PostedAt.Before(oldest[i-1].PostedAt))
	}
}

func TestDerivedViews(t *testing.T) {
	ctx := context.Background()
	seed := []*entity.Ad{
		pricedAd("1", 10, wednesday.Add(-1*time.Hour)),
		pricedAd("2", 20, wednesday.Add(-2*time.Hour)),
	}
	seed[1].Featured = true
	seed[1].Category = "cars"
	uc := newListing(newStore(), newFakeClock(wednesday), seed)

	mine, err := uc.CreateAd(ctx, "user-1", validDraft())
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, ids(uc.FeaturedAds()))
	assert.Equal(t, []string{"2"}, ids(uc.AdsByCategory("cars")))
	assert.Equal(t, []string{mine.ID, "1"}, ids(uc.RecentAds(2)))
	assert.Len(t, uc.RecentAds(0), 3)
	assert.Equal(t, []string{mine.ID}, ids(uc.UserAds("user-1")))
	assert.Empty(t, uc.UserAds("seller"))
	assert.Empty(t, uc.UserAds(""))
}

func TestGetAd_ReturnsCopy(t *testing.T) {
	uc := newListing(newStore(), newFakeClock(wednesday), []*entity.Ad{pricedAd("1", 10, wednesday)})

	ad, err := uc.GetAd("1")
	require.NoError(t, err)
	ad.Price = 999
	ad.Clicks["phone"] = 50

	again, _ := uc.GetAd("1")
	assert.Equal(t, 10.0, again.Price)
	assert.Equal(t, 0, again.Clicks["phone"])
}

func TestGetFilteredAds_UsesSessionFilters(t *testing.T) {
	ctx := context.Background()
	uc := newListing(newStore(), newFakeClock(wednesday), []*entity.Ad{
		pricedAd("1", 5, wednesday),
		pricedAd("2", 50, wednesday),
	})
	filters := NewFilterState(persistent.NewFilterRepository(newStore()))

	priceMin := "10"
	_, err := filters.Update(ctx, entity.FilterPatch{PriceMin: &priceMin})
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, ids(uc.GetFilteredAds(ctx, filters)))
}

func TestStorageFailure_DoesNotBreakListings(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFacade(failingBackend{}, logger.NewNop())
	uc := newListing(store, newFakeClock(wednesday), nil)

	ad, err := uc.CreateAd(ctx, "user-1", validDraft())
	require.NoError(t, err)
	_, err = uc.GetAd(ad.ID)
	assert.NoError(t, err)
}

type failingBackend struct{}

func (failingBackend) Read(context.Context, string) (string, bool, error) {
	return "", false, errors.New("down")
}
func (failingBackend) Write(context.Context, string, string) error { return errors.New("down") }
func (failingBackend) Delete(context.Context, string) error        { return errors.New("down") }

func TestRelatedAds(t *testing.T) {
	uc := newListing(newStore(), newFakeClock(wednesday), fixture.SeedAds())

	// Ad 1 is electronics in muscat_city: ad 5 shares the category and ad 8
	// the location.
	related, err := uc.RelatedAds("1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "8"}, ids(related))

	related, err = uc.RelatedAds("2", 0)
	require.NoError(t, err)
	assert.Empty(t, related)

	_, err = uc.RelatedAds("missing", 0)
	assert.ErrorIs(t, err, entity.ErrAdNotFound)
}

func TestRelatedAds_Limit(t *testing.T) {
	var seed []*entity.Ad
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		seed = append(seed, pricedAd(id, 10, wednesday))
	}
	uc := newListing(newStore(), newFakeClock(wednesday), seed)

	related, err := uc.RelatedAds("c", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d", "e"}, ids(related))

	related, err = uc.RelatedAds("c", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(related))

	related[0].Price = 1
	ad, err := uc.GetAd("a")
	require.NoError(t, err)
	assert.Equal(t, 10.0, ad.Price)
}
