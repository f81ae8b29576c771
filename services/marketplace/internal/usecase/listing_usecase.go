package usecase

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"souk-oman/pkg/logger"
	"souk-oman/pkg/metrics"
	"souk-oman/pkg/queue"
	"souk-oman/pkg/s3"
	"souk-oman/pkg/validator"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/repo/persistent"
)

const (
	DefaultRecentLimit  = 6
	DefaultRelatedLimit = 4
	MaxImagesPerAd      = 10
)

type ListingUseCase interface {
	CreateAd(ctx context.Context, userID string, draft entity.AdDraft) (*entity.Ad, error)
	UpdateAd(ctx context.Context, userID, adID string, patch entity.AdPatch) (*entity.Ad, error)
	DeleteAd(ctx context.Context, userID, adID string) error
	ViewAd(ctx context.Context, adID string) (*entity.Ad, error)
	ClickAd(ctx context.Context, adID, kind string) (*entity.Ad, error)

	GetAd(adID string) (*entity.Ad, error)
	FilterAds(filters entity.FilterSet) []*entity.Ad
	GetFilteredAds(ctx context.Context, filters FilterState) []*entity.Ad
	FeaturedAds() []*entity.Ad
	RecentAds(limit int) []*entity.Ad
	RelatedAds(adID string, limit int) ([]*entity.Ad, error)
	AdsByCategory(category string) []*entity.Ad
	UserAds(userID string) []*entity.Ad

	CanCreateAd(ctx context.Context, userID string) bool
	RemainingAds(ctx context.Context, userID string) int
	Quota(ctx context.Context, userID string) entity.Quota
	Analytics(ctx context.Context) entity.Analytics

	UploadImages(ctx context.Context, userID string, files []*multipart.FileHeader) ([]string, error)
}

type ListingDeps struct {
	AdRepo        persistent.AdRepository
	QuotaRepo     persistent.QuotaRepository
	AnalyticsRepo persistent.AnalyticsRepository
	Seed          []*entity.Ad
	Clock         Clock
	Location      *time.Location
	Validator     *validator.Validator
	Publisher     EventPublisher
	Images        ImageStore
	Metrics       *metrics.Metrics
	Logger        *logger.Logger
}

type listingUseCase struct {
	adRepo        persistent.AdRepository
	quotaRepo     persistent.QuotaRepository
	analyticsRepo persistent.AnalyticsRepository
	clock         Clock
	location      *time.Location
	validator     *validator.Validator
	publisher     EventPublisher
	images        ImageStore
	metrics       *metrics.Metrics
	logger        *logger.Logger

	mu      sync.RWMutex
	ads     []*entity.Ad
	seedIDs map[string]bool
	lastID  int64
}

// NewListingUseCase builds the ad collection: seed ads first, then the
// stored user ads. Counters are restored from the analytics aggregate.
func NewListingUseCase(ctx context.Context, deps ListingDeps) ListingUseCase {
	uc := &listingUseCase{
		adRepo:        deps.AdRepo,
		quotaRepo:     deps.QuotaRepo,
		analyticsRepo: deps.AnalyticsRepo,
		clock:         deps.Clock,
		location:      deps.Location,
		validator:     deps.Validator,
		publisher:     deps.Publisher,
		images:        deps.Images,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		seedIDs:       make(map[string]bool, len(deps.Seed)),
	}
	if uc.clock == nil {
		uc.clock = SystemClock{}
	}
	if uc.location == nil {
		uc.location = time.Local
	}
	if uc.validator == nil {
		uc.validator = validator.New()
	}

	for _, ad := range deps.Seed {
		uc.seedIDs[ad.ID] = true
		uc.ads = append(uc.ads, ad.Clone())
	}
	stored := uc.adRepo.List(ctx)
	uc.ads = append(uc.ads, stored...)

	analytics := uc.analyticsRepo.Get(ctx)
	for _, ad := range uc.ads {
		uc.restoreCounters(ad, analytics)
		if id, err := strconv.ParseInt(ad.ID, 10, 64); err == nil && id > uc.lastID {
			uc.lastID = id
		}
	}

	uc.logger.Info("Listings loaded: %d seed ads, %d user ads", len(deps.Seed), len(stored))
	return uc
}

// restoreCounters applies the recorded views and clicks to ad. Seed ads
// start from their fixture counts, so the recorded activity is added on
// top. A user ad starts at zero and the aggregate holds its full history,
// while its stored copy may lag behind, so the larger value wins.
func (uc *listingUseCase) restoreCounters(ad *entity.Ad, analytics entity.Analytics) {
	if ad.Clicks == nil {
		ad.Clicks = entity.DefaultClicks()
	}
	views := analytics.AdViews[ad.ID]
	clicks := analytics.AdClicks[ad.ID]

	if uc.seedIDs[ad.ID] {
		ad.Views += views
		for kind, n := range clicks {
			ad.Clicks[kind] += n
		}
		return
	}

	if views > ad.Views {
		ad.Views = views
	}
	for kind, n := range clicks {
		if n > ad.Clicks[kind] {
			ad.Clicks[kind] = n
		}
	}
}

func (uc *listingUseCase) CreateAd(ctx context.Context, userID string, draft entity.AdDraft) (*entity.Ad, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user must be logged in to create an ad", entity.ErrAuthRequired)
	}
	if err := uc.validator.ValidateStruct(draft); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	rec := uc.currentQuota(ctx, userID)
	if rec.Count >= entity.WeeklyAdLimit {
		uc.metrics.QuotaRejected()
		return nil, fmt.Errorf("%w: you can create %d ads per week", entity.ErrQuotaExceeded, entity.WeeklyAdLimit)
	}

	now := uc.clock.Now()
	images := append([]string{}, draft.Images...)
	ad := &entity.Ad{
		ID:          uc.nextID(now),
		Title:       draft.Title,
		Description: draft.Description,
		Price:       draft.Price,
		Category:    draft.Category,
		Location:    draft.Location,
		Images:      images,
		Featured:    draft.Featured,
		Delivery:    draft.Delivery,
		PostedAt:    now,
		Views:       0,
		Clicks:      entity.DefaultClicks(),
		UserID:      userID,
		Phone:       draft.Phone,
	}
	ad = ad.Clone()

	uc.adRepo.Add(ctx, ad)
	rec.Count++
	uc.quotaRepo.Put(ctx, userID, rec)
	uc.ads = append(uc.ads, ad)

	uc.metrics.AdCreated()
	uc.publish(queue.RoutingAdCreated, ad)
	uc.logger.Info("Ad %s created by %s (%d/%d this week)", ad.ID, userID, rec.Count, entity.WeeklyAdLimit)
	return ad.Clone(), nil
}

func (uc *listingUseCase) UpdateAd(ctx context.Context, userID, adID string, patch entity.AdPatch) (*entity.Ad, error) {
	if userID == "" {
		return nil, entity.ErrAuthRequired
	}
	if err := uc.validator.ValidateStruct(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}

	uc.mu.Lock()
	ad, err := uc.ownedAd(userID, adID)
	if err != nil {
		uc.mu.Unlock()
		return nil, err
	}

	previous := ad.Images
	patch.Apply(ad)
	uc.adRepo.Update(ctx, ad)
	updated := ad.Clone()
	uc.mu.Unlock()

	uc.publish(queue.RoutingAdUpdated, updated)
	if patch.Images != nil {
		uc.removeImages(ctx, uc.ownedImageKeys(userID, previous, updated.Images))
	}
	return updated, nil
}

func (uc *listingUseCase) DeleteAd(ctx context.Context, userID, adID string) error {
	if userID == "" {
		return entity.ErrAuthRequired
	}

	uc.mu.Lock()
	ad, err := uc.ownedAd(userID, adID)
	if err != nil {
		uc.mu.Unlock()
		return err
	}

	kept := make([]*entity.Ad, 0, len(uc.ads)-1)
	for _, a := range uc.ads {
		if a.ID != adID {
			kept = append(kept, a)
		}
	}
	uc.ads = kept
	uc.adRepo.Delete(ctx, adID)
	uc.mu.Unlock()

	uc.metrics.AdDeleted()
	uc.publish(queue.RoutingAdDeleted, ad)
	uc.removeImages(ctx, uc.ownedImageKeys(userID, ad.Images, nil))
	uc.logger.Info("Ad %s deleted by %s", adID, userID)
	return nil
}

// ownedImageKeys returns the storage keys of the images in urls that userID
// uploaded and that keep no longer references.
func (uc *listingUseCase) ownedImageKeys(userID string, urls, keep []string) []string {
	if uc.images == nil {
		return nil
	}
	kept := make(map[string]bool, len(keep))
	for _, u := range keep {
		kept[u] = true
	}

	prefix := s3.ImageKeyPrefix(userID)
	var keys []string
	for _, u := range urls {
		if kept[u] {
			continue
		}
		if key, ok := uc.images.KeyFromURL(u); ok && strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys
}

// removeImages deletes images from storage. Failures are logged; the ad
// change they follow has already been applied.
func (uc *listingUseCase) removeImages(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := uc.images.DeleteImage(ctx, key); err != nil {
			uc.logger.Warn("Failed to delete image %s: %v", key, err)
		}
	}
}

// ownedAd finds a user-created ad owned by userID. Caller holds uc.mu.
func (uc *listingUseCase) ownedAd(userID, adID string) (*entity.Ad, error) {
	ad := uc.find(adID)
	if ad == nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrAdNotFound, adID)
	}
	if uc.seedIDs[adID] || ad.UserID != userID {
		return nil, fmt.Errorf("%w: %s", entity.ErrForbidden, adID)
	}
	return ad, nil
}

func (uc *listingUseCase) ViewAd(ctx context.Context, adID string) (*entity.Ad, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ad := uc.find(adID)
	if ad == nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrAdNotFound, adID)
	}
	ad.Views++

	analytics := uc.analyticsRepo.Get(ctx)
	analytics.RecordView(adID)
	uc.analyticsRepo.Put(ctx, analytics)

	uc.metrics.AdViewed()
	return ad.Clone(), nil
}

// ClickAd counts a contact click. Kinds outside phone, whatsapp and share
// are counted under their own name.
func (uc *listingUseCase) ClickAd(ctx context.Context, adID, kind string) (*entity.Ad, error) {
	if kind == "" {
		return nil, fmt.Errorf("%w: click kind is required", entity.ErrValidation)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	ad := uc.find(adID)
	if ad == nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrAdNotFound, adID)
	}
	if ad.Clicks == nil {
		ad.Clicks = entity.DefaultClicks()
	}
	ad.Clicks[kind]++

	analytics := uc.analyticsRepo.Get(ctx)
	analytics.RecordClick(adID, kind)
	uc.analyticsRepo.Put(ctx, analytics)

	uc.metrics.AdClicked(kind)
	return ad.Clone(), nil
}

func (uc *listingUseCase) GetAd(adID string) (*entity.Ad, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	ad := uc.find(adID)
	if ad == nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrAdNotFound, adID)
	}
	return ad.Clone(), nil
}

func (uc *listingUseCase) FilterAds(filters entity.FilterSet) []*entity.Ad {
	uc.mu.RLock()
	snapshot := cloneAll(uc.ads)
	uc.mu.RUnlock()

	return FilterAds(snapshot, filters, uc.clock.Now())
}

func (uc *listingUseCase) GetFilteredAds(ctx context.Context, filters FilterState) []*entity.Ad {
	return uc.FilterAds(filters.Active(ctx))
}

func (uc *listingUseCase) FeaturedAds() []*entity.Ad {
	return uc.selectAds(func(ad *entity.Ad) bool { return ad.Featured })
}

func (uc *listingUseCase) RecentAds(limit int) []*entity.Ad {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	uc.mu.RLock()
	ads := cloneAll(uc.ads)
	uc.mu.RUnlock()

	SortAds(ads, entity.SortNewest)
	if len(ads) > limit {
		ads = ads[:limit]
	}
	return ads
}

// RelatedAds returns up to limit other ads sharing the ad's category or
// location, in collection order.
func (uc *listingUseCase) RelatedAds(adID string, limit int) ([]*entity.Ad, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	current := uc.find(adID)
	if current == nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrAdNotFound, adID)
	}
	related := make([]*entity.Ad, 0, limit)
	for _, ad := range uc.ads {
		if len(related) == limit {
			break
		}
		if ad.ID == current.ID {
			continue
		}
		if ad.Category == current.Category || ad.Location == current.Location {
			related = append(related, ad.Clone())
		}
	}
	return related, nil
}

func (uc *listingUseCase) AdsByCategory(category string) []*entity.Ad {
	return uc.selectAds(func(ad *entity.Ad) bool { return ad.Category == category })
}

func (uc *listingUseCase) UserAds(userID string) []*entity.Ad {
	if userID == "" {
		return []*entity.Ad{}
	}
	return uc.selectAds(func(ad *entity.Ad) bool {
		return !uc.seedIDs[ad.ID] && ad.UserID == userID
	})
}

func (uc *listingUseCase) CanCreateAd(ctx context.Context, userID string) bool {
	return uc.Quota(ctx, userID).CanCreate
}

func (uc *listingUseCase) RemainingAds(ctx context.Context, userID string) int {
	return uc.Quota(ctx, userID).Remaining
}

func (uc *listingUseCase) Quota(ctx context.Context, userID string) entity.Quota {
	if userID == "" {
		return entity.Quota{Limit: entity.WeeklyAdLimit}
	}
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return entity.NewQuota(uc.currentQuota(ctx, userID))
}

func (uc *listingUseCase) Analytics(ctx context.Context) entity.Analytics {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.analyticsRepo.Get(ctx)
}

// UploadImages stores images for a future draft and returns their URLs.
func (uc *listingUseCase) UploadImages(ctx context.Context, userID string, files []*multipart.FileHeader) ([]string, error) {
	if userID == "" {
		return nil, entity.ErrAuthRequired
	}
	if uc.images == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", entity.ErrValidation)
	}
	if len(files) > MaxImagesPerAd {
		return nil, fmt.Errorf("%w: maximum %d images allowed per ad", entity.ErrValidation, MaxImagesPerAd)
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}

		contentType := file.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}

		url, err := uc.images.UploadImage(ctx, s3.ImageKey(userID, filepath.Ext(file.Filename)), src, contentType)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// currentQuota returns the user's record for the current week, reset when
// the stored week has passed. Caller holds uc.mu.
func (uc *listingUseCase) currentQuota(ctx context.Context, userID string) entity.QuotaRecord {
	weekStart := WeekStart(uc.clock.Now(), uc.location)
	rec, ok := uc.quotaRepo.Get(ctx, userID)
	if !ok || rec.WeekStart != weekStart {
		return entity.QuotaRecord{Count: 0, WeekStart: weekStart}
	}
	return rec
}

// nextID is the creation time in unix milliseconds, bumped past the last
// id handed out. Caller holds uc.mu.
func (uc *listingUseCase) nextID(now time.Time) string {
	id := now.UnixMilli()
	if id <= uc.lastID {
		id = uc.lastID + 1
	}
	uc.lastID = id
	return strconv.FormatInt(id, 10)
}

func (uc *listingUseCase) find(adID string) *entity.Ad {
	for _, ad := range uc.ads {
		if ad.ID == adID {
			return ad
		}
	}
	return nil
}

func (uc *listingUseCase) selectAds(keep func(*entity.Ad) bool) []*entity.Ad {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	out := []*entity.Ad{}
	for _, ad := range uc.ads {
		if keep(ad) {
			out = append(out, ad.Clone())
		}
	}
	return out
}

func (uc *listingUseCase) publish(eventType string, ad *entity.Ad) {
	if uc.publisher == nil {
		return
	}
	event := queue.AdEvent{
		Type:       eventType,
		AdID:       ad.ID,
		UserID:     ad.UserID,
		Category:   ad.Category,
		OccurredAt: uc.clock.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := uc.publisher.PublishAdEvent(ctx, event); err != nil {
			uc.logger.Warn("Failed to publish %s for ad %s: %v", event.Type, event.AdID, err)
		}
	}()
}

// WeekStart is the Sunday starting the week of t in loc, as YYYY-MM-DD.
func WeekStart(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	sunday := time.Date(local.Year(), local.Month(), local.Day()-int(local.Weekday()), 0, 0, 0, 0, loc)
	return sunday.Format("2006-01-02")
}

// FilterAds keeps the ads matching every set field of filters and sorts
// them. Ads posted after now never match a date filter.
func FilterAds(ads []*entity.Ad, filters entity.FilterSet, now time.Time) []*entity.Ad {
	priceMin := filters.ParsedPriceMin()
	priceMax := filters.ParsedPriceMax()
	priceRange, _ := filters.ParsedPriceRange()
	since, _ := filters.ParsedDate()

	out := []*entity.Ad{}
	for _, ad := range ads {
		if filters.Category != "" && ad.Category != filters.Category {
			continue
		}
		if filters.Location != "" && ad.Location != filters.Location {
			continue
		}
		if priceMin != nil && ad.Price < *priceMin {
			continue
		}
		if priceMax != nil && ad.Price > *priceMax {
			continue
		}
		if priceRange != nil && !priceRange.Contains(ad.Price) {
			continue
		}
		if since != nil && (ad.PostedAt.Before(*since) || ad.PostedAt.After(now)) {
			continue
		}
		out = append(out, ad)
	}

	SortAds(out, filters.SortBy)
	return out
}

// SortAds orders ads in place. Ties keep their order; unknown keys sort
// newest first.
func SortAds(ads []*entity.Ad, key entity.SortKey) {
	var less func(a, b *entity.Ad) bool
	switch key {
	case entity.SortPriceLow:
		less = func(a, b *entity.Ad) bool { return a.Price < b.Price }
	case entity.SortPriceHigh:
		less = func(a, b *entity.Ad) bool { return a.Price > b.Price }
	case entity.SortOldest:
		less = func(a, b *entity.Ad) bool { return a.PostedAt.Before(b.PostedAt) }
	default:
		less = func(a, b *entity.Ad) bool { return a.PostedAt.After(b.PostedAt) }
	}
	sort.SliceStable(ads, func(i, j int) bool { return less(ads[i], ads[j]) })
}

func cloneAll(ads []*entity.Ad) []*entity.Ad {
	out := make([]*entity.Ad, len(ads))
	for i, ad := range ads {
		out[i] = ad.Clone()
	}
	return out
}
