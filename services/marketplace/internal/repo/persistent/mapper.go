package persistent

import (
	"time"

	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/model"
)

func ToAdEntity(m *model.AdModel) *entity.Ad {
	if m == nil {
		return nil
	}
	clicks := m.Clicks
	if clicks == nil {
		clicks = entity.DefaultClicks()
	}
	return &entity.Ad{
		ID:          m.ID,
		Title:       entity.LocalizedText(m.Title),
		Description: entity.LocalizedText(m.Description),
		Price:       m.Price,
		Category:    m.Category,
		Location:    m.Location,
		Images:      m.Images,
		Featured:    m.Featured,
		Delivery:    m.Delivery,
		PostedAt:    parseTime(m.PostedAt),
		Views:       m.Views,
		Clicks:      clicks,
		UserID:      m.UserID,
		Phone:       m.Phone,
	}
}

func ToAdModel(a *entity.Ad) *model.AdModel {
	if a == nil {
		return nil
	}
	images := a.Images
	if images == nil {
		images = []string{}
	}
	return &model.AdModel{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Price:       a.Price,
		Category:    a.Category,
		Location:    a.Location,
		Images:      images,
		Featured:    a.Featured,
		Delivery:    a.Delivery,
		PostedAt:    formatTime(a.PostedAt),
		Views:       a.Views,
		Clicks:      a.Clicks,
		UserID:      a.UserID,
		Phone:       a.Phone,
	}
}

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}
	return &entity.User{
		ID:        m.ID,
		Email:     m.Email,
		Phone:     m.Phone,
		Name:      m.Name,
		Verified:  m.Verified,
		MaxAds:    m.MaxAds,
		CreatedAt: parseTime(m.CreatedAt),
	}
}

func ToUserModel(u *entity.User) *model.UserModel {
	if u == nil {
		return nil
	}
	return &model.UserModel{
		ID:        u.ID,
		Email:     u.Email,
		Phone:     u.Phone,
		Name:      u.Name,
		Verified:  u.Verified,
		MaxAds:    u.MaxAds,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func ToAnalyticsEntity(m model.AnalyticsModel) entity.Analytics {
	a := entity.Analytics{
		AdViews:     m.AdViews,
		AdClicks:    m.AdClicks,
		TotalViews:  m.TotalViews,
		TotalClicks: m.TotalClicks,
	}
	if a.AdViews == nil {
		a.AdViews = map[string]int{}
	}
	if a.AdClicks == nil {
		a.AdClicks = map[string]map[string]int{}
	}
	return a
}

func ToAnalyticsModel(a entity.Analytics) model.AnalyticsModel {
	return model.AnalyticsModel{
		AdViews:     a.AdViews,
		AdClicks:    a.AdClicks,
		TotalViews:  a.TotalViews,
		TotalClicks: a.TotalClicks,
	}
}

func ToFilterEntity(m model.FilterModel) entity.FilterSet {
	f := entity.FilterSet{
		Category:   m.Category,
		Location:   m.Location,
		PriceMin:   m.PriceMin,
		PriceMax:   m.PriceMax,
		PriceRange: m.PriceRange,
		Date:       m.Date,
		SortBy:     entity.SortKey(m.SortBy),
	}
	if !f.SortBy.Valid() {
		f.SortBy = entity.SortNewest
	}
	return f
}

func ToFilterModel(f entity.FilterSet) model.FilterModel {
	return model.FilterModel{
		Category:   f.Category,
		Location:   f.Location,
		PriceRange: f.PriceRange,
		Date:       f.Date,
		PriceMin:   f.PriceMin,
		PriceMax:   f.PriceMax,
		SortBy:     string(f.SortBy),
	}
}

func ToSubscriptionEntity(userID string, m model.SubscriptionModel) *entity.Subscription {
	return &entity.Subscription{
		ID:           m.ID,
		UserID:       userID,
		PlanID:       m.PlanID,
		DurationDays: m.DurationDays,
		Total:        m.Total,
		StartedAt:    parseTime(m.StartedAt),
		ExpiresAt:    parseTime(m.ExpiresAt),
	}
}

func ToSubscriptionModel(s *entity.Subscription) model.SubscriptionModel {
	return model.SubscriptionModel{
		ID:           s.ID,
		PlanID:       s.PlanID,
		DurationDays: s.DurationDays,
		Total:        s.Total,
		StartedAt:    formatTime(s.StartedAt),
		ExpiresAt:    formatTime(s.ExpiresAt),
	}
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
