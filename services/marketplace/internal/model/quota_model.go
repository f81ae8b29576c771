package model

// WeeklyCountModel is one user's entry in the sooq_weekly_ad_count map.
type WeeklyCountModel struct {
	Count     int    `json:"count"`
	WeekStart string `json:"weekStart"`
}
