package model

type AnalyticsModel struct {
	AdViews     map[string]int            `json:"adViews"`
	AdClicks    map[string]map[string]int `json:"adClicks"`
	TotalViews  int                       `json:"totalViews"`
	TotalClicks int                       `json:"totalClicks"`
}
