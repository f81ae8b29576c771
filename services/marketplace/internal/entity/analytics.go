package entity

type Analytics struct {
	AdViews     map[string]int            `json:"ad_views"`
	AdClicks    map[string]map[string]int `json:"ad_clicks"`
	TotalViews  int                       `json:"total_views"`
	TotalClicks int                       `json:"total_clicks"`
}

func NewAnalytics() Analytics {
	return Analytics{
		AdViews:  map[string]int{},
		AdClicks: map[string]map[string]int{},
	}
}

func (a *Analytics) RecordView(adID string) {
	if a.AdViews == nil {
		a.AdViews = map[string]int{}
	}
	a.AdViews[adID]++
	a.TotalViews++
}

// RecordClick counts a click of any kind. Ads get the default counter set
// on their first click.
func (a *Analytics) RecordClick(adID, kind string) {
	if a.AdClicks == nil {
		a.AdClicks = map[string]map[string]int{}
	}
	clicks, ok := a.AdClicks[adID]
	if !ok {
		clicks = DefaultClicks()
		a.AdClicks[adID] = clicks
	}
	clicks[kind]++
	a.TotalClicks++
}
