package entity

// WeeklyAdLimit is the number of ads a user may create per calendar week.
const WeeklyAdLimit = 3

// QuotaRecord is the stored weekly counter of one user. WeekStart is the
// local Sunday of the counted week as YYYY-MM-DD.
type QuotaRecord struct {
	Count     int    `json:"count"`
	WeekStart string `json:"week_start"`
}

type Quota struct {
	Limit     int    `json:"limit"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
	CanCreate bool   `json:"can_create"`
	WeekStart string `json:"week_start"`
}

func NewQuota(rec QuotaRecord) Quota {
	remaining := WeeklyAdLimit - rec.Count
	if remaining < 0 {
		remaining = 0
	}
	return Quota{
		Limit:     WeeklyAdLimit,
		Used:      rec.Count,
		Remaining: remaining,
		CanCreate: rec.Count < WeeklyAdLimit,
		WeekStart: rec.WeekStart,
	}
}
