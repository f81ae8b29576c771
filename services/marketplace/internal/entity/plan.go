package entity

import (
	"math"
	"time"
)

// BillingPeriodDays is the period a plan's price covers.
const BillingPeriodDays = 30

// PlanDurations are the subscription lengths on offer, in days.
var PlanDurations = []int{7, 30, 90, 365}

// Plan is a paid subscription tier. Price is in OMR per billing period.
type Plan struct {
	ID       string              `json:"id"`
	Name     LocalizedText       `json:"name"`
	Price    float64             `json:"price"`
	Period   LocalizedText       `json:"period"`
	Features map[string][]string `json:"features"`
}

func (p *Plan) Clone() *Plan {
	out := *p
	out.Name = cloneText(p.Name)
	out.Period = cloneText(p.Period)
	out.Features = make(map[string][]string, len(p.Features))
	for lang, list := range p.Features {
		out.Features[lang] = append([]string(nil), list...)
	}
	return &out
}

// Total is the price of the plan for days, prorated from the monthly
// price and rounded to the baisa.
func (p *Plan) Total(days int) float64 {
	total := p.Price * float64(days) / BillingPeriodDays
	return math.Round(total*1000) / 1000
}

// ValidDuration reports whether days is one of PlanDurations.
func ValidDuration(days int) bool {
	for _, d := range PlanDurations {
		if d == days {
			return true
		}
	}
	return false
}

// PlanSummary is the price breakdown shown before subscribing.
type PlanSummary struct {
	Plan          *Plan   `json:"plan"`
	DurationDays  int     `json:"duration_days"`
	PricePerMonth float64 `json:"price_per_month"`
	Total         float64 `json:"total"`
}

type Subscription struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	PlanID       string    `json:"plan_id"`
	DurationDays int       `json:"duration_days"`
	Total        float64   `json:"total"`
	StartedAt    time.Time `json:"started_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Active reports whether the subscription covers now.
func (s *Subscription) Active(now time.Time) bool {
	return !now.Before(s.StartedAt) && now.Before(s.ExpiresAt)
}
