package model

// SubscriptionModel is one user's entry in the sooq_subscriptions map.
type SubscriptionModel struct {
	ID           string  `json:"id"`
	PlanID       string  `json:"planId"`
	DurationDays int     `json:"duration"`
	Total        float64 `json:"total"`
	StartedAt    string  `json:"startedAt"`
	ExpiresAt    string  `json:"expiresAt"`
}
