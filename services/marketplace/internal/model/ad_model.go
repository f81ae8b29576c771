package model

// AdModel is the stored shape of a user-created ad under sooq_user_ads.
type AdModel struct {
	ID          string            `json:"id"`
	Title       map[string]string `json:"title"`
	Description map[string]string `json:"description"`
	Price       float64           `json:"price"`
	Category    string            `json:"category"`
	Location    string            `json:"location"`
	Images      []string          `json:"images"`
	Featured    bool              `json:"featured"`
	Delivery    bool              `json:"delivery"`
	PostedAt    string            `json:"postedAt"`
	Views       int               `json:"views"`
	Clicks      map[string]int    `json:"clicks"`
	UserID      string            `json:"userId"`
	Phone       string            `json:"phone"`
}
