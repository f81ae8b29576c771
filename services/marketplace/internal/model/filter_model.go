package model

// FilterModel mirrors the listing query parameters.
type FilterModel struct {
	Category   string `json:"category"`
	Location   string `json:"location"`
	PriceRange string `json:"priceRange"`
	Date       string `json:"date"`
	PriceMin   string `json:"priceMin"`
	PriceMax   string `json:"priceMax"`
	SortBy     string `json:"sortBy"`
}
