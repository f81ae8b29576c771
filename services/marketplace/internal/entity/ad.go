package entity

import "time"

type ClickKind string

const (
	ClickPhone    ClickKind = "phone"
	ClickWhatsApp ClickKind = "whatsapp"
	ClickShare    ClickKind = "share"
)

// DefaultClicks is the counter set every new ad starts with.
func DefaultClicks() map[string]int {
	return map[string]int{
		string(ClickPhone):    0,
		string(ClickWhatsApp): 0,
		string(ClickShare):    0,
	}
}

// LocalizedText maps a language code to text.
type LocalizedText map[string]string

func (t LocalizedText) In(lang string) string {
	if s, ok := t[lang]; ok && s != "" {
		return s
	}
	return t["ar"]
}

type Ad struct {
	ID          string         `json:"id"`
	Title       LocalizedText  `json:"title"`
	Description LocalizedText  `json:"description"`
	Price       float64        `json:"price"`
	Category    string         `json:"category"`
	Location    string         `json:"location"`
	Images      []string       `json:"images"`
	Featured    bool           `json:"featured"`
	Delivery    bool           `json:"delivery"`
	PostedAt    time.Time      `json:"posted_at"`
	Views       int            `json:"views"`
	Clicks      map[string]int `json:"clicks"`
	UserID      string         `json:"user_id"`
	Phone       string         `json:"phone"`
}

// Clone returns a deep copy.
func (a *Ad) Clone() *Ad {
	out := *a
	out.Title = cloneText(a.Title)
	out.Description = cloneText(a.Description)
	out.Images = append([]string(nil), a.Images...)
	out.Clicks = make(map[string]int, len(a.Clicks))
	for k, v := range a.Clicks {
		out.Clicks[k] = v
	}
	return &out
}

func cloneText(t LocalizedText) LocalizedText {
	if t == nil {
		return nil
	}
	out := make(LocalizedText, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// AdDraft is the user input for a new ad.
type AdDraft struct {
	Title       LocalizedText `json:"title" validate:"bilingual,dive,max=100"`
	Description LocalizedText `json:"description" validate:"bilingual,dive,max=1000"`
	Price       float64       `json:"price" validate:"gte=0,lte=100000"`
	Category    string        `json:"category" validate:"required"`
	Location    string        `json:"location"`
	Images      []string      `json:"images" validate:"max=10,dive,required"`
	Featured    bool          `json:"featured"`
	Delivery    bool          `json:"delivery"`
	Phone       string        `json:"phone" validate:"omitempty,max=20"`
}

// AdPatch holds the editable fields of an ad. Nil means unchanged. The id,
// owner, posting time and counters are not editable.
type AdPatch struct {
	Title       LocalizedText `json:"title,omitempty" validate:"omitempty,bilingual,dive,max=100"`
	Description LocalizedText `json:"description,omitempty" validate:"omitempty,bilingual,dive,max=1000"`
	Price       *float64      `json:"price,omitempty" validate:"omitempty,gte=0,lte=100000"`
	Category    *string       `json:"category,omitempty" validate:"omitempty,min=1"`
	Location    *string       `json:"location,omitempty"`
	Images      []string      `json:"images,omitempty" validate:"omitempty,max=10,dive,required"`
	Featured    *bool         `json:"featured,omitempty"`
	Delivery    *bool         `json:"delivery,omitempty"`
	Phone       *string       `json:"phone,omitempty" validate:"omitempty,max=20"`
}

// Apply merges the set fields of p into a.
func (p AdPatch) Apply(a *Ad) {
	if p.Title != nil {
		a.Title = cloneText(p.Title)
	}
	if p.Description != nil {
		a.Description = cloneText(p.Description)
	}
	if p.Price != nil {
		a.Price = *p.Price
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.Images != nil {
		a.Images = append([]string(nil), p.Images...)
	}
	if p.Featured != nil {
		a.Featured = *p.Featured
	}
	if p.Delivery != nil {
		a.Delivery = *p.Delivery
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
}
