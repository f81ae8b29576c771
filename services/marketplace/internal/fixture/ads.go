// Package fixture holds the built-in listings shown alongside user ads.
package fixture

import (
	"time"

	"souk-oman/services/marketplace/internal/entity"
)

func posted(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

type seedAd struct {
	id, titleAr, titleEn, descAr, descEn string
	price                                float64
	category, location                   string
	featured, delivery                   bool
	postedAt                             string
	views                                int
	phone, whatsapp, share               int
	seller, contact                      string
}

var seedAds = []seedAd{
	{"1", "آيفون 14 برو بحالة ممتازة", "iPhone 14 Pro in excellent condition",
		"استخدام خفيف مع العلبة والشاحن الأصلي", "Lightly used, with original box and charger",
		320, "electronics", "muscat_city", true, true, "2024-05-02T08:30:00Z", 154, 12, 9, 3, "seller-1", "+968 9123 4567"},
	{"2", "تويوتا لاندكروزر 2019", "Toyota Land Cruiser 2019",
		"ممشى 85 ألف كم، صيانة وكالة", "85k km, dealer serviced",
		14500, "cars", "seeb", true, false, "2024-04-28T14:00:00Z", 431, 40, 33, 7, "seller-2", "+968 9234 5678"},
	{"3", "شقة للإيجار في بوشر", "Apartment for rent in Bawshar",
		"غرفتين وصالة، قريبة من الخدمات", "Two bedrooms and a hall, close to amenities",
		280, "real-estate", "bawshar", false, false, "2024-04-30T10:15:00Z", 98, 6, 11, 1, "seller-3", "+968 9345 6789"},
	{"4", "كنبة زاوية", "Corner sofa",
		"كنبة بحالة جيدة، التوصيل متاح داخل مسقط", "Good condition sofa, delivery available within Muscat",
		75, "furniture", "muttrah", false, true, "2024-05-01T17:45:00Z", 57, 3, 4, 0, "seller-4", "+968 9456 7890"},
	{"5", "لابتوب ديل XPS 13", "Dell XPS 13 laptop",
		"معالج i7 وذاكرة 16 جيجا", "Core i7 with 16GB of memory",
		390, "electronics", "salalah", false, true, "2024-04-25T09:00:00Z", 76, 5, 2, 2, "seller-5", "+968 9567 8901"},
	{"6", "مطلوب محاسب", "Accountant wanted",
		"خبرة لا تقل عن سنتين في صحار", "At least two years of experience, based in Sohar",
		0, "jobs", "sohar", false, false, "2024-05-03T06:00:00Z", 33, 2, 1, 0, "seller-6", "+968 9678 9012"},
	{"7", "دراجة هوائية جبلية", "Mountain bike",
		"مقاس 27.5 مع فرامل هيدروليك", "27.5 inch with hydraulic brakes",
		45, "sports", "nizwa", true, false, "2024-04-20T12:30:00Z", 21, 1, 0, 0, "seller-7", "+968 9789 0123"},
	{"8", "خدمة تنظيف منازل", "Home cleaning service",
		"فريق محترف بأسعار مناسبة", "Professional team at fair prices",
		15, "services", "muscat_city", false, false, "2024-05-04T07:20:00Z", 64, 9, 14, 2, "seller-8", "+968 9890 1234"},
}

// SeedAds returns a fresh copy of the built-in listings.
func SeedAds() []*entity.Ad {
	ads := make([]*entity.Ad, 0, len(seedAds))
	for _, s := range seedAds {
		ads = append(ads, &entity.Ad{
			ID:          s.id,
			Title:       entity.LocalizedText{"ar": s.titleAr, "en": s.titleEn},
			Description: entity.LocalizedText{"ar": s.descAr, "en": s.descEn},
			Price:       s.price,
			Category:    s.category,
			Location:    s.location,
			Images:      []string{},
			Featured:    s.featured,
			Delivery:    s.delivery,
			PostedAt:    posted(s.postedAt),
			Views:       s.views,
			Clicks: map[string]int{
				string(entity.ClickPhone):    s.phone,
				string(entity.ClickWhatsApp): s.whatsapp,
				string(entity.ClickShare):    s.share,
			},
			UserID: s.seller,
			Phone:  s.contact,
		})
	}
	return ads
}
