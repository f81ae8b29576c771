package fixture

import "souk-oman/services/marketplace/internal/entity"

func monthly() entity.LocalizedText {
	return entity.LocalizedText{"ar": "شهرياً", "en": "per month"}
}

// Plans returns a fresh copy of the subscription plans on offer.
func Plans() []*entity.Plan {
	return []*entity.Plan{
		{
			ID:     "basic",
			Name:   entity.LocalizedText{"ar": "الأساسية", "en": "Basic"},
			Price:  5,
			Period: monthly(),
			Features: map[string][]string{
				"ar": {"10 إعلانات أسبوعياً", "ظهور لمدة 30 يوماً"},
				"en": {"10 ads per week", "Listed for 30 days"},
			},
		},
		{
			ID:     "premium",
			Name:   entity.LocalizedText{"ar": "المميزة", "en": "Premium"},
			Price:  15,
			Period: monthly(),
			Features: map[string][]string{
				"ar": {"25 إعلاناً أسبوعياً", "إعلانات مميزة في الصفحة الرئيسية", "إحصائيات المشاهدات"},
				"en": {"25 ads per week", "Featured on the home page", "View statistics"},
			},
		},
		{
			ID:     "business",
			Name:   entity.LocalizedText{"ar": "الأعمال", "en": "Business"},
			Price:  30,
			Period: monthly(),
			Features: map[string][]string{
				"ar": {"إعلانات غير محدودة", "شارة تاجر موثق", "دعم مخصص"},
				"en": {"Unlimited ads", "Verified dealer badge", "Dedicated support"},
			},
		},
	}
}
