package view

type Product struct {
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Price           string `json:"price"`
	OriginalPrice   string `json:"original_price,omitempty"`
	Image           string `json:"image"`
	DescriptionHe   string `json:"description_he"`
	DescriptionEn   string `json:"description_en"`
	Weekly          bool   `json:"weekly"`
	DiscountPercent int    `json:"discount_percent,omitempty"`
}
