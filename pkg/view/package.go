package view

type GiftPackage struct {
	Code            string `json:"code"`
	Capacity        int    `json:"capacity"`
	DiscountPercent int    `json:"discount_percent"`
	FullPrice       string `json:"full_price"`
	Price           string `json:"price"`
}

type PackageQuote struct {
	Tier       string `json:"tier"`
	Count      int    `json:"count"`
	BasePrice  int    `json:"base_price"`
	Discount   int    `json:"discount"`
	FinalPrice int    `json:"final_price"`
	FinalLabel string `json:"final_label"`
}
