package view

type CartItem struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal int    `json:"line_total"`
	Image     string `json:"image"`
}

type CartPage struct {
	Items       []CartItem `json:"items"`
	OrderNumber string     `json:"order_number,omitempty"`
	Count       int        `json:"count"`
	Delivery    string     `json:"delivery"`

	Bundles       int `json:"bundles"`
	ItemsTotal    int `json:"items_total"`
	OriginalTotal int `json:"original_total"`
	Savings       int `json:"savings"`
	DeliveryFee   int `json:"delivery_fee"`
	Total         int `json:"total"`

	TotalLabel string `json:"total_label"`
}
