package view

type CheckoutSummary struct {
	Delivery      string `json:"delivery"`
	Count         int    `json:"count"`
	ItemsTotal    int    `json:"items_total"`
	OriginalTotal int    `json:"original_total"`
	Savings       int    `json:"savings"`
	DeliveryFee   int    `json:"delivery_fee"`
	Total         int    `json:"total"`
	TotalLabel    string `json:"total_label"`
}

// NotificationLink is a deep link the browser opens after checkout.
type NotificationLink struct {
	Channel string `json:"channel"`
	To      string `json:"to"`
	URL     string `json:"url"`
	DelayMS int64  `json:"delay_ms"`
}

// OrderConfirmation is what the confirmation view receives.
type OrderConfirmation struct {
	OrderNumber  string             `json:"order_number"`
	OrderID      string             `json:"order_id"`
	CustomerName string             `json:"customer_name"`
	TotalPrice   int                `json:"total_price"`
	TotalLabel   string             `json:"total_label"`
	Replayed     bool               `json:"replayed,omitempty"`
	Links        []NotificationLink `json:"links"`
	Flash        Flash              `json:"flash"`
}
