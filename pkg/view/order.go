package view

import "time"

type OrderItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
	LineTotal int    `json:"line_total"`
}

type OrderDetail struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"order_number"`
	Status      string      `json:"status"`
	Delivery    string      `json:"delivery_method"`
	FullName    string      `json:"full_name"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address,omitempty"`
	City        string      `json:"city,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	Total       int         `json:"total_amount"`
	TotalLabel  string      `json:"total_label"`
	CreatedAt   time.Time   `json:"created_at"`
	Items       []OrderItem `json:"items"`
}
