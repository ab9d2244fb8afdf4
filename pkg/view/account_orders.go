package view

import (
	"time"
)

type AccountOrderListItem struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Status     string    `json:"status"`
	Total      int       `json:"total_amount"`
	TotalLabel string    `json:"total_label"`
	ItemCount  int       `json:"item_count"`
}

type AccountOrdersPage struct {
	Items        []AccountOrderListItem `json:"items"`
	Total        int64                  `json:"total"`
	Page         int                    `json:"page"`
	PageSize     int                    `json:"page_size"`
	PagesTotal   int                    `json:"pages_total"`
	FilterStatus string                 `json:"status,omitempty"`
}
