package view

type AdminOrderListItem struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Delivery    string `json:"delivery_method"`
	Total       string `json:"total"`
	CreatedAt   string `json:"created_at"`
	ProfileID   string `json:"profile_id,omitempty"`
}

type AdminOrdersListPage struct {
	Items      []AdminOrderListItem `json:"items"`
	Q          string               `json:"q,omitempty"`
	Status     string               `json:"status,omitempty"`
	Delivery   string               `json:"delivery_method,omitempty"`
	Counts     map[string]int64     `json:"counts"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"total_pages"`
}

type AdminOrderEvent struct {
	Action      string `json:"action"`
	From        string `json:"from"`
	To          string `json:"to"`
	ActorUserID string `json:"actor_user_id"`
	Note        string `json:"note,omitempty"`
	At          string `json:"at"`
}

type AdminOrderDetail struct {
	Order  OrderDetail       `json:"order"`
	Events []AdminOrderEvent `json:"events"`
}
