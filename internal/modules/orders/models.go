package orders

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Order is created once per successful checkout. Only admin transitions touch it afterwards.
type Order struct {
	ID             string    `gorm:"type:char(36);primaryKey"`
	OrderNumber    string    `gorm:"type:varchar(8);not null;index:ix_orders_number"`
	SubmissionKey  *string   `gorm:"type:char(36);uniqueIndex:ux_orders_submission_key"`
	ProfileID      *string   `gorm:"type:char(36);index:ix_orders_profile"`
	UserID         *string   `gorm:"type:char(36);index:ix_orders_user"`
	Phone          string    `gorm:"type:varchar(16);not null"`
	FullName       string    `gorm:"type:varchar(100);not null"`
	Email          *string   `gorm:"type:varchar(255)"`
	Address        *string   `gorm:"type:varchar(200)"`
	City           *string   `gorm:"type:varchar(50)"`
	Notes          *string   `gorm:"type:varchar(500)"`
	DeliveryMethod string    `gorm:"type:varchar(16);not null;default:pickup"`
	TotalAmount    int       `gorm:"not null"`
	Status         string    `gorm:"type:varchar(16);not null;default:pending;index:ix_orders_status"`
	CreatedAt      time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt      time.Time `gorm:"type:datetime(3);not null"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID         string    `gorm:"type:char(36);primaryKey"`
	OrderID    string    `gorm:"type:char(36);not null;index:ix_order_items_order"`
	CookieName string    `gorm:"type:varchar(100);not null"`
	Quantity   int       `gorm:"not null"`
	Price      int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"type:datetime(3);not null"`
}

func (OrderItem) TableName() string { return "order_items" }

type OrderEvent struct {
	ID          string         `gorm:"type:char(36);primaryKey"`
	OrderID     string         `gorm:"type:char(36);not null;index:ix_order_events_order"`
	ActorUserID string         `gorm:"type:char(36);not null"`
	Action      string         `gorm:"type:varchar(16);not null"`
	FromStatus  string         `gorm:"type:varchar(16);not null"`
	ToStatus    string         `gorm:"type:varchar(16);not null"`
	Note        *string        `gorm:"type:varchar(500)"`
	Meta        datatypes.JSON `gorm:"type:json"`
	CreatedAt   time.Time      `gorm:"type:datetime(3);not null"`
}

func (OrderEvent) TableName() string { return "order_events" }
