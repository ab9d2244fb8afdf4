package products

import (
	"time"

	"ugiot.co.il/app/internal/modules/pricing"
)

// Cookie is a catalog entry. At most one cookie is the cookie of the week.
type Cookie struct {
	ID              string    `gorm:"type:char(36);primaryKey"`
	Name            string    `gorm:"type:varchar(100);not null;uniqueIndex:ux_cookies_name"`
	Slug            string    `gorm:"type:varchar(120);not null;uniqueIndex:ux_cookies_slug"`
	DescriptionHe   string    `gorm:"type:text"`
	DescriptionEn   string    `gorm:"type:text"`
	Price           int       `gorm:"not null;default:25"`
	ImageKey        *string   `gorm:"type:varchar(255)"`
	ImageURL        *string   `gorm:"type:varchar(512)"`
	Active          bool      `gorm:"not null;default:true;index:ix_cookies_active"`
	Weekly          bool      `gorm:"not null;default:false"`
	DiscountPercent int       `gorm:"not null;default:0"`
	Position        int       `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt       time.Time `gorm:"type:datetime(3);not null"`
}

func (Cookie) TableName() string { return "cookies" }

// UnitPrice is the price frozen into the cart when the cookie is added.
func (c Cookie) UnitPrice() int {
	if c.Weekly && c.DiscountPercent > 0 {
		return pricing.WeeklyUnitPrice(c.DiscountPercent)
	}
	if c.Price <= 0 {
		return pricing.UnitPrice
	}
	return c.Price
}

func (c Cookie) Image() string {
	if c.ImageURL == nil {
		return ""
	}
	return *c.ImageURL
}
