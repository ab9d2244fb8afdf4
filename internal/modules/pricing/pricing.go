// Package pricing computes cart totals for the bakery: every cookie costs the
// same, four cookies form a discounted bundle, and delivery is a flat fee on top.
package pricing

import (
	"github.com/shopspring/decimal"
)

const (
	BundleSize  = 4
	BundlePrice = 80
	UnitPrice   = 25
	DeliveryFee = 30
)

type DeliveryMethod string

const (
	Pickup   DeliveryMethod = "pickup"
	Delivery DeliveryMethod = "delivery"
)

func (m DeliveryMethod) Valid() bool { return m == Pickup || m == Delivery }

// Totals is the price breakdown for n cookies. All amounts are whole shekels.
type Totals struct {
	Count         int `json:"count"`
	Bundles       int `json:"bundles"`
	Remainder     int `json:"remainder"`
	ItemsTotal    int `json:"items_total"`
	OriginalTotal int `json:"original_total"`
	Savings       int `json:"savings"`
	DeliveryFee   int `json:"delivery_fee"`
	Total         int `json:"total"`
}

// Quote prices n cookies without delivery.
func Quote(n int) Totals {
	if n < 0 {
		n = 0
	}
	bundles := n / BundleSize
	rem := n % BundleSize
	items := bundles*BundlePrice + rem*UnitPrice
	orig := n * UnitPrice
	return Totals{
		Count:         n,
		Bundles:       bundles,
		Remainder:     rem,
		ItemsTotal:    items,
		OriginalTotal: orig,
		Savings:       orig - items,
		Total:         items,
	}
}

// QuoteFor prices n cookies for the given delivery method. The delivery fee
// is never discounted and does not take part in OriginalTotal/Savings.
func QuoteFor(n int, m DeliveryMethod) Totals {
	t := Quote(n)
	if m == Delivery {
		t.DeliveryFee = DeliveryFee
		t.Total = t.ItemsTotal + DeliveryFee
	}
	return t
}

// WeeklyUnitPrice is the cookie-of-the-week unit price for a discount percent,
// rounded half-up to a whole shekel.
func WeeklyUnitPrice(discountPercent int) int {
	pct := clampPercent(discountPercent)
	return roundHalfUp(decimal.NewFromInt(UnitPrice).
		Mul(decimal.NewFromInt(int64(100 - pct))).
		Div(decimal.NewFromInt(100)))
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// roundHalfUp rounds a non-negative amount to the nearest integer, .5 going up.
func roundHalfUp(d decimal.Decimal) int {
	return int(d.Round(0).IntPart())
}
