package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownTier     = errors.New("unknown gift package tier")
	ErrEmptyPackage    = errors.New("gift package is empty")
	ErrPackageOverflow = errors.New("gift package capacity exceeded")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// Tier is a gift package size. The discount is independent of bundle pricing.
type Tier struct {
	Code            string `json:"code"`
	Capacity        int    `json:"capacity"`
	DiscountPercent int    `json:"discount_percent"`
}

var tiers = []Tier{
	{Code: "small", Capacity: 6, DiscountPercent: 10},
	{Code: "medium", Capacity: 12, DiscountPercent: 15},
	{Code: "large", Capacity: 24, DiscountPercent: 20},
}

func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

func TierByCode(code string) (Tier, bool) {
	for _, t := range tiers {
		if t.Code == code {
			return t, true
		}
	}
	return Tier{}, false
}

type PackageItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type PackageTotals struct {
	Tier       string `json:"tier"`
	Count      int    `json:"count"`
	BasePrice  int    `json:"base_price"`
	Discount   int    `json:"discount"`
	FinalPrice int    `json:"final_price"`
}

// PackageQuote prices a gift package selection:
// base = Σ qty*UnitPrice, discount = round(base*pct/100), final = base-discount.
func PackageQuote(tierCode string, items []PackageItem) (PackageTotals, error) {
	tier, ok := TierByCode(tierCode)
	if !ok {
		return PackageTotals{}, fmt.Errorf("%w: %q", ErrUnknownTier, tierCode)
	}

	count := 0
	for _, it := range items {
		if it.Quantity < 0 {
			return PackageTotals{}, fmt.Errorf("%w: %s=%d", ErrInvalidQuantity, it.Name, it.Quantity)
		}
		count += it.Quantity
	}
	if count == 0 {
		return PackageTotals{}, ErrEmptyPackage
	}
	if count > tier.Capacity {
		return PackageTotals{}, fmt.Errorf("%w: %d > %d", ErrPackageOverflow, count, tier.Capacity)
	}

	base := count * UnitPrice
	discount := roundHalfUp(decimal.NewFromInt(int64(base)).
		Mul(decimal.NewFromInt(int64(tier.DiscountPercent))).
		Div(decimal.NewFromInt(100)))

	return PackageTotals{
		Tier:       tier.Code,
		Count:      count,
		BasePrice:  base,
		Discount:   discount,
		FinalPrice: base - discount,
	}, nil
}
