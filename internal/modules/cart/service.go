package cart

import (
	"ugiot.co.il/app/internal/modules/pricing"
	"ugiot.co.il/app/pkg/view"
)

// BuildPage renders the cart with bundle pricing for the chosen delivery method.
// Totals depend only on the cookie count; line prices come from the stored labels.
func BuildPage(c *Cart, method pricing.DeliveryMethod) view.CartPage {
	if !method.Valid() {
		method = pricing.Pickup
	}
	vm := view.CartPage{Items: []view.CartItem{}, Delivery: string(method)}
	if c == nil {
		return fill(vm, pricing.QuoteFor(0, method))
	}
	vm.OrderNumber = c.OrderNumber

	for _, it := range c.Items {
		if it.Quantity <= 0 {
			continue
		}
		unit := pricing.ParseLabel(it.Price)
		vm.Items = append(vm.Items, view.CartItem{
			Name:      it.Name,
			Price:     it.Price,
			UnitPrice: unit,
			Quantity:  it.Quantity,
			LineTotal: unit * it.Quantity,
			Image:     it.Image,
		})
	}

	return fill(vm, pricing.QuoteFor(c.TotalItems(), method))
}

// Summary is the checkout sidebar: totals without the line items.
func Summary(c *Cart, method pricing.DeliveryMethod) view.CheckoutSummary {
	p := BuildPage(c, method)
	return view.CheckoutSummary{
		Delivery:      p.Delivery,
		Count:         p.Count,
		ItemsTotal:    p.ItemsTotal,
		OriginalTotal: p.OriginalTotal,
		Savings:       p.Savings,
		DeliveryFee:   p.DeliveryFee,
		Total:         p.Total,
		TotalLabel:    p.TotalLabel,
	}
}

func fill(vm view.CartPage, t pricing.Totals) view.CartPage {
	vm.Count = t.Count
	vm.Bundles = t.Bundles
	vm.ItemsTotal = t.ItemsTotal
	vm.OriginalTotal = t.OriginalTotal
	vm.Savings = t.Savings
	vm.DeliveryFee = t.DeliveryFee
	vm.Total = t.Total
	vm.TotalLabel = pricing.Label(t.Total)
	return vm
}
