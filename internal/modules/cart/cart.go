package cart

import (
	"slices"

	"github.com/google/uuid"
)

// MaxPerItem is the storefront's presentation limit for a single cookie.
// The store itself never clamps.
const MaxPerItem = 6

// Item is one cart line, keyed by Name.
type Item struct {
	Name     string `json:"name"`
	Price    string `json:"price"` // "₪25"
	Quantity int    `json:"quantity"`
	Image    string `json:"image"`
}

// Cart is the in-memory cart of a single browser session. Items keep
// insertion order and never hold a quantity <= 0.
type Cart struct {
	Items       []Item `json:"items"`
	OrderNumber string `json:"order_number,omitempty"`
	// SubmissionKey is assigned with the order number and identifies the one
	// order this cart may become; a repeated checkout of it is a replay.
	SubmissionKey string `json:"submission_key,omitempty"`
}

// OrderNumberFunc produces a display order number.
type OrderNumberFunc func() string

func New() *Cart { return &Cart{Items: []Item{}} }

// Add increments the quantity of an existing line or appends a new one with
// quantity 1. The first add to an empty cart without an order number assigns
// one, together with a submission key.
func (c *Cart) Add(it Item, gen OrderNumberFunc) {
	wasEmpty := len(c.Items) == 0

	if i := c.index(it.Name); i >= 0 {
		c.Items[i].Quantity++
	} else {
		it.Quantity = 1
		c.Items = append(c.Items, it)
	}

	if wasEmpty && c.OrderNumber == "" && gen != nil {
		c.OrderNumber = gen()
	}
	if c.OrderNumber != "" && c.SubmissionKey == "" {
		c.SubmissionKey = uuid.NewString()
	}
}

// Remove deletes the line with that name; absent names are a no-op.
func (c *Cart) Remove(name string) {
	if i := c.index(name); i >= 0 {
		c.Items = slices.Delete(c.Items, i, i+1)
	}
}

// UpdateQuantity sets a line's quantity; q <= 0 removes it.
func (c *Cart) UpdateQuantity(name string, q int) {
	if q <= 0 {
		c.Remove(name)
		return
	}
	if i := c.index(name); i >= 0 {
		c.Items[i].Quantity = q
	}
}

// Clear empties the cart and drops the order number and submission key.
// Removing the last line does not: the number survives until Clear.
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.OrderNumber = ""
	c.SubmissionKey = ""
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

func (c *Cart) Find(name string) (Item, bool) {
	if i := c.index(name); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// Normalize drops invalid or duplicate lines, e.g. after decoding a cookie.
func (c *Cart) Normalize() {
	out := make([]Item, 0, len(c.Items))
	seen := make(map[string]int, len(c.Items))
	for _, it := range c.Items {
		if it.Name == "" || it.Quantity <= 0 {
			continue
		}
		if j, ok := seen[it.Name]; ok {
			out[j].Quantity += it.Quantity
			continue
		}
		seen[it.Name] = len(out)
		out = append(out, it)
	}
	c.Items = out
}

func (c *Cart) index(name string) int {
	return slices.IndexFunc(c.Items, func(it Item) bool { return it.Name == name })
}
