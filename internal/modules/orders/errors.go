package orders

import "errors"

var (
	ErrCartEmpty         = errors.New("cart is empty")
	ErrInvalidItem       = errors.New("invalid order item")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrNotActionable     = errors.New("order not actionable")
)

// RateLimitError is the guest procedure's error text when the per-IP quota is used up.
const RateLimitError = "rate limit exceeded"
