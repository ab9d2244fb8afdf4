package cart

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewOrderNumber builds the 8-digit display number: the last five digits of
// the unix-millis timestamp followed by a zero-padded 3-digit random number.
// Collisions are possible.
func NewOrderNumber(now time.Time, rnd func(n int) int) string {
	ms := now.UnixMilli() % 100000
	if ms < 0 {
		ms = -ms
	}
	s := fmt.Sprintf("%05d%03d", ms, rnd(1000)%1000)
	return s[:8]
}

// OrderNumberGenerator returns an OrderNumberFunc bound to a clock.
func OrderNumberGenerator(clock func() time.Time) OrderNumberFunc {
	if clock == nil {
		clock = time.Now
	}
	return func() string {
		return NewOrderNumber(clock(), rand.IntN)
	}
}
