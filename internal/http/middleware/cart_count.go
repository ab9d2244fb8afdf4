package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/http/cartcookie"
)

const cartCountKey = "cart_count"

// CartCount exposes the current cart size before handlers run. Handlers that
// save the cart overwrite the header with the new count.
func CartCount(codec *cartcookie.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		n := 0
		if v, err := c.Cookie(codec.CookieName); err == nil && v != "" {
			if ct, err := codec.Decode(v); err == nil {
				n = ct.TotalItems()
			}
		}
		c.Set(cartCountKey, n)
		c.Header(cartcookie.CountHeader, strconv.Itoa(n))
		c.Next()
	}
}

func GetCartCount(c *gin.Context) int {
	v, ok := c.Get(cartCountKey)
	if !ok {
		return 0
	}
	n, _ := v.(int)
	return n
}
