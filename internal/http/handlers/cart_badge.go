package handlers

import (
	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/render"
)

// Count handles GET /api/cart/count for the header badge.
func (h *CartHandler) Count(c *gin.Context) {
	render.OK(c, gin.H{"count": middleware.GetCartCount(c)})
}
