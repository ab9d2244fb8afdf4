package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/http/cartcookie"
	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/render"
	"ugiot.co.il/app/internal/modules/cart"
	"ugiot.co.il/app/internal/modules/pricing"
	"ugiot.co.il/app/internal/modules/products"
	"ugiot.co.il/app/internal/shared/apperr"
	"ugiot.co.il/app/pkg/view"
)

// CartCatalog prices a product for the cart.
type CartCatalog interface {
	CartItem(ctx context.Context, slug string) (cart.Item, error)
}

// CartHandler serves the cookie cart under /api/cart.
type CartHandler struct {
	CK        *cartcookie.Codec
	Catalog   CartCatalog
	NewNumber cart.OrderNumberFunc
}

func NewCartHandler(ck *cartcookie.Codec, catalog CartCatalog, gen cart.OrderNumberFunc) *CartHandler {
	return &CartHandler{CK: ck, Catalog: catalog, NewNumber: gen}
}

type addItemRequest struct {
	Slug string `json:"slug" validate:"required,max=120"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// Get handles GET /api/cart?delivery=pickup|delivery.
func (h *CartHandler) Get(c *gin.Context) {
	ct := h.CK.Load(c)
	render.OK(c, cart.BuildPage(ct, pricing.DeliveryMethod(c.Query("delivery"))))
}

// Add handles POST /api/cart/items. The price label is frozen at this point.
func (h *CartHandler) Add(c *gin.Context) {
	var req addItemRequest
	if err := render.Bind(c, &req); err != nil {
		middleware.Fail(c, err)
		return
	}

	item, err := h.Catalog.CartItem(c.Request.Context(), req.Slug)
	if errors.Is(err, products.ErrNotFound) {
		middleware.Fail(c, apperr.NotFoundErr(render.Msg(c, "העוגייה לא נמצאה.", "Cookie not found.")))
		return
	}
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	ct := h.CK.Load(c)
	if cur, ok := ct.Find(item.Name); ok && cur.Quantity >= cart.MaxPerItem {
		middleware.Fail(c, maxPerItemErr(c))
		return
	}
	ct.Add(item, h.NewNumber)

	if !h.save(c, ct) {
		return
	}
	render.Toast(c, http.StatusOK, view.FlashSuccess,
		render.Msg(c, item.Name+" נוספה לסל", item.Name+" added to cart"),
		cart.BuildPage(ct, pricing.Pickup))
}

// Update handles PATCH /api/cart/items/:name. Zero removes the line.
func (h *CartHandler) Update(c *gin.Context) {
	name := c.Param("name")
	var req updateItemRequest
	if err := render.Bind(c, &req); err != nil {
		middleware.Fail(c, err)
		return
	}
	if *req.Quantity > cart.MaxPerItem {
		middleware.Fail(c, maxPerItemErr(c))
		return
	}

	ct := h.CK.Load(c)
	if _, ok := ct.Find(name); !ok {
		middleware.Fail(c, itemNotInCartErr(c))
		return
	}
	ct.UpdateQuantity(name, *req.Quantity)

	if !h.save(c, ct) {
		return
	}
	render.OK(c, cart.BuildPage(ct, pricing.Pickup))
}

// Remove handles DELETE /api/cart/items/:name.
func (h *CartHandler) Remove(c *gin.Context) {
	name := c.Param("name")
	ct := h.CK.Load(c)
	if _, ok := ct.Find(name); !ok {
		middleware.Fail(c, itemNotInCartErr(c))
		return
	}
	ct.Remove(name)

	if !h.save(c, ct) {
		return
	}
	render.OK(c, cart.BuildPage(ct, pricing.Pickup))
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	h.CK.Clear(c)
	render.OK(c, cart.BuildPage(cart.New(), pricing.Pickup))
}

func (h *CartHandler) save(c *gin.Context, ct *cart.Cart) bool {
	err := h.CK.Save(c, ct)
	if errors.Is(err, cartcookie.ErrTooLarge) {
		middleware.Fail(c, apperr.InvalidErr(render.Msg(c, "הסל מלא.", "Your cart is full."), nil))
		return false
	}
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return false
	}
	return true
}

func maxPerItemErr(c *gin.Context) error {
	msg := render.Msg(c, "ניתן להזמין עד 6 יחידות מכל עוגייה.", "You can order up to 6 of each cookie.")
	return apperr.InvalidErr(msg, map[string]string{"quantity": msg})
}

func itemNotInCartErr(c *gin.Context) error {
	return apperr.NotFoundErr(render.Msg(c, "הפריט אינו בסל.", "Item is not in the cart."))
}
