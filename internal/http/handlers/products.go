package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/render"
	"ugiot.co.il/app/internal/modules/pricing"
	"ugiot.co.il/app/internal/modules/products"
	"ugiot.co.il/app/internal/shared/apperr"
	"ugiot.co.il/app/pkg/view"
)

type ProductCatalog interface {
	List(ctx context.Context) ([]view.Product, error)
	Get(ctx context.Context, slug string) (view.Product, error)
	QuotePackage(ctx context.Context, tier string, items []pricing.PackageItem) (view.PackageQuote, error)
}

type ProductsHandler struct {
	Catalog ProductCatalog
}

func NewProductsHandler(catalog ProductCatalog) *ProductsHandler {
	return &ProductsHandler{Catalog: catalog}
}

// List handles GET /api/products.
func (h *ProductsHandler) List(c *gin.Context) {
	items, err := h.Catalog.List(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	render.OK(c, items)
}

// Detail handles GET /api/products/:slug.
func (h *ProductsHandler) Detail(c *gin.Context) {
	p, err := h.Catalog.Get(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, products.ErrNotFound) {
		middleware.Fail(c, apperr.NotFoundErr(render.Msg(c, "העוגייה לא נמצאה.", "Cookie not found.")))
		return
	}
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	render.OK(c, p)
}

// Packages handles GET /api/packages.
func (h *ProductsHandler) Packages(c *gin.Context) {
	render.OK(c, products.Packages())
}

type quoteRequest struct {
	Tier  string                `json:"tier" validate:"required,oneof=small medium large"`
	Items []pricing.PackageItem `json:"items" validate:"required,min=1,dive"`
}

// Quote handles POST /api/packages/quote.
func (h *ProductsHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := render.Bind(c, &req); err != nil {
		middleware.Fail(c, err)
		return
	}

	q, err := h.Catalog.QuotePackage(c.Request.Context(), req.Tier, req.Items)
	switch {
	case err == nil:
		render.OK(c, q)
	case errors.Is(err, pricing.ErrPackageOverflow):
		middleware.Fail(c, apperr.InvalidErr(render.Msg(c, "חרגתם מקיבולת המארז.", "The package is over capacity."), nil))
	case errors.Is(err, pricing.ErrEmptyPackage), errors.Is(err, pricing.ErrInvalidQuantity):
		middleware.Fail(c, apperr.InvalidErr(render.Msg(c, "יש לבחור עוגיות למארז.", "Please choose cookies for the package."), nil))
	case errors.Is(err, pricing.ErrUnknownTier), errors.Is(err, products.ErrUnknownCookies):
		middleware.Fail(c, apperr.InvalidErr(render.Msg(c, "הבחירה אינה תקינה.", "The selection is invalid."), nil))
	default:
		middleware.Fail(c, apperr.Wrap(err))
	}
}
