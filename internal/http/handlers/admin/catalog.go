package admin

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/render"
	"ugiot.co.il/app/internal/modules/products"
	"ugiot.co.il/app/internal/shared/apperr"
	"ugiot.co.il/app/internal/storage"
	"ugiot.co.il/app/pkg/view"
)

// maxImageBytes caps product image uploads.
const maxImageBytes = 5 << 20

type CatalogAdmin interface {
	UploadImage(ctx context.Context, slug string, r io.Reader, in storage.PutInput) (view.Product, error)
	SetWeekly(ctx context.Context, slug string, discountPercent int) error
}

type ReviewApprover interface {
	Approve(ctx context.Context, id string) error
}

// CatalogHandler manages product images, the cookie of the week and review moderation.
type CatalogHandler struct {
	Catalog CatalogAdmin
	Reviews ReviewApprover
}

func NewCatalogHandler(catalog CatalogAdmin, reviews ReviewApprover) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog, Reviews: reviews}
}

// UploadImage handles POST /api/admin/products/:slug/image (multipart field "image").
func (h *CatalogHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+1<<10)
	fh, err := c.FormFile("image")
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr(render.Msg(c, "יש לצרף תמונה.", "Please attach an image."), nil))
		return
	}
	if fh.Size > maxImageBytes {
		middleware.Fail(c, apperr.InvalidErr(render.Msg(c, "התמונה גדולה מדי.", "The image is too large."), nil))
		return
	}
	f, err := fh.Open()
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	defer f.Close()

	p, err := h.Catalog.UploadImage(c.Request.Context(), c.Param("slug"), f, storage.PutInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	})
	switch {
	case err == nil:
		render.OK(c, p)
	case errors.Is(err, products.ErrNotFound):
		middleware.Fail(c, apperr.NotFoundErr(render.Msg(c, "העוגייה לא נמצאה.", "Cookie not found.")))
	case errors.Is(err, storage.ErrUnsupportedType):
		middleware.Fail(c, apperr.InvalidErr(render.Msg(c, "סוג קובץ לא נתמך.", "Unsupported file type."), nil))
	default:
		middleware.Fail(c, apperr.Wrap(err))
	}
}

type weeklyInput struct {
	DiscountPercent int `json:"discount_percent" validate:"required,gte=1,lte=99"`
}

// SetWeekly handles PUT /api/admin/products/:slug/weekly.
func (h *CatalogHandler) SetWeekly(c *gin.Context) {
	var in weeklyInput
	if err := render.Bind(c, &in); err != nil {
		middleware.Fail(c, err)
		return
	}
	err := h.Catalog.SetWeekly(c.Request.Context(), c.Param("slug"), in.DiscountPercent)
	switch {
	case err == nil:
		render.OK(c, gin.H{"slug": c.Param("slug"), "discount_percent": in.DiscountPercent})
	case errors.Is(err, products.ErrNotFound):
		middleware.Fail(c, apperr.NotFoundErr(render.Msg(c, "העוגייה לא נמצאה.", "Cookie not found.")))
	case errors.Is(err, products.ErrInvalidDiscount):
		middleware.Fail(c, apperr.InvalidErr(render.Msg(c, "אחוז ההנחה אינו תקין.", "Invalid discount percent."), nil))
	default:
		middleware.Fail(c, apperr.Wrap(err))
	}
}

// ApproveReview handles POST /api/admin/reviews/:id/approve.
func (h *CatalogHandler) ApproveReview(c *gin.Context) {
	err := h.Reviews.Approve(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		middleware.Fail(c, apperr.NotFoundErr(render.Msg(c, "הביקורת לא נמצאה.", "Review not found.")))
		return
	}
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	render.OK(c, gin.H{"id": c.Param("id"), "approved": true})
}
