package render

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/shared/apperr"
	"ugiot.co.il/app/pkg/view"
)

// Envelope is the success body: the payload plus an optional toast.
type Envelope struct {
	Data  any         `json:"data"`
	Flash *view.Flash `json:"flash,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Data: data})
}

// Toast answers with data and a message for the storefront's toast.
func Toast(c *gin.Context, status int, kind view.FlashKind, msg string, data any) {
	c.JSON(status, Envelope{Data: data, Flash: &view.Flash{Kind: kind, Message: msg}})
}

// Bind decodes the JSON body into dst and runs its validate tags. The
// returned error is an apperr.Invalid carrying per-field messages.
func Bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return invalid(validation.Ordered(err, dst, middleware.GetLang(c)))
	}
	return Validate(c, dst)
}

// Validate runs dst's validate tags, for handlers that normalize between
// decoding and validation.
func Validate(c *gin.Context, dst any) error {
	if errs := validation.Struct(dst, middleware.GetLang(c)); len(errs) > 0 {
		return invalid(errs)
	}
	return nil
}

// Decode only parses the JSON body; the caller's service validates it.
func Decode(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return invalid(validation.Ordered(err, dst, middleware.GetLang(c)))
	}
	return nil
}

// Msg picks the Hebrew or English string for the request language.
func Msg(c *gin.Context, he, en string) string {
	if middleware.GetLang(c) == validation.En {
		return en
	}
	return he
}

func invalid(errs []validation.FieldError) error {
	return apperr.InvalidErr(errs[0].Message, validation.ToMap(errs))
}
