package middleware

import (
	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/http/validation"
)

const CtxKeyLang = "lang"

// Lang picks the response language: ?lang= wins over Accept-Language, and the
// configured default applies when neither is present.
func Lang(def validation.Lang) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := def
		if q := c.Query("lang"); q != "" {
			lang = validation.ParseLang(q)
		} else if h := c.GetHeader("Accept-Language"); h != "" {
			lang = validation.ParseLang(h)
		}
		c.Set(CtxKeyLang, lang)
		c.Header("Content-Language", string(lang))
		c.Next()
	}
}

func GetLang(c *gin.Context) validation.Lang {
	if v, ok := c.Get(CtxKeyLang); ok {
		if l, ok := v.(validation.Lang); ok {
			return l
		}
	}
	return validation.He
}
