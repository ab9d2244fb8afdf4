package middleware

import (
	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/shared/apperr"
)

// RequireAuth answers 401 when no session user is present.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}
		Fail(c, apperr.UnauthorizedErr(loginRequiredMsg(GetLang(c))))
	}
}

func loginRequiredMsg(lang validation.Lang) string {
	if lang == validation.En {
		return "Please log in to continue."
	}
	return "יש להתחבר כדי להמשיך."
}
