package middleware

import (
	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/shared/apperr"
)

// RequireAdmin: 401 without a session, 403 for non-admin users.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			Fail(c, apperr.UnauthorizedErr(loginRequiredMsg(GetLang(c))))
			return
		}
		if !u.IsAdmin() {
			msg := "אין הרשאה לפעולה זו."
			if GetLang(c) == validation.En {
				msg = "You are not allowed to do that."
			}
			Fail(c, apperr.ForbiddenErr(msg))
			return
		}
		c.Next()
	}
}
