package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/shared/apperr"
)

// Recovery logs the panic with its stack and answers with the generic 500 body.
func Recovery(l *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		l.LogAttrs(c.Request.Context(), slog.LevelError, "panic_recovered",
			slog.String("request_id", GetRequestID(c)),
			slog.String("path", c.Request.URL.Path),
			slog.Any("panic", recovered),
			slog.String("stack", string(debug.Stack())),
		)

		err := apperr.Wrap(fmt.Errorf("panic: %v", recovered))
		c.AbortWithStatusJSON(apperr.HTTPStatus(err), errorBody(c, err))
	})
}
