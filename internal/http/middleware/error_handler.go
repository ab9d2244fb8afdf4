package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/shared/apperr"
)

const englishDefaultMsg = "Something went wrong, please try again."

// Fail records err for ErrorHandler and stops the chain.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler renders the last handler error as {error, fields, request_id}.
// Server errors are logged at error level, client errors at debug.
func ErrorHandler(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)

		level := slog.LevelDebug
		if status >= 500 {
			level = slog.LevelError
		}
		l.LogAttrs(c.Request.Context(), level, "request_failed",
			slog.String("request_id", GetRequestID(c)),
			slog.Int("status", status),
			slog.Any("err", err),
		)

		c.AbortWithStatusJSON(status, errorBody(c, err))
	}
}

func errorBody(c *gin.Context, err error) gin.H {
	msg := apperr.PublicMessage(err)
	if msg == apperr.DefaultPublicMsg && GetLang(c) == validation.En {
		msg = englishDefaultMsg
	}
	body := gin.H{
		"error":      msg,
		"request_id": GetRequestID(c),
	}
	if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
		body["fields"] = ae.Fields
	}
	return body
}
