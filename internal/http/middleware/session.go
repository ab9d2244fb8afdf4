package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ugiot.co.il/app/internal/modules/auth"
)

const (
	ctxKeyUser         = "user"
	ctxKeySessionToken = "session_token"
)

// Authenticator resolves a session cookie token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.User, error)
}

// SessionCfg holds configuration for the session middleware and cookie helpers.
type SessionCfg struct {
	Auth       Authenticator
	CookieName string
	Secure     bool
	TTL        time.Duration
	Log        *slog.Logger
}

// SessionMiddleware loads the user behind the session cookie. Unknown or
// expired tokens clear the cookie; lookup failures leave the request anonymous.
func SessionMiddleware(cfg SessionCfg) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		u, err := cfg.Auth.Authenticate(c.Request.Context(), token)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			ClearSessionCookie(c, cfg)
		case err != nil:
			if cfg.Log != nil {
				cfg.Log.WarnContext(c.Request.Context(), "session lookup failed",
					slog.String("request_id", GetRequestID(c)), slog.Any("err", err))
			}
		default:
			c.Set(ctxKeyUser, ContextUser{ID: u.ID, Email: u.Email, Role: u.Role})
			c.Set(ctxKeySessionToken, token)
		}

		c.Next()
	}
}

func SetSessionCookie(c *gin.Context, cfg SessionCfg, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, token, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
}

func ClearSessionCookie(c *gin.Context, cfg SessionCfg) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.Secure, true)
}

// ContextUser represents the authenticated user stored in request context.
type ContextUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u ContextUser) IsAdmin() bool { return u.Role == auth.RoleAdmin }

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (ContextUser, bool) {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return ContextUser{}, false
	}
	u, ok := v.(ContextUser)
	if !ok || u.ID == "" {
		return ContextUser{}, false
	}
	return u, true
}

// SessionToken is the raw cookie token of an authenticated request.
func SessionToken(c *gin.Context) string {
	return c.GetString(ctxKeySessionToken)
}
