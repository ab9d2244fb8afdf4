package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/render"
	"ugiot.co.il/app/internal/modules/auth"
	"ugiot.co.il/app/internal/shared/apperr"
	"ugiot.co.il/app/pkg/view"
)

// normalizeReturnTo keeps only same-site relative paths (open redirect protection).
func normalizeReturnTo(s string) string {
	if s == "" || s[0] != '/' {
		return ""
	}
	if strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/\\") {
		return ""
	}
	if strings.Contains(s, "://") {
		return ""
	}
	return s
}

type Authenticator interface {
	Signup(ctx context.Context, email, password string) (auth.User, error)
	Login(ctx context.Context, email, password string) (string, auth.User, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandlers contains handlers for /api/auth.
type AuthHandlers struct {
	svc     Authenticator
	sessCfg middleware.SessionCfg
}

func NewAuthHandlers(svc Authenticator, sessCfg middleware.SessionCfg) *AuthHandlers {
	return &AuthHandlers{svc: svc, sessCfg: sessCfg}
}

type signupInput struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	ReturnTo        string `json:"return_to"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	ReturnTo string `json:"return_to"`
}

type sessionResponse struct {
	User     middleware.ContextUser `json:"user"`
	ReturnTo string                 `json:"return_to,omitempty"`
}

// Signup creates the account and logs it in.
func (h *AuthHandlers) Signup(c *gin.Context) {
	var in signupInput
	if err := render.Bind(c, &in); err != nil {
		middleware.Fail(c, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	_, err := h.svc.Signup(c.Request.Context(), email, in.Password)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		msg := render.Msg(c, "כתובת האימייל כבר רשומה.", "This email is already registered.")
		middleware.Fail(c, &apperr.AppError{Kind: apperr.Conflict, PublicMsg: msg, Fields: map[string]string{"email": msg}})
		return
	case errors.Is(err, auth.ErrWeakPassword):
		middleware.Fail(c, apperr.InvalidErr(render.Msg(c, "הסיסמה קצרה מדי.", "Password is too short."), nil))
		return
	case err != nil:
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	h.login(c, email, in.Password, in.ReturnTo, http.StatusCreated,
		render.Msg(c, "החשבון נוצר בהצלחה.", "Your account was created."))
}

func (h *AuthHandlers) Login(c *gin.Context) {
	var in loginInput
	if err := render.Bind(c, &in); err != nil {
		middleware.Fail(c, err)
		return
	}
	h.login(c, strings.ToLower(strings.TrimSpace(in.Email)), in.Password, in.ReturnTo, http.StatusOK,
		render.Msg(c, "התחברת בהצלחה.", "You are logged in."))
}

func (h *AuthHandlers) login(c *gin.Context, email, password, returnTo string, status int, msg string) {
	token, u, err := h.svc.Login(c.Request.Context(), email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		middleware.Fail(c, apperr.UnauthorizedErr(render.Msg(c, "אימייל או סיסמה שגויים.", "Wrong email or password.")))
		return
	}
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	middleware.SetSessionCookie(c, h.sessCfg, token)
	render.Toast(c, status, view.FlashSuccess, msg, sessionResponse{
		User:     middleware.ContextUser{ID: u.ID, Email: u.Email, Role: u.Role},
		ReturnTo: normalizeReturnTo(returnTo),
	})
}

// Logout deletes the session row and the cookie. It succeeds without a session.
func (h *AuthHandlers) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	middleware.ClearSessionCookie(c, h.sessCfg)
	render.Toast(c, http.StatusOK, view.FlashInfo, render.Msg(c, "התנתקת.", "You are logged out."), nil)
}

// Me handles GET /api/auth/me.
func (h *AuthHandlers) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		render.OK(c, nil)
		return
	}
	render.OK(c, sessionResponse{User: u})
}
