package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/render"
	"ugiot.co.il/app/internal/modules/profiles"
	"ugiot.co.il/app/internal/modules/users"
	"ugiot.co.il/app/internal/shared/apperr"
	"ugiot.co.il/app/pkg/view"
)

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (profiles.Profile, error)
	Upsert(ctx context.Context, userID string, in profiles.UpsertRequest) ([]profiles.Profile, error)
}

type PasswordChanger interface {
	Change(ctx context.Context, in users.PasswordChangeInput) error
}

// AccountHandler serves the logged-in customer's profile and password.
type AccountHandler struct {
	profiles  ProfileStore
	cache     *profiles.Cache
	passwords PasswordChanger
}

func NewAccountHandler(p ProfileStore, cache *profiles.Cache, pw PasswordChanger) *AccountHandler {
	return &AccountHandler{profiles: p, cache: cache, passwords: pw}
}

type profileInput struct {
	FullName string `json:"full_name" validate:"required,person_name"`
	Phone    string `json:"phone" validate:"required,il_phone"`
	Address  string `json:"address" validate:"omitempty,min=3,max=200"`
	City     string `json:"city" validate:"omitempty,min=2,max=50"`
	Notes    string `json:"notes" validate:"max=500"`
}

func (in *profileInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(in.Phone))
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Notes = strings.TrimSpace(in.Notes)
}

// GetProfile handles GET /api/profile. It answers with null data when the
// customer has no profile yet, and fills the cache used at checkout.
func (h *AccountHandler) GetProfile(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	if p, ok := h.cache.Get(u.ID); ok {
		render.OK(c, p)
		return
	}

	p, err := h.profiles.GetByUserID(c.Request.Context(), u.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		render.OK(c, nil)
		return
	}
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	h.cache.Put(u.ID, p)
	render.OK(c, p)
}

// PutProfile handles PUT /api/profile.
func (h *AccountHandler) PutProfile(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	var in profileInput
	if err := render.Decode(c, &in); err != nil {
		middleware.Fail(c, err)
		return
	}
	in.normalize()
	if err := render.Validate(c, &in); err != nil {
		middleware.Fail(c, err)
		return
	}

	rows, err := h.profiles.Upsert(c.Request.Context(), u.ID, profiles.UpsertRequest{
		Phone:    in.Phone,
		FullName: in.FullName,
		Address:  optionalStr(in.Address),
		City:     optionalStr(in.City),
		Notes:    optionalStr(in.Notes),
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	if len(rows) == 0 {
		middleware.Fail(c, apperr.Wrap(errors.New("profile upsert returned no rows")))
		return
	}
	h.cache.Put(u.ID, rows[0])
	render.Toast(c, http.StatusOK, view.FlashSuccess, render.Msg(c, "הפרטים נשמרו.", "Your details were saved."), rows[0])
}

type passwordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
	Confirm         string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

// ChangePassword handles POST /api/account/password. Other sessions are revoked.
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	var in passwordInput
	if err := render.Bind(c, &in); err != nil {
		middleware.Fail(c, err)
		return
	}

	err := h.passwords.Change(c.Request.Context(), users.PasswordChangeInput{
		UserID:       u.ID,
		Current:      in.CurrentPassword,
		New:          in.NewPassword,
		SessionToken: middleware.SessionToken(c),
	})
	switch {
	case err == nil:
		render.Toast(c, http.StatusOK, view.FlashSuccess, render.Msg(c, "הסיסמה עודכנה.", "Your password was changed."), nil)
	case errors.Is(err, users.ErrWrongPassword):
		msg := render.Msg(c, "הסיסמה הנוכחית שגויה.", "The current password is wrong.")
		middleware.Fail(c, apperr.InvalidErr(msg, map[string]string{"current_password": msg}))
	case errors.Is(err, users.ErrSamePassword):
		msg := render.Msg(c, "הסיסמה החדשה זהה לנוכחית.", "The new password must differ from the current one.")
		middleware.Fail(c, apperr.InvalidErr(msg, map[string]string{"new_password": msg}))
	case errors.Is(err, users.ErrWeakPassword):
		msg := render.Msg(c, "הסיסמה חלשה מדי.", "The password is too weak.")
		middleware.Fail(c, apperr.InvalidErr(msg, map[string]string{"new_password": msg}))
	default:
		middleware.Fail(c, apperr.Wrap(err))
	}
}

func optionalStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
