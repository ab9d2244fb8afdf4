package users

import (
	"context"
	"errors"
	"fmt"

	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/modules/auth"
)

var (
	ErrWrongPassword = errors.New("current password is incorrect")
	ErrWeakPassword  = errors.New("password must be at least 8 characters with an uppercase letter and a digit")
	ErrSamePassword  = errors.New("new password must differ from the current one")
)

type Credentials interface {
	GetByID(ctx context.Context, id string) (auth.User, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
	DeleteOtherSessions(ctx context.Context, userID, keepToken string) error
}

type PasswordChangeService struct {
	creds Credentials
}

func NewPasswordChangeService(c Credentials) *PasswordChangeService {
	return &PasswordChangeService{creds: c}
}

type PasswordChangeInput struct {
	UserID       string
	Current      string
	New          string
	SessionToken string // kept alive; other sessions are revoked
}

// Change applies the strict account password rule, not the signup minimum.
func (s *PasswordChangeService) Change(ctx context.Context, in PasswordChangeInput) error {
	if !validation.StrongPassword(in.New) {
		return ErrWeakPassword
	}
	if in.New == in.Current {
		return ErrSamePassword
	}

	u, err := s.creds.GetByID(ctx, in.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, in.Current) {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(in.New)
	if err != nil {
		return err
	}
	if err := s.creds.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return err
	}
	return s.creds.DeleteOtherSessions(ctx, u.ID, in.SessionToken)
}
