package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Store interface {
	CreateUser(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	CreateSession(ctx context.Context, userID string, ttl time.Duration) (string, error)
	SessionUser(ctx context.Context, token string) (User, error)
	DeleteSession(ctx context.Context, token string) error
}

type Service struct {
	store Store
	ttl   time.Duration
}

func NewService(store Store, sessionTTL time.Duration) *Service {
	return &Service{store: store, ttl: sessionTTL}
}

func (s *Service) SessionTTL() time.Duration { return s.ttl }

func (s *Service) Signup(ctx context.Context, email, password string) (User, error) {
	if !validSignupPassword(password) {
		return User{}, ErrWeakPassword
	}
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}
	u := User{Email: email, PasswordHash: hash}
	if err := s.store.CreateUser(ctx, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Login checks the credentials and opens a session, returning its cookie token.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", User{}, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return "", User{}, ErrInvalidCredentials
	}
	token, err := s.store.CreateSession(ctx, u.ID, s.ttl)
	if err != nil {
		return "", User{}, err
	}
	return token, u, nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (User, error) {
	if token == "" {
		return User{}, gorm.ErrRecordNotFound
	}
	return s.store.SessionUser(ctx, token)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, token)
}
