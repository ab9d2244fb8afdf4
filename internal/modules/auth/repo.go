package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEmailTaken = errors.New("email already registered")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) CreateUser(ctx context.Context, u *User) error {
	now := time.Now()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt, u.UpdatedAt = now, now

	err := r.db.WithContext(ctx).Create(u).Error
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return ErrEmailTaken
	}
	return err
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	return u, err
}

func (r *Repo) GetByID(ctx context.Context, id string) (User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return u, err
}

func (r *Repo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	return r.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).
		Updates(map[string]any{"password_hash": hash, "updated_at": time.Now()}).Error
}

// SetRole changes the role of the user with the given email.
func (r *Repo) SetRole(ctx context.Context, email, role string) error {
	res := r.db.WithContext(ctx).Model(&User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Updates(map[string]any{"role": role, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateSession stores a new session and returns the raw cookie token.
func (r *Repo) CreateSession(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	now := time.Now()
	s := Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		TokenHash:  hashToken(token),
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return "", err
	}
	return token, nil
}

// SessionUser resolves a cookie token to its user; expired sessions do not match.
func (r *Repo) SessionUser(ctx context.Context, token string) (User, error) {
	var s Session
	if err := r.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", hashToken(token), time.Now()).
		First(&s).Error; err != nil {
		return User{}, err
	}
	_ = r.db.WithContext(ctx).Model(&Session{}).Where("id = ?", s.ID).Update("last_seen_at", time.Now()).Error
	return r.GetByID(ctx, s.UserID)
}

func (r *Repo) DeleteSession(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Delete(&Session{}, "token_hash = ?", hashToken(token)).Error
}

// DeleteOtherSessions logs the user out everywhere except the given token.
func (r *Repo) DeleteOtherSessions(ctx context.Context, userID, keepToken string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND token_hash <> ?", userID, hashToken(keepToken)).
		Delete(&Session{}).Error
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}
