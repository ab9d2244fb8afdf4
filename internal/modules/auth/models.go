package auth

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           string    `gorm:"type:char(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash string    `gorm:"type:varchar(100);not null"`
	Role         string    `gorm:"type:varchar(16);not null;default:customer"`
	CreatedAt    time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt    time.Time `gorm:"type:datetime(3);not null"`
}

func (User) TableName() string { return "users" }

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Session is a login. The cookie carries the raw token; only its SHA-256 is stored.
type Session struct {
	ID         string    `gorm:"type:char(36);primaryKey"`
	UserID     string    `gorm:"type:char(36);not null;index:ix_sessions_user_id"`
	TokenHash  []byte    `gorm:"type:binary(32);not null;uniqueIndex:ux_sessions_token_hash"`
	ExpiresAt  time.Time `gorm:"type:datetime(3);not null"`
	CreatedAt  time.Time `gorm:"type:datetime(3);not null"`
	LastSeenAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Session) TableName() string { return "sessions" }
