package orders

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateLimit is a fixed-window attempt counter keyed by client IP.
type RateLimit struct {
	ID            int64     `gorm:"primaryKey"`
	IP            string    `gorm:"column:ip;type:varchar(45);not null;uniqueIndex:ux_checkout_rate_limits_ip"`
	AttemptCount  int       `gorm:"column:attempt_count;not null"`
	WindowStart   time.Time `gorm:"column:window_start;type:datetime(3);not null"`
	ExpiresAt     time.Time `gorm:"column:expires_at;type:datetime(3);not null"`
	LastAttemptAt time.Time `gorm:"column:last_attempt_at;type:datetime(3);not null"`
}

func (RateLimit) TableName() string { return "checkout_rate_limits" }

type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Hour
	}
	return &RateLimiter{limit: limit, window: window, now: time.Now}
}

// Hit records an attempt for ip inside tx and reports whether it is allowed.
// Blocked attempts are not counted.
func (l *RateLimiter) Hit(ctx context.Context, tx *gorm.DB, ip string) (bool, error) {
	now := l.now()

	var cur RateLimit
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("ip = ?", ip).
		First(&cur).Error
	found := true
	if errors.Is(err, gorm.ErrRecordNotFound) {
		found = false
	} else if err != nil {
		return false, err
	}

	next, allowed := l.decide(cur, found, now)
	if !allowed {
		return false, nil
	}
	next.IP = ip

	if !found {
		// Two first attempts from the same IP race on the unique index.
		err := tx.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ip"}},
			DoUpdates: clause.Assignments(map[string]any{
				"attempt_count":   gorm.Expr("attempt_count + 1"),
				"last_attempt_at": now,
			}),
		}).Create(&next).Error
		return err == nil, err
	}

	return true, tx.WithContext(ctx).Model(&RateLimit{}).
		Where("id = ?", cur.ID).
		Updates(map[string]any{
			"attempt_count":   next.AttemptCount,
			"window_start":    next.WindowStart,
			"expires_at":      next.ExpiresAt,
			"last_attempt_at": next.LastAttemptAt,
		}).Error
}

// decide applies the fixed-window rule to the stored counter.
func (l *RateLimiter) decide(cur RateLimit, found bool, now time.Time) (RateLimit, bool) {
	if !found || !now.Before(cur.ExpiresAt) {
		return RateLimit{
			ID:            cur.ID,
			AttemptCount:  1,
			WindowStart:   now,
			ExpiresAt:     now.Add(l.window),
			LastAttemptAt: now,
		}, true
	}
	if cur.AttemptCount >= l.limit {
		return cur, false
	}
	cur.AttemptCount++
	cur.LastAttemptAt = now
	return cur, true
}
