package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusSent   = "sent"
	StatusOpened = "opened"
	StatusFailed = "failed"
)

// Log is one notification attempt.
type Log struct {
	ID        string         `gorm:"type:char(36);primaryKey"`
	OrderID   *string        `gorm:"type:char(36);index:ix_notification_logs_order"`
	Channel   string         `gorm:"type:varchar(16);not null"`
	Recipient string         `gorm:"type:varchar(255);not null"`
	Status    string         `gorm:"type:varchar(16);not null"`
	Error     *string        `gorm:"type:varchar(500)"`
	Payload   datatypes.JSON `gorm:"type:json"`
	CreatedAt time.Time      `gorm:"type:datetime(3);not null"`
}

func (Log) TableName() string { return "notification_logs" }

// maxErrorLen is the Error column's length in characters.
const maxErrorLen = 500

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

type Entry struct {
	OrderID   string
	Channel   string
	Recipient string
	Err       error
	Payload   map[string]any
}

// Recorder writes notification attempts. Failures are logged and swallowed.
type Recorder struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewRecorder(db *gorm.DB, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{db: db, log: log}
}

func (r *Recorder) Record(ctx context.Context, e Entry) {
	row := NewLog(e, time.Now())
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		r.log.WarnContext(ctx, "notification log write failed", "channel", e.Channel, "err", err)
	}
}

// NewLog maps an entry to its row.
func NewLog(e Entry, now time.Time) Log {
	row := Log{
		ID:        uuid.NewString(),
		Channel:   e.Channel,
		Recipient: e.Recipient,
		Status:    StatusSent,
		CreatedAt: now,
	}
	if e.Channel == ChannelWhatsApp {
		row.Status = StatusOpened
	}
	if e.OrderID != "" {
		id := e.OrderID
		row.OrderID = &id
	}
	if e.Err != nil {
		msg := truncateRunes(e.Err.Error(), maxErrorLen)
		row.Status = StatusFailed
		row.Error = &msg
	}
	if len(e.Payload) > 0 {
		if b, err := json.Marshal(e.Payload); err == nil {
			row.Payload = datatypes.JSON(b)
		}
	}
	return row
}
