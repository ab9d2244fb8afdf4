package newsletter

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/shared/apperr"
)

type Subscriber struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_newsletter_email"`
	Lang      string    `gorm:"type:varchar(2);not null;default:he"`
	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Subscriber) TableName() string { return "newsletter_subscribers" }

type Input struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type Store interface {
	// Add inserts the subscriber unless the email exists; it reports whether a row was added.
	Add(ctx context.Context, s *Subscriber) (bool, error)
}

type Service struct{ store Store }

func NewService(s Store) *Service { return &Service{store: s} }

// Subscribe is idempotent: a repeated email succeeds without a new row.
func (s *Service) Subscribe(ctx context.Context, in Input, lang validation.Lang) (bool, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if errs := validation.Struct(&in, lang); len(errs) > 0 {
		return false, apperr.InvalidErr(errs[0].Message, validation.ToMap(errs))
	}
	added, err := s.store.Add(ctx, &Subscriber{
		ID:        uuid.NewString(),
		Email:     in.Email,
		Lang:      string(lang),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return false, apperr.Wrap(err)
	}
	return added, nil
}

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Add(ctx context.Context, s *Subscriber) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(s)
	return res.RowsAffected > 0, res.Error
}
