package reviews

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/shared/apperr"
)

// Review is stored unapproved and shown only after an admin approves it.
type Review struct {
	ID         string     `gorm:"type:char(36);primaryKey" json:"id"`
	Name       string     `gorm:"type:varchar(100);not null" json:"name"`
	Rating     int        `gorm:"not null" json:"rating"`
	Text       string     `gorm:"type:varchar(1000);not null" json:"text"`
	Approved   bool       `gorm:"not null;default:false;index:ix_reviews_approved" json:"-"`
	ApprovedAt *time.Time `gorm:"type:datetime(3)" json:"-"`
	CreatedAt  time.Time  `gorm:"type:datetime(3);not null" json:"created_at"`
}

func (Review) TableName() string { return "reviews" }

type Input struct {
	Name   string `json:"name" validate:"required,person_name"`
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Text   string `json:"text" validate:"required,max=1000"`
}

type Store interface {
	Create(ctx context.Context, r *Review) error
	ListApproved(ctx context.Context, limit int) ([]Review, error)
	Approve(ctx context.Context, id string) error
}

type Service struct{ store Store }

func NewService(s Store) *Service { return &Service{store: s} }

func (s *Service) Submit(ctx context.Context, in Input, lang validation.Lang) (Review, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Text = strings.TrimSpace(in.Text)
	if errs := validation.Struct(&in, lang); len(errs) > 0 {
		return Review{}, apperr.InvalidErr(errs[0].Message, validation.ToMap(errs))
	}
	r := Review{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Rating:    in.Rating,
		Text:      in.Text,
		CreatedAt: time.Now(),
	}
	if err := s.store.Create(ctx, &r); err != nil {
		return Review{}, apperr.Wrap(err)
	}
	return r, nil
}

func (s *Service) ListApproved(ctx context.Context, limit int) ([]Review, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return s.store.ListApproved(ctx, limit)
}

func (s *Service) Approve(ctx context.Context, id string) error {
	return s.store.Approve(ctx, id)
}

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, rv *Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *Repo) ListApproved(ctx context.Context, limit int) ([]Review, error) {
	var out []Review
	err := r.db.WithContext(ctx).
		Where("approved = ?", true).
		Order("approved_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *Repo) Approve(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&Review{}).
		Where("id = ?", id).
		Updates(map[string]any{"approved": true, "approved_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
