package products

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ugiot.co.il/app/internal/shared/slug"
)

var ErrInvalidDiscount = errors.New("discount percent must be between 1 and 99")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) ListActive(ctx context.Context) ([]Cookie, error) {
	var items []Cookie
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("weekly DESC, position ASC, name ASC").
		Find(&items).Error
	return items, err
}

func (r *Repo) GetBySlug(ctx context.Context, s string) (Cookie, error) {
	var c Cookie
	err := r.db.WithContext(ctx).First(&c, "slug = ? AND active = ?", s, true).Error
	return c, err
}

type CreateInput struct {
	Name          string
	DescriptionHe string
	DescriptionEn string
	Price         int
	Position      int
}

func (r *Repo) Create(ctx context.Context, in CreateInput) (Cookie, error) {
	name := strings.TrimSpace(in.Name)
	s, err := r.uniqueSlug(ctx, slug.FromName(name))
	if err != nil {
		return Cookie{}, err
	}
	now := time.Now()
	c := Cookie{
		ID:            uuid.NewString(),
		Name:          name,
		Slug:          s,
		DescriptionHe: in.DescriptionHe,
		DescriptionEn: in.DescriptionEn,
		Price:         in.Price,
		Active:        true,
		Position:      in.Position,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return Cookie{}, err
	}
	return c, nil
}

func (r *Repo) uniqueSlug(ctx context.Context, base string) (string, error) {
	var existing []string
	if err := r.db.WithContext(ctx).Model(&Cookie{}).
		Where("slug = ? OR slug LIKE ?", base, base+"-%").
		Pluck("slug", &existing).Error; err != nil {
		return "", err
	}
	taken := make(map[string]bool, len(existing))
	for _, s := range existing {
		taken[s] = true
	}
	return slug.Unique(base, func(s string) bool { return taken[s] }), nil
}

// SetImage records the stored image and returns the previous key, if any.
func (r *Repo) SetImage(ctx context.Context, cookieID, key, url string) (string, error) {
	var prev string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c Cookie
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", cookieID).Error; err != nil {
			return err
		}
		if c.ImageKey != nil {
			prev = *c.ImageKey
		}
		return tx.Model(&Cookie{}).Where("id = ?", cookieID).Updates(map[string]any{
			"image_key":  key,
			"image_url":  url,
			"updated_at": time.Now(),
		}).Error
	})
	return prev, err
}

// SetWeekly makes the cookie the only cookie of the week.
func (r *Repo) SetWeekly(ctx context.Context, cookieID string, discountPercent int) error {
	if discountPercent < 1 || discountPercent > 99 {
		return ErrInvalidDiscount
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&Cookie{}).Where("weekly = ?", true).
			Updates(map[string]any{"weekly": false, "discount_percent": 0, "updated_at": now}).Error; err != nil {
			return err
		}
		res := tx.Model(&Cookie{}).Where("id = ?", cookieID).
			Updates(map[string]any{"weekly": true, "discount_percent": discountPercent, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Seed inserts the cookies that are not already present (matched by name).
func (r *Repo) Seed(ctx context.Context, items []Cookie) error {
	if len(items) == 0 {
		return nil
	}
	now := time.Now()
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if items[i].Slug == "" {
			items[i].Slug = slug.FromName(items[i].Name)
		}
		items[i].CreatedAt, items[i].UpdatedAt = now, now
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&items).Error
}
