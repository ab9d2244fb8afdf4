package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrMissingUser = errors.New("profile upsert requires a user")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// Upsert creates or updates the profile linked to userID and returns it as a
// one-element slice.
func (r *Repo) Upsert(ctx context.Context, userID string, in UpsertRequest) ([]Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}
	now := time.Now()
	p := Profile{
		ID:        uuid.NewString(),
		UserID:    &userID,
		Phone:     strings.TrimSpace(in.Phone),
		FullName:  strPtr(strings.TrimSpace(in.FullName)),
		Address:   in.Address,
		City:      in.City,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"phone", "full_name", "address", "city", "notes", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return nil, err
	}

	// ON DUPLICATE KEY keeps the old id; read back the stored row.
	var out Profile
	if err := r.db.WithContext(ctx).First(&out, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return []Profile{out}, nil
}

func (r *Repo) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	return p, err
}

// FindGuestByPhone returns the guest profile (no linked user) with this phone.
func (r *Repo) FindGuestByPhone(ctx context.Context, tx *gorm.DB, phone string) (Profile, error) {
	if tx == nil {
		tx = r.db
	}
	var p Profile
	err := tx.WithContext(ctx).
		Where("phone = ? AND user_id IS NULL", phone).
		Order("created_at ASC").
		First(&p).Error
	return p, err
}
