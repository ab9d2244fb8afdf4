package profiles

import "time"

// Profile is a customer record. Authenticated customers own at most one
// profile (unique user_id); guest profiles have no user and are matched by phone.
type Profile struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    *string   `gorm:"type:char(36);uniqueIndex:ux_profiles_user_id" json:"-"`
	Phone     string    `gorm:"type:varchar(16);not null;index:ix_profiles_phone" json:"phone"`
	FullName  *string   `gorm:"type:varchar(100)" json:"full_name"`
	Address   *string   `gorm:"type:varchar(200)" json:"address"`
	City      *string   `gorm:"type:varchar(50)" json:"city"`
	Notes     *string   `gorm:"type:varchar(500)" json:"notes"`
	CreatedAt time.Time `gorm:"type:datetime(3);not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// UpsertRequest is the payload of the profile upsert call.
type UpsertRequest struct {
	Phone    string  `json:"phone"`
	FullName string  `json:"full_name"`
	Address  *string `json:"address,omitempty"`
	City     *string `json:"city,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
