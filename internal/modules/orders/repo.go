package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// InsertOrder stores a new order row. ID, status and timestamps are filled when empty.
func (r *Repo) InsertOrder(ctx context.Context, o *Order) error {
	prepareOrder(o, time.Now())
	return r.db.WithContext(ctx).Create(o).Error
}

// InsertItems stores the order's lines in one statement.
func (r *Repo) InsertItems(ctx context.Context, items []OrderItem) error {
	if len(items) == 0 {
		return ErrCartEmpty
	}
	now := time.Now()
	for i := range items {
		if items[i].OrderID == "" || items[i].Quantity < 1 {
			return ErrInvalidItem
		}
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = now
		}
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// FindBySubmissionKey returns the order a cart already became, if any.
func (r *Repo) FindBySubmissionKey(ctx context.Context, key string) (Order, bool, error) {
	return findBySubmissionKey(ctx, r.db, key)
}

func findBySubmissionKey(ctx context.Context, db *gorm.DB, key string) (Order, bool, error) {
	if strings.TrimSpace(key) == "" {
		return Order{}, false, nil
	}
	var o Order
	err := db.WithContext(ctx).First(&o, "submission_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Order{}, false, nil
	}
	if err != nil {
		return Order{}, false, err
	}
	return o, true, nil
}

func prepareOrder(o *Order, now time.Time) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	if o.DeliveryMethod == "" {
		o.DeliveryMethod = "pickup"
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
}

type ListParams struct {
	UserID    string
	ProfileID string
	Page      int
	PageSize  int
	Status    string // optional filter
}

type ListResult struct {
	Items []ListItem
	Total int64
}

type ListItem struct {
	Order Order
	Count int
}

// ListForCustomer returns the orders placed by a user, including guest orders
// tied to the same profile.
func (r *Repo) ListForCustomer(ctx context.Context, in ListParams) (ListResult, error) {
	page, size := pageBounds(in.Page, in.PageSize, 20)

	q := r.db.WithContext(ctx).Model(&Order{})
	switch {
	case in.UserID != "" && in.ProfileID != "":
		q = q.Where("user_id = ? OR profile_id = ?", in.UserID, in.ProfileID)
	case in.UserID != "":
		q = q.Where("user_id = ?", in.UserID)
	case in.ProfileID != "":
		q = q.Where("profile_id = ?", in.ProfileID)
	default:
		return ListResult{Items: []ListItem{}}, nil
	}
	if status := strings.TrimSpace(in.Status); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return ListResult{}, err
	}

	var orders []Order
	if err := q.
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&orders).Error; err != nil {
		return ListResult{}, err
	}

	counts, err := r.itemCounts(ctx, orders)
	if err != nil {
		return ListResult{}, err
	}
	items := make([]ListItem, len(orders))
	for i, o := range orders {
		items[i] = ListItem{Order: o, Count: counts[o.ID]}
	}
	return ListResult{Items: items, Total: total}, nil
}

func (r *Repo) itemCounts(ctx context.Context, orders []Order) (map[string]int, error) {
	out := make(map[string]int, len(orders))
	if len(orders) == 0 {
		return out, nil
	}
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	var rows []struct {
		OrderID string
		N       int
	}
	if err := r.db.WithContext(ctx).Model(&OrderItem{}).
		Select("order_id, SUM(quantity) AS n").
		Where("order_id IN ?", ids).
		Group("order_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.OrderID] = row.N
	}
	return out, nil
}

func (r *Repo) GetWithItems(ctx context.Context, id string) (Order, []OrderItem, error) {
	var o Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return Order{}, nil, err
	}
	var items []OrderItem
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&items, "order_id = ?", id).Error; err != nil {
		return Order{}, nil, err
	}
	return o, items, nil
}

func pageBounds(page, size, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = def
	}
	return page, size
}
