package orders

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

// AdminListParams filters the back-office order list. Zero values mean "any".
type AdminListParams struct {
	Q        string // order number, phone or customer name fragment
	Status   string
	Delivery string
	From, To time.Time // created_at range, To exclusive
	Page     int
	PageSize int
}

type AdminListResult struct {
	Items []Order
	Total int64
	// ByStatus counts the orders matching every filter except Status,
	// so the tabs show what switching status would yield.
	ByStatus map[string]int64
}

func (r *Repo) AdminList(ctx context.Context, in AdminListParams) (AdminListResult, error) {
	page, size := pageBounds(in.Page, in.PageSize, 30)

	scoped := r.db.WithContext(ctx).Model(&Order{}).Scopes(adminFilters(in))

	counts, err := r.countByStatus(scoped.Session(&gorm.Session{}))
	if err != nil {
		return AdminListResult{}, err
	}

	rows := scoped.Session(&gorm.Session{})
	var total int64
	if status := strings.TrimSpace(in.Status); status != "" {
		rows = rows.Where("status = ?", status)
		total = counts[status]
	} else {
		for _, n := range counts {
			total += n
		}
	}

	var items []Order
	if err := rows.
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return AdminListResult{}, err
	}
	return AdminListResult{Items: items, Total: total, ByStatus: counts}, nil
}

func adminFilters(in AdminListParams) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q := strings.TrimSpace(in.Q); q != "" {
			like := "%" + q + "%"
			db = db.Where("(order_number LIKE ? OR phone LIKE ? OR full_name LIKE ?)", like, like, like)
		}
		if d := strings.TrimSpace(in.Delivery); d != "" {
			db = db.Where("delivery_method = ?", d)
		}
		if !in.From.IsZero() {
			db = db.Where("created_at >= ?", in.From)
		}
		if !in.To.IsZero() {
			db = db.Where("created_at < ?", in.To)
		}
		return db
	}
}

func (r *Repo) countByStatus(db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	if err := db.Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

// AdminGetDetail loads the order, its lines and the audit trail (oldest first).
func (r *Repo) AdminGetDetail(ctx context.Context, orderID string) (Order, []OrderItem, []OrderEvent, error) {
	o, items, err := r.GetWithItems(ctx, orderID)
	if err != nil {
		return Order{}, nil, nil, err
	}
	var events []OrderEvent
	err = r.db.WithContext(ctx).
		Where("order_id = ?", o.ID).
		Order("created_at ASC").
		Find(&events).Error
	return o, items, events, err
}
