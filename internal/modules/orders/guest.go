package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ugiot.co.il/app/internal/modules/profiles"
)

type GuestItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
}

type GuestCheckoutRequest struct {
	FullName       string      `json:"fullName"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Address        string      `json:"address"`
	City           string      `json:"city"`
	Notes          *string     `json:"notes,omitempty"`
	Items          []GuestItem `json:"items"`
	TotalPrice     int         `json:"totalPrice"`
	OrderNumber    string      `json:"orderNumber"`
	DeliveryMethod string      `json:"deliveryMethod"`
	SubmissionKey  string      `json:"submissionKey,omitempty"`
}

type GuestCheckoutResponse struct {
	Success   bool   `json:"success,omitempty"`
	OrderID   string `json:"orderId,omitempty"`
	ProfileID string `json:"profileId,omitempty"`
	Error     string `json:"error,omitempty"`
	// Replayed is set when the submission key already produced an order; nothing was written.
	Replayed bool `json:"replayed,omitempty"`
}

// GuestProcedure is the single trusted write path for unauthenticated checkout:
// rate limit, profile by phone, order and items in one transaction.
type GuestProcedure struct {
	db       *gorm.DB
	limiter  *RateLimiter
	profiles guestProfiles
	log      *slog.Logger
	now      func() time.Time
}

type guestProfiles interface {
	FindGuestByPhone(ctx context.Context, tx *gorm.DB, phone string) (profiles.Profile, error)
}

func NewGuestProcedure(db *gorm.DB, limiter *RateLimiter, log *slog.Logger) *GuestProcedure {
	if log == nil {
		log = slog.Default()
	}
	return &GuestProcedure{db: db, limiter: limiter, profiles: profiles.NewRepo(db), log: log, now: time.Now}
}

// Checkout returns business failures (quota, bad input) in the response's Error
// field and infrastructure failures as err.
func (p *GuestProcedure) Checkout(ctx context.Context, ip string, req GuestCheckoutRequest) (GuestCheckoutResponse, error) {
	if err := validateGuestRequest(req); err != nil {
		return GuestCheckoutResponse{Error: err.Error()}, nil
	}

	var (
		resp    GuestCheckoutResponse
		limited bool
	)
	err := withTxRetry(ctx, p.db, 3, func(tx *gorm.DB) error {
		resp, limited = GuestCheckoutResponse{}, false

		prev, found, err := findBySubmissionKey(ctx, tx, req.SubmissionKey)
		if err != nil {
			return fmt.Errorf("submission lookup: %w", err)
		}
		if found {
			resp = replayResponse(prev)
			return nil
		}

		allowed, err := p.limiter.Hit(ctx, tx, ip)
		if err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
		if !allowed {
			limited = true
			return nil
		}

		now := p.now()
		prof, err := p.guestProfile(ctx, tx, req, now)
		if err != nil {
			return fmt.Errorf("guest profile: %w", err)
		}

		o := Order{
			OrderNumber:    req.OrderNumber,
			SubmissionKey:  optional(req.SubmissionKey),
			ProfileID:      &prof.ID,
			Phone:          req.Phone,
			FullName:       req.FullName,
			Email:          optional(req.Email),
			Address:        optional(req.Address),
			City:           optional(req.City),
			Notes:          req.Notes,
			DeliveryMethod: req.DeliveryMethod,
			TotalAmount:    req.TotalPrice,
		}
		prepareOrder(&o, now)
		if err := tx.WithContext(ctx).Create(&o).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		items := make([]OrderItem, len(req.Items))
		for i, it := range req.Items {
			items[i] = OrderItem{
				ID:         uuid.NewString(),
				OrderID:    o.ID,
				CookieName: it.Name,
				Quantity:   it.Quantity,
				Price:      it.Price,
				CreatedAt:  now,
			}
		}
		if err := tx.WithContext(ctx).Create(&items).Error; err != nil {
			return fmt.Errorf("insert items: %w", err)
		}

		resp = GuestCheckoutResponse{Success: true, OrderID: o.ID, ProfileID: prof.ID}
		return nil
	})
	if err != nil && req.SubmissionKey != "" && IsDuplicateKey(err) {
		// A concurrent submission of the same cart won the insert.
		prev, ok, lerr := findBySubmissionKey(ctx, p.db, req.SubmissionKey)
		if lerr == nil && ok {
			return replayResponse(prev), nil
		}
	}
	if err != nil {
		return GuestCheckoutResponse{}, err
	}
	if resp.Replayed {
		p.log.InfoContext(ctx, "guest checkout replayed", "order_id", resp.OrderID)
	}
	if limited {
		p.log.WarnContext(ctx, "guest checkout rate limited", "ip", ip)
		return GuestCheckoutResponse{Error: RateLimitError}, nil
	}
	return resp, nil
}

// guestProfile reuses the guest profile registered with the phone or creates one.
func (p *GuestProcedure) guestProfile(ctx context.Context, tx *gorm.DB, req GuestCheckoutRequest, now time.Time) (profiles.Profile, error) {
	prof, err := p.profiles.FindGuestByPhone(ctx, tx, req.Phone)
	if err == nil {
		return prof, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return profiles.Profile{}, err
	}

	prof = newGuestProfile(req, now)
	return prof, tx.WithContext(ctx).Create(&prof).Error
}

func newGuestProfile(req GuestCheckoutRequest, now time.Time) profiles.Profile {
	return profiles.Profile{
		ID:        uuid.NewString(),
		Phone:     req.Phone,
		FullName:  optional(req.FullName),
		Address:   optional(req.Address),
		City:      optional(req.City),
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func replayResponse(o Order) GuestCheckoutResponse {
	resp := GuestCheckoutResponse{Success: true, OrderID: o.ID, Replayed: true}
	if o.ProfileID != nil {
		resp.ProfileID = *o.ProfileID
	}
	return resp
}

func validateGuestRequest(req GuestCheckoutRequest) error {
	if strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.FullName) == "" {
		return errors.New("missing customer details")
	}
	if len(req.Items) == 0 {
		return ErrCartEmpty
	}
	for _, it := range req.Items {
		if strings.TrimSpace(it.Name) == "" || it.Quantity < 1 || it.Price < 0 {
			return ErrInvalidItem
		}
	}
	if req.TotalPrice < 0 {
		return errors.New("invalid total")
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
