package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ActionConfirm  = "confirm"
	ActionReady    = "ready"
	ActionComplete = "complete"
	ActionCancel   = "cancel"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService { return &AdminService{db: db} }

type TransitionInput struct {
	OrderID     string
	ActorUserID string // admin user id
	Action      string // confirm|ready|complete|cancel
	Note        string
}

// Transition moves an order along pending→confirmed→ready→completed (or cancels it)
// and writes an audit event in the same transaction. It returns the new status.
func (s *AdminService) Transition(ctx context.Context, in TransitionInput) (string, error) {
	if in.OrderID == "" || in.ActorUserID == "" || in.Action == "" {
		return "", ErrNotActionable
	}

	var to string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&o, "id = ?", in.OrderID).Error; err != nil {
			return err
		}

		from := o.Status
		next, err := NextStatus(from, in.Action)
		if err != nil {
			return err
		}
		to = next

		now := time.Now()
		if err := tx.WithContext(ctx).
			Model(&Order{}).
			Where("id = ? AND status = ?", o.ID, from).
			Updates(map[string]any{"status": to, "updated_at": now}).Error; err != nil {
			return err
		}

		var notePtr *string
		if n := strings.TrimSpace(in.Note); n != "" {
			notePtr = &n
		}
		ev := OrderEvent{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			ActorUserID: in.ActorUserID,
			Action:      in.Action,
			FromStatus:  from,
			ToStatus:    to,
			Note:        notePtr,
			Meta:        datatypes.JSON(fmt.Appendf(nil, `{"total_amount":%d}`, o.TotalAmount)),
			CreatedAt:   now,
		}
		return tx.WithContext(ctx).Create(&ev).Error
	})
	return to, err
}

// NextStatus is the admin order workflow.
func NextStatus(from, action string) (string, error) {
	switch action {
	case ActionConfirm:
		if from == StatusPending {
			return StatusConfirmed, nil
		}
	case ActionReady:
		if from == StatusConfirmed {
			return StatusReady, nil
		}
	case ActionComplete:
		if from == StatusReady {
			return StatusCompleted, nil
		}
	case ActionCancel:
		if from == StatusPending || from == StatusConfirmed {
			return StatusCancelled, nil
		}
	}
	return "", ErrInvalidTransition
}
