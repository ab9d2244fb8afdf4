package admin

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ugiot.co.il/app/internal/http/handlers"
	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/render"
	"ugiot.co.il/app/internal/modules/orders"
	"ugiot.co.il/app/internal/modules/pricing"
	"ugiot.co.il/app/internal/shared/apperr"
	"ugiot.co.il/app/pkg/view"
)

type OrderLister interface {
	AdminList(ctx context.Context, in orders.AdminListParams) (orders.AdminListResult, error)
	AdminGetDetail(ctx context.Context, orderID string) (orders.Order, []orders.OrderItem, []orders.OrderEvent, error)
}

type Transitioner interface {
	Transition(ctx context.Context, in orders.TransitionInput) (string, error)
}

type OrdersHandler struct {
	Repo OrderLister
	Svc  Transitioner
}

func NewOrdersHandler(repo OrderLister, svc Transitioner) *OrdersHandler {
	return &OrdersHandler{Repo: repo, Svc: svc}
}

const adminPageSize = 30

// List handles GET /api/admin/orders?q=&status=&delivery=&from=&to=&page=.
// from and to are calendar days (YYYY-MM-DD, UTC); to is inclusive.
func (h *OrdersHandler) List(c *gin.Context) {
	in := orders.AdminListParams{
		Q:        strings.TrimSpace(c.Query("q")),
		Status:   strings.TrimSpace(c.Query("status")),
		Delivery: strings.TrimSpace(c.Query("delivery")),
		Page:     parseInt(c.Query("page"), 1),
		PageSize: adminPageSize,
	}
	var ok bool
	if in.From, ok = parseDay(c.Query("from")); !ok {
		middleware.Fail(c, badDay(c, "from"))
		return
	}
	if in.To, ok = parseDay(c.Query("to")); !ok {
		middleware.Fail(c, badDay(c, "to"))
		return
	}
	if !in.To.IsZero() {
		in.To = in.To.AddDate(0, 0, 1)
	}

	res, err := h.Repo.AdminList(c.Request.Context(), in)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]view.AdminOrderListItem, 0, len(res.Items))
	for _, o := range res.Items {
		items = append(items, view.AdminOrderListItem{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			Status:      o.Status,
			FullName:    o.FullName,
			Phone:       o.Phone,
			Delivery:    o.DeliveryMethod,
			Total:       pricing.Label(o.TotalAmount),
			CreatedAt:   o.CreatedAt.Format("2006-01-02 15:04"),
			ProfileID:   view.PtrStr(o.ProfileID),
		})
	}

	render.OK(c, view.AdminOrdersListPage{
		Items:      items,
		Q:          in.Q,
		Status:     in.Status,
		Delivery:   in.Delivery,
		Counts:     res.ByStatus,
		Page:       in.Page,
		TotalPages: view.PagesTotal(res.Total, adminPageSize),
	})
}

func parseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.DateOnly, s)
	return t, err == nil
}

func badDay(c *gin.Context, field string) error {
	msg := render.Msg(c, "תאריך לא תקין (YYYY-MM-DD).", "Invalid date (YYYY-MM-DD).")
	return apperr.InvalidErr(msg, map[string]string{field: msg})
}

// Detail handles GET /api/admin/orders/:id with the audit trail.
func (h *OrdersHandler) Detail(c *gin.Context) {
	o, items, ev, err := h.Repo.AdminGetDetail(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		middleware.Fail(c, apperr.NotFoundErr(render.Msg(c, "ההזמנה לא נמצאה.", "Order not found.")))
		return
	}
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	vm := view.AdminOrderDetail{
		Order:  handlers.OrderDetailView(o, items),
		Events: make([]view.AdminOrderEvent, 0, len(ev)),
	}
	for _, e := range ev {
		vm.Events = append(vm.Events, view.AdminOrderEvent{
			Action:      e.Action,
			From:        e.FromStatus,
			To:          e.ToStatus,
			ActorUserID: e.ActorUserID,
			Note:        view.PtrStr(e.Note),
			At:          e.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	render.OK(c, vm)
}

type transitionInput struct {
	Action string `json:"action" validate:"required,oneof=confirm ready complete cancel"`
	Note   string `json:"note" validate:"max=500"`
}

// Transition handles POST /api/admin/orders/:id/transition.
func (h *OrdersHandler) Transition(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	var in transitionInput
	if err := render.Bind(c, &in); err != nil {
		middleware.Fail(c, err)
		return
	}

	to, err := h.Svc.Transition(c.Request.Context(), orders.TransitionInput{
		OrderID:     c.Param("id"),
		ActorUserID: u.ID,
		Action:      in.Action,
		Note:        in.Note,
	})
	switch {
	case err == nil:
		render.OK(c, gin.H{"id": c.Param("id"), "status": to})
	case errors.Is(err, gorm.ErrRecordNotFound):
		middleware.Fail(c, apperr.NotFoundErr(render.Msg(c, "ההזמנה לא נמצאה.", "Order not found.")))
	case errors.Is(err, orders.ErrInvalidTransition), errors.Is(err, orders.ErrNotActionable):
		middleware.Fail(c, &apperr.AppError{
			Kind:      apperr.Conflict,
			PublicMsg: render.Msg(c, "לא ניתן לבצע פעולה זו בסטטוס הנוכחי.", "This action is not allowed in the current status."),
			Err:       err,
		})
	default:
		middleware.Fail(c, apperr.Wrap(err))
	}
}

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
