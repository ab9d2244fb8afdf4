package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/render"
	"ugiot.co.il/app/internal/modules/orders"
	"ugiot.co.il/app/internal/modules/pricing"
	"ugiot.co.il/app/internal/modules/profiles"
	"ugiot.co.il/app/internal/shared/apperr"
	"ugiot.co.il/app/pkg/view"
)

type CustomerOrders interface {
	ListForCustomer(ctx context.Context, in orders.ListParams) (orders.ListResult, error)
	GetWithItems(ctx context.Context, id string) (orders.Order, []orders.OrderItem, error)
}

type AccountOrdersHandler struct {
	orders   CustomerOrders
	profiles ProfileStore
	cache    *profiles.Cache
}

func NewAccountOrdersHandler(o CustomerOrders, p ProfileStore, cache *profiles.Cache) *AccountOrdersHandler {
	return &AccountOrdersHandler{orders: o, profiles: p, cache: cache}
}

const accountOrdersPageSize = 20

// List handles GET /api/account/orders?page=&status=.
func (h *AccountOrdersHandler) List(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	profileID, err := h.profileID(c.Request.Context(), user.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	page := max(parseInt(c.Query("page"), 1), 1)
	status := strings.TrimSpace(c.Query("status"))

	result, err := h.orders.ListForCustomer(c.Request.Context(), orders.ListParams{
		UserID:    user.ID,
		ProfileID: profileID,
		Page:      page,
		PageSize:  accountOrdersPageSize,
		Status:    status,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]view.AccountOrderListItem, len(result.Items))
	for i, it := range result.Items {
		items[i] = view.AccountOrderListItem{
			ID:         it.Order.ID,
			CreatedAt:  it.Order.CreatedAt,
			Status:     it.Order.Status,
			Total:      it.Order.TotalAmount,
			TotalLabel: pricing.Label(it.Order.TotalAmount),
			ItemCount:  it.Count,
		}
	}

	render.OK(c, view.AccountOrdersPage{
		Items:        items,
		Total:        result.Total,
		Page:         page,
		PageSize:     accountOrdersPageSize,
		PagesTotal:   view.PagesTotal(result.Total, accountOrdersPageSize),
		FilterStatus: status,
	})
}

// Detail handles GET /api/account/orders/:id. Orders of other customers are
// reported as missing.
func (h *AccountOrdersHandler) Detail(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	notFound := apperr.NotFoundErr(render.Msg(c, "ההזמנה לא נמצאה.", "Order not found."))

	o, items, err := h.orders.GetWithItems(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		middleware.Fail(c, notFound)
		return
	}
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	owned := o.UserID != nil && *o.UserID == user.ID
	if !owned && o.ProfileID != nil {
		pid, err := h.profileID(c.Request.Context(), user.ID)
		if err != nil {
			middleware.Fail(c, apperr.Wrap(err))
			return
		}
		owned = pid != "" && pid == *o.ProfileID
	}
	if !owned {
		middleware.Fail(c, notFound)
		return
	}

	render.OK(c, OrderDetailView(o, items))
}

func (h *AccountOrdersHandler) profileID(ctx context.Context, userID string) (string, error) {
	if p, ok := h.cache.Get(userID); ok {
		return p.ID, nil
	}
	p, err := h.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	h.cache.Put(userID, p)
	return p.ID, nil
}

// OrderDetailView maps a stored order to its JSON view.
func OrderDetailView(o orders.Order, items []orders.OrderItem) view.OrderDetail {
	vm := view.OrderDetail{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		Delivery:    o.DeliveryMethod,
		FullName:    o.FullName,
		Phone:       o.Phone,
		Address:     view.PtrStr(o.Address),
		City:        view.PtrStr(o.City),
		Notes:       view.PtrStr(o.Notes),
		Total:       o.TotalAmount,
		TotalLabel:  pricing.Label(o.TotalAmount),
		CreatedAt:   o.CreatedAt,
		Items:       make([]view.OrderItem, 0, len(items)),
	}
	for _, it := range items {
		vm.Items = append(vm.Items, view.OrderItem{
			Name:      it.CookieName,
			Quantity:  it.Quantity,
			Price:     it.Price,
			LineTotal: it.Price * it.Quantity,
		})
	}
	return vm
}
