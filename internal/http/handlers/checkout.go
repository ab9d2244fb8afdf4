package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/http/cartcookie"
	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/render"
	"ugiot.co.il/app/internal/modules/cart"
	"ugiot.co.il/app/internal/modules/checkout"
	"ugiot.co.il/app/internal/modules/pricing"
	"ugiot.co.il/app/pkg/view"
)

type CheckoutSubmitter interface {
	Submit(ctx context.Context, in checkout.SubmitInput) (checkout.Confirmation, error)
}

type CheckoutHandler struct {
	CK  *cartcookie.Codec
	Svc CheckoutSubmitter
}

func NewCheckoutHandler(ck *cartcookie.Codec, svc CheckoutSubmitter) *CheckoutHandler {
	return &CheckoutHandler{CK: ck, Svc: svc}
}

// Summary handles GET /api/checkout/summary?delivery=pickup|delivery.
func (h *CheckoutHandler) Summary(c *gin.Context) {
	ct := h.CK.Load(c)
	render.OK(c, cart.Summary(ct, pricing.DeliveryMethod(c.Query("delivery"))))
}

// Submit handles POST /api/checkout. On success the cart cookie is removed and
// the browser receives the WhatsApp links to open. Resubmitting a cart that
// already became an order answers 200 with that order and no links.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var form checkout.Form
	if err := render.Decode(c, &form); err != nil {
		middleware.Fail(c, err)
		return
	}

	in := checkout.SubmitInput{
		Form:     form,
		Cart:     h.CK.Load(c),
		ClientIP: c.ClientIP(),
		Lang:     middleware.GetLang(c),
	}
	if u, ok := middleware.CurrentUser(c); ok {
		in.UserID = u.ID
	}

	conf, err := h.Svc.Submit(c.Request.Context(), in)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	h.CK.Clear(c)

	vm := view.OrderConfirmation{
		OrderNumber:  conf.OrderNumber,
		OrderID:      conf.OrderID,
		CustomerName: conf.CustomerName,
		TotalPrice:   conf.TotalPrice,
		TotalLabel:   pricing.Label(conf.TotalPrice),
		Replayed:     conf.Replayed,
		Links:        make([]view.NotificationLink, 0, len(conf.Links)),
		Flash: view.Flash{
			Kind:    view.FlashSuccess,
			Message: render.Msg(c, "ההזמנה התקבלה בהצלחה!", "Your order was placed successfully!"),
		},
	}
	for _, l := range conf.Links {
		vm.Links = append(vm.Links, view.NotificationLink{
			Channel: l.Channel,
			To:      l.To,
			URL:     l.URL,
			DelayMS: l.Delay.Milliseconds(),
		})
	}
	status := http.StatusCreated
	if conf.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, render.Envelope{Data: vm, Flash: &vm.Flash})
}
