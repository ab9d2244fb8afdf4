package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/modules/cart"
	"ugiot.co.il/app/internal/modules/email"
	"ugiot.co.il/app/internal/modules/notifications"
	"ugiot.co.il/app/internal/modules/orders"
	"ugiot.co.il/app/internal/modules/pricing"
	"ugiot.co.il/app/internal/shared/apperr"
)

type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateResolvingProfile State = "resolving_profile"
	StatePersistingOrder  State = "persisting_order"
	StateNotifying        State = "notifying"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// CustomerLinkDelay staggers the customer WhatsApp link after the owner's so
// browsers do not block the second popup.
const CustomerLinkDelay = time.Second

type OrderStore interface {
	InsertOrder(ctx context.Context, o *orders.Order) error
	InsertItems(ctx context.Context, items []orders.OrderItem) error
	FindBySubmissionKey(ctx context.Context, key string) (orders.Order, bool, error)
}

type GuestCheckout interface {
	Checkout(ctx context.Context, ip string, req orders.GuestCheckoutRequest) (orders.GuestCheckoutResponse, error)
}

type ConfirmationMailer interface {
	SendOrderConfirmation(ctx context.Context, in email.OrderConfirmation) error
}

type NotificationLog interface {
	Record(ctx context.Context, e notifications.Entry)
}

type Deps struct {
	Reconciler  *Reconciler
	Orders      OrderStore
	Guest       GuestCheckout
	Mailer      ConfirmationMailer
	NotifyLog   NotificationLog     // optional
	Opener      notifications.Opener // optional, receives links besides the confirmation
	OwnerNumber string
	Log         *slog.Logger
	OnState     func(State) // optional
}

type Service struct {
	d Deps
}

func NewService(d Deps) *Service {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.OwnerNumber == "" {
		d.OwnerNumber = notifications.DefaultOwnerNumber
	}
	return &Service{d: d}
}

type SubmitInput struct {
	Form     Form
	Cart     *cart.Cart
	UserID   string // empty for guests
	ClientIP string
	Lang     validation.Lang
}

type Confirmation struct {
	OrderNumber  string
	OrderID      string
	ProfileID    string
	CustomerName string
	TotalPrice   int
	Totals       pricing.Totals
	Links        []notifications.Link
	// Replayed marks a resubmitted cart whose order already exists. No
	// notifications are sent for it.
	Replayed bool
}

// Submit runs one checkout attempt and clears in.Cart on success. Only
// validation, profile and persistence failures are returned; notification
// failures are logged. A cart carries one submission key, so submitting it
// again returns the first order instead of creating another.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Confirmation, error) {
	run := &submission{s: s, ctx: ctx, log: s.d.Log.With("order_number", orderNumberOf(in.Cart)), state: StateIdle}

	run.enter(StateValidating)
	if in.Cart == nil || in.Cart.IsEmpty() {
		run.enter(StateIdle)
		return Confirmation{}, &apperr.AppError{Kind: apperr.Invalid, PublicMsg: cartEmptyMsg(in.Lang), Err: orders.ErrCartEmpty}
	}
	in.Form.Normalize()
	if errs := in.Form.Validate(in.Lang); len(errs) > 0 {
		run.enter(StateIdle)
		return Confirmation{}, &apperr.AppError{
			Kind:      apperr.Invalid,
			PublicMsg: errs[0].Message,
			Fields:    validation.ToMap(errs),
			Err:       fmt.Errorf("%w: %s", ErrValidation, errs[0].Field),
		}
	}

	lines := linesFromCart(in.Cart)
	totals := pricing.QuoteFor(in.Cart.TotalItems(), in.Form.DeliveryMethod)
	conf := Confirmation{
		OrderNumber:  in.Cart.OrderNumber,
		CustomerName: in.Form.FullName,
		TotalPrice:   totals.Total,
		Totals:       totals,
	}

	prev, found, err := s.d.Orders.FindBySubmissionKey(ctx, in.Cart.SubmissionKey)
	switch {
	case err != nil:
		err = apperr.WrapMsg(fmt.Errorf("submission lookup: %w", err), genericMsg(in.Lang))
	case found:
		err = replayed(prev, in, &conf)
	case in.UserID != "":
		err = s.persistAuthenticated(run, in, lines, &conf)
	default:
		err = s.persistGuest(run, in, lines, &conf)
	}
	if err != nil {
		run.fail(err)
		return Confirmation{}, err
	}

	if conf.Replayed {
		run.log.InfoContext(ctx, "checkout replayed", "order_id", conf.OrderID)
	} else {
		run.enter(StateNotifying)
		conf.Links = s.notify(ctx, run.log, in, lines, conf)
	}

	in.Cart.Clear()
	run.enter(StateDone)
	return conf, nil
}

func (s *Service) persistAuthenticated(run *submission, in SubmitInput, lines []Line, conf *Confirmation) error {
	ctx := run.ctx

	run.enter(StateResolvingProfile)
	dec, err := s.d.Reconciler.Resolve(ctx, ReconcileInput{UserID: in.UserID, Form: in.Form})
	if err != nil {
		return apperr.WrapMsg(err, genericMsg(in.Lang))
	}
	run.log.InfoContext(ctx, "profile resolved", "action", dec.Action, "profile_id", dec.ProfileID)

	run.enter(StatePersistingOrder)
	f := in.Form
	userID, profileID := in.UserID, dec.ProfileID
	o := orders.Order{
		OrderNumber:    conf.OrderNumber,
		ProfileID:      &profileID,
		UserID:         &userID,
		Phone:          f.Phone,
		FullName:       f.FullName,
		Email:          &f.Email,
		Address:        nonEmpty(f.Address),
		City:           nonEmpty(f.City),
		Notes:          f.notesPtr(),
		DeliveryMethod: string(f.DeliveryMethod),
		TotalAmount:    conf.TotalPrice,
		SubmissionKey:  nonEmpty(in.Cart.SubmissionKey),
	}
	if err := s.d.Orders.InsertOrder(ctx, &o); err != nil {
		if o.SubmissionKey != nil && orders.IsDuplicateKey(err) {
			// Lost the race against a concurrent submission of the same cart.
			prev, found, lerr := s.d.Orders.FindBySubmissionKey(ctx, *o.SubmissionKey)
			if lerr == nil && found {
				return replayed(prev, in, conf)
			}
		}
		return apperr.WrapMsg(fmt.Errorf("insert order: %w", err), genericMsg(in.Lang))
	}

	items := make([]orders.OrderItem, len(lines))
	for i, ln := range lines {
		items[i] = orders.OrderItem{OrderID: o.ID, CookieName: ln.Name, Quantity: ln.Quantity, Price: ln.Price}
	}
	// The order stands even when its lines fail to persist.
	if err := s.d.Orders.InsertItems(ctx, items); err != nil {
		run.log.ErrorContext(ctx, "order items insert failed", "order_id", o.ID, "err", err)
	}

	conf.OrderID, conf.ProfileID = o.ID, profileID
	return nil
}

func (s *Service) persistGuest(run *submission, in SubmitInput, lines []Line, conf *Confirmation) error {
	ctx := run.ctx
	run.enter(StatePersistingOrder)

	f := in.Form
	req := orders.GuestCheckoutRequest{
		FullName:       f.FullName,
		Email:          f.Email,
		Phone:          f.Phone,
		Address:        f.Address,
		City:           f.City,
		Notes:          f.notesPtr(),
		Items:          make([]orders.GuestItem, len(lines)),
		TotalPrice:     conf.TotalPrice,
		OrderNumber:    conf.OrderNumber,
		DeliveryMethod: string(f.DeliveryMethod),
		SubmissionKey:  in.Cart.SubmissionKey,
	}
	for i, ln := range lines {
		req.Items[i] = orders.GuestItem{Name: ln.Name, Quantity: ln.Quantity, Price: ln.Price}
	}

	resp, err := s.d.Guest.Checkout(ctx, in.ClientIP, req)
	if err != nil {
		return apperr.WrapMsg(fmt.Errorf("guest checkout: %w", err), genericMsg(in.Lang))
	}
	if resp.Error != "" {
		cause := fmt.Errorf("guest checkout: %s", resp.Error)
		if IsRateLimit(resp.Error) {
			return apperr.RateLimitedErr(rateLimitMsg(in.Lang), cause)
		}
		return apperr.WrapMsg(cause, genericMsg(in.Lang))
	}
	if !resp.Success {
		return apperr.WrapMsg(ErrGuestUnconfirmed, genericMsg(in.Lang))
	}

	conf.OrderID, conf.ProfileID = resp.OrderID, resp.ProfileID
	conf.Replayed = resp.Replayed
	return nil
}

// replayed fills conf from the order an earlier submission of the same cart
// created. A key replayed by another account is refused.
func replayed(prev orders.Order, in SubmitInput, conf *Confirmation) error {
	owner := ""
	if prev.UserID != nil {
		owner = *prev.UserID
	}
	if owner != in.UserID {
		return &apperr.AppError{
			Kind:      apperr.Conflict,
			PublicMsg: alreadySubmittedMsg(in.Lang),
			Err:       fmt.Errorf("%w: order %s", ErrAlreadySubmitted, prev.ID),
		}
	}
	conf.OrderNumber, conf.OrderID = prev.OrderNumber, prev.ID
	conf.CustomerName, conf.TotalPrice = prev.FullName, prev.TotalAmount
	if prev.ProfileID != nil {
		conf.ProfileID = *prev.ProfileID
	}
	conf.Replayed = true
	return nil
}

// notify sends the confirmation email, then opens the owner link and the
// delayed customer link. Each step is independent of the others.
func (s *Service) notify(ctx context.Context, log *slog.Logger, in SubmitInput, lines []Line, conf Confirmation) []notifications.Link {
	details := OrderDetails(lines)
	msg := messageData{OrderNumber: conf.OrderNumber, Form: in.Form, Details: details, Totals: conf.Totals}

	mailErr := s.d.Mailer.SendOrderConfirmation(ctx, email.OrderConfirmation{
		CustomerName:  in.Form.FullName,
		CustomerEmail: in.Form.Email,
		CustomerPhone: in.Form.Phone,
		OrderDetails:  details,
		TotalPrice:    conf.TotalPrice,
		OrderNumber:   conf.OrderNumber,
	})
	if mailErr != nil {
		log.WarnContext(ctx, "confirmation email failed", "err", mailErr)
	}
	s.record(ctx, notifications.Entry{
		OrderID: conf.OrderID, Channel: notifications.ChannelEmail, Recipient: in.Form.Email, Err: mailErr,
		Payload: map[string]any{"order_number": conf.OrderNumber, "total": conf.TotalPrice},
	})

	col := notifications.NewCollector()
	opener := notifications.Multi(col, s.d.Opener)

	customer := notifications.CustomerNumber(in.Form.Phone)
	for _, l := range []notifications.Link{
		{Channel: notifications.ChannelWhatsApp, To: s.d.OwnerNumber, URL: notifications.WhatsAppLink(s.d.OwnerNumber, ownerMessage(msg))},
		{Channel: notifications.ChannelWhatsApp, To: customer, URL: notifications.WhatsAppLink(customer, customerMessage(msg)), Delay: CustomerLinkDelay},
	} {
		err := opener.Open(ctx, l)
		if err != nil {
			log.WarnContext(ctx, "whatsapp link failed", "to", l.To, "err", err)
		}
		s.record(ctx, notifications.Entry{
			OrderID: conf.OrderID, Channel: l.Channel, Recipient: l.To, Err: err,
			Payload: map[string]any{"delay_ms": l.Delay.Milliseconds()},
		})
	}
	return col.Links()
}

func (s *Service) record(ctx context.Context, e notifications.Entry) {
	if s.d.NotifyLog != nil {
		s.d.NotifyLog.Record(ctx, e)
	}
}

// submission tracks one Submit call through the state machine.
type submission struct {
	s     *Service
	ctx   context.Context
	log   *slog.Logger
	state State
}

func (r *submission) enter(st State) {
	r.log.DebugContext(r.ctx, "checkout state", "from", r.state, "to", st)
	r.state = st
	if r.s.d.OnState != nil {
		r.s.d.OnState(st)
	}
}

func (r *submission) fail(err error) {
	r.log.ErrorContext(r.ctx, "checkout failed", "state", r.state, "err", err)
	r.enter(StateFailed)
}

func orderNumberOf(c *cart.Cart) string {
	if c == nil {
		return ""
	}
	return c.OrderNumber
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
