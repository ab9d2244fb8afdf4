package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ugiot.co.il/app/internal/http/cartcookie"
	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/modules/auth"
	"ugiot.co.il/app/internal/modules/cart"
	"ugiot.co.il/app/internal/modules/checkout"
	"ugiot.co.il/app/internal/modules/email"
	"ugiot.co.il/app/internal/modules/notifications"
	"ugiot.co.il/app/internal/modules/orders"
	"ugiot.co.il/app/internal/modules/products"
	"ugiot.co.il/app/internal/modules/profiles"
	"ugiot.co.il/app/internal/shared/apperr"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSessions map[string]auth.User

func (f fakeSessions) Authenticate(_ context.Context, token string) (auth.User, error) {
	if u, ok := f[token]; ok {
		return u, nil
	}
	return auth.User{}, gorm.ErrRecordNotFound
}

var testSessions = fakeSessions{
	"tok-customer": {ID: "user-1", Email: "dana@example.com", Role: auth.RoleCustomer},
	"tok-admin":    {ID: "admin-1", Email: "owner@example.com", Role: auth.RoleAdmin},
}

func testSessionCfg() middleware.SessionCfg {
	return middleware.SessionCfg{Auth: testSessions, CookieName: "ugiot_session", TTL: time.Hour}
}

func testCK() *cartcookie.Codec {
	return cartcookie.New([]byte("0123456789abcdef0123456789abcdef"), "ugiot_cart", false)
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Lang(validation.He),
		middleware.ErrorHandler(discard),
		middleware.SessionMiddleware(testSessionCfg()),
		middleware.CartCount(testCK()),
	)
	return r
}

type client struct {
	t       *testing.T
	r       *gin.Engine
	cookies map[string]*http.Cookie
	lang    string
}

func newClient(t *testing.T, r *gin.Engine) *client {
	return &client{t: t, r: r, cookies: map[string]*http.Cookie{}}
}

func (c *client) login(token string) {
	c.cookies["ugiot_session"] = &http.Cookie{Name: "ugiot_session", Value: token}
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.lang != "" {
		req.Header.Set("Accept-Language", c.lang)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Flash *struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"flash"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// --- cart ---

type fakeCatalog map[string]cart.Item

func (f fakeCatalog) CartItem(_ context.Context, slug string) (cart.Item, error) {
	it, ok := f[slug]
	if !ok {
		return cart.Item{}, products.ErrNotFound
	}
	return it, nil
}

func cartEngine() *gin.Engine {
	r := newEngine()
	h := NewCartHandler(testCK(), fakeCatalog{
		"lotus":   {Name: "לוטוס", Price: "₪25", Image: "/uploads/cookies/lotus.webp"},
		"nutella": {Name: "נוטלה", Price: "₪20"},
	}, func() string { return "12345678" })
	r.GET("/api/cart", h.Get)
	r.GET("/api/cart/count", h.Count)
	r.POST("/api/cart/items", h.Add)
	r.PATCH("/api/cart/items/:name", h.Update)
	r.DELETE("/api/cart/items/:name", h.Remove)
	r.DELETE("/api/cart", h.Clear)
	return r
}

type cartPage struct {
	Items []struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
	OrderNumber string `json:"order_number"`
	Count       int    `json:"count"`
	Total       int    `json:"total"`
	Savings     int    `json:"savings"`
	DeliveryFee int    `json:"delivery_fee"`
}

func TestCart_AddAccumulatesInCookie(t *testing.T) {
	c := newClient(t, cartEngine())

	for i := 0; i < 4; i++ {
		w := c.do(http.MethodPost, "/api/cart/items", `{"slug":"lotus"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w := c.do(http.MethodPost, "/api/cart/items", `{"slug":"nutella"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Header().Get(cartcookie.CountHeader))

	var page cartPage
	env := decode(t, w, &page)
	require.NotNil(t, env.Flash)
	assert.Equal(t, "success", env.Flash.Kind)
	assert.Equal(t, "12345678", page.OrderNumber)
	assert.Equal(t, 5, page.Count)
	assert.Equal(t, 105, page.Total)
	assert.Equal(t, 20, page.Savings)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 4, page.Items[0].Quantity)

	w = c.do(http.MethodGet, "/api/cart?delivery=delivery", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	assert.Equal(t, 30, page.DeliveryFee)
	assert.Equal(t, 135, page.Total)

	w = c.do(http.MethodGet, "/api/cart/count", "")
	assert.JSONEq(t, `{"data":{"count":5}}`, w.Body.String())
}

func TestCart_AddRejectsSeventhOfSameCookie(t *testing.T) {
	c := newClient(t, cartEngine())
	for i := 0; i < cart.MaxPerItem; i++ {
		require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/cart/items", `{"slug":"lotus"}`).Code)
	}
	w := c.do(http.MethodPost, "/api/cart/items", `{"slug":"lotus"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Contains(t, env.Fields, "quantity")
}

func TestCart_AddUnknownSlug(t *testing.T) {
	c := newClient(t, cartEngine())
	w := c.do(http.MethodPost, "/api/cart/items", `{"slug":"missing"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.do(http.MethodPost, "/api/cart/items", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w, nil).Fields, "slug")
}

func TestCart_UpdateAndRemove(t *testing.T) {
	c := newClient(t, cartEngine())
	c.do(http.MethodPost, "/api/cart/items", `{"slug":"lotus"}`)
	c.do(http.MethodPost, "/api/cart/items", `{"slug":"nutella"}`)
	lotus := "/api/cart/items/" + url.PathEscape("לוטוס")
	nutella := "/api/cart/items/" + url.PathEscape("נוטלה")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		count  string
	}{
		{"set quantity", http.MethodPatch, lotus, `{"quantity":3}`, http.StatusOK, "4"},
		{"over max", http.MethodPatch, lotus, `{"quantity":7}`, http.StatusBadRequest, ""},
		{"missing quantity", http.MethodPatch, lotus, `{}`, http.StatusBadRequest, ""},
		{"zero removes", http.MethodPatch, nutella, `{"quantity":0}`, http.StatusOK, "3"},
		{"absent line", http.MethodDelete, nutella, "", http.StatusNotFound, ""},
		{"remove", http.MethodDelete, lotus, "", http.StatusOK, "0"},
	}
	for _, tt := range tests {
		w := c.do(tt.method, tt.path, tt.body)
		assert.Equal(t, tt.status, w.Code, tt.name+": "+w.Body.String())
		if tt.count != "" {
			assert.Equal(t, tt.count, w.Header().Get(cartcookie.CountHeader), tt.name)
		}
	}
	w := c.do(http.MethodGet, "/api/cart", "")
	var page cartPage
	decode(t, w, &page)
	assert.Zero(t, page.Count)
	assert.Equal(t, "12345678", page.OrderNumber, "emptied cart keeps its order number")
}

func TestCart_EmptiedCartReusesOrderNumber(t *testing.T) {
	r := newEngine()
	numbers := []string{"11111111", "22222222"}
	calls := 0
	h := NewCartHandler(testCK(), fakeCatalog{"lotus": {Name: "לוטוס", Price: "₪25"}}, func() string {
		calls++
		return numbers[calls-1]
	})
	r.POST("/api/cart/items", h.Add)
	r.PATCH("/api/cart/items/:name", h.Update)

	c := newClient(t, r)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/cart/items", `{"slug":"lotus"}`).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPatch, "/api/cart/items/"+url.PathEscape("לוטוס"), `{"quantity":0}`).Code)
	w := c.do(http.MethodPost, "/api/cart/items", `{"slug":"lotus"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var page cartPage
	decode(t, w, &page)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "11111111", page.OrderNumber)
}

func TestCart_ClearDropsOrderNumber(t *testing.T) {
	c := newClient(t, cartEngine())
	c.do(http.MethodPost, "/api/cart/items", `{"slug":"lotus"}`)

	w := c.do(http.MethodDelete, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page cartPage
	decode(t, w, &page)
	assert.Empty(t, page.OrderNumber)
	assert.Zero(t, page.Count)
}

// --- checkout ---

type fakeSubmitter struct {
	got      checkout.SubmitInput
	gotItems int
	err      error
	conf     checkout.Confirmation
}

func (f *fakeSubmitter) Submit(_ context.Context, in checkout.SubmitInput) (checkout.Confirmation, error) {
	f.got = in
	f.gotItems = in.Cart.TotalItems()
	if f.err != nil {
		return checkout.Confirmation{}, f.err
	}
	in.Cart.Clear()
	return f.conf, nil
}

func checkoutEngine(sub *fakeSubmitter) *gin.Engine {
	r := cartEngine()
	h := NewCheckoutHandler(testCK(), sub)
	r.GET("/api/checkout/summary", h.Summary)
	r.POST("/api/checkout", h.Submit)
	return r
}

const checkoutBody = `{"full_name":"דנה כהן","email":"dana@example.com","phone":"050-1234567","delivery_method":"pickup"}`

func TestCheckout_SubmitGuest(t *testing.T) {
	sub := &fakeSubmitter{conf: checkout.Confirmation{
		OrderNumber:  "12345678",
		OrderID:      "order-1",
		CustomerName: "דנה כהן",
		TotalPrice:   50,
		Links: []notifications.Link{
			{Channel: notifications.ChannelWhatsApp, To: "972528882929", URL: "https://wa.me/972528882929?text=x"},
			{Channel: notifications.ChannelWhatsApp, To: "972501234567", URL: "https://wa.me/972501234567?text=y", Delay: checkout.CustomerLinkDelay},
		},
	}}
	c := newClient(t, checkoutEngine(sub))
	c.do(http.MethodPost, "/api/cart/items", `{"slug":"lotus"}`)
	c.do(http.MethodPost, "/api/cart/items", `{"slug":"lotus"}`)

	w := c.do(http.MethodPost, "/api/checkout", checkoutBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Empty(t, sub.got.UserID)
	assert.Equal(t, 2, sub.gotItems)
	assert.Equal(t, "dana@example.com", sub.got.Form.Email)
	assert.Equal(t, validation.He, sub.got.Lang)

	var conf struct {
		OrderNumber string `json:"order_number"`
		TotalLabel  string `json:"total_label"`
		Links       []struct {
			URL     string `json:"url"`
			DelayMS int64  `json:"delay_ms"`
		} `json:"links"`
	}
	env := decode(t, w, &conf)
	require.NotNil(t, env.Flash)
	assert.Equal(t, "12345678", conf.OrderNumber)
	assert.Equal(t, "₪50", conf.TotalLabel)
	require.Len(t, conf.Links, 2)
	assert.Zero(t, conf.Links[0].DelayMS)
	assert.EqualValues(t, 1000, conf.Links[1].DelayMS)

	_, ok := c.cookies["ugiot_cart"]
	assert.False(t, ok, "cart cookie cleared after order")
	assert.Equal(t, "0", w.Header().Get(cartcookie.CountHeader))
}

func TestCheckout_SubmitAuthenticatedPassesUser(t *testing.T) {
	sub := &fakeSubmitter{conf: checkout.Confirmation{OrderNumber: "1"}}
	c := newClient(t, checkoutEngine(sub))
	c.login("tok-customer")
	c.do(http.MethodPost, "/api/cart/items", `{"slug":"lotus"}`)

	w := c.do(http.MethodPost, "/api/checkout", checkoutBody)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user-1", sub.got.UserID)
}

func TestCheckout_SubmitErrorsKeepCart(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", apperr.InvalidErr("שם לא תקין", map[string]string{"full_name": "שם לא תקין"}), http.StatusBadRequest, "שם לא תקין"},
		{"rate limited", apperr.RateLimitedErr("Too many orders. Please try again later.", nil), http.StatusTooManyRequests, "Too many orders. Please try again later."},
		{"internal", apperr.Wrap(assert.AnError), http.StatusInternalServerError, apperr.DefaultPublicMsg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, checkoutEngine(&fakeSubmitter{err: tt.err}))
			c.do(http.MethodPost, "/api/cart/items", `{"slug":"lotus"}`)

			w := c.do(http.MethodPost, "/api/checkout", checkoutBody)
			assert.Equal(t, tt.status, w.Code)
			env := decode(t, w, nil)
			assert.Equal(t, tt.msg, env.Error)
			_, ok := c.cookies["ugiot_cart"]
			assert.True(t, ok, "cart survives a failed checkout")
		})
	}
}

// memOrders stands in for the orders table and the guest procedure, keyed by
// submission key like the unique index.
type memOrders struct {
	byKey      map[string]orders.Order
	guestCalls int
}

func (m *memOrders) InsertOrder(_ context.Context, o *orders.Order) error {
	o.ID = fmt.Sprintf("order-%d", len(m.byKey)+1)
	m.byKey[*o.SubmissionKey] = *o
	return nil
}

func (m *memOrders) InsertItems(context.Context, []orders.OrderItem) error { return nil }

func (m *memOrders) FindBySubmissionKey(_ context.Context, key string) (orders.Order, bool, error) {
	o, ok := m.byKey[key]
	return o, ok, nil
}

func (m *memOrders) Checkout(ctx context.Context, _ string, req orders.GuestCheckoutRequest) (orders.GuestCheckoutResponse, error) {
	m.guestCalls++
	o := orders.Order{OrderNumber: req.OrderNumber, SubmissionKey: &req.SubmissionKey, FullName: req.FullName, TotalAmount: req.TotalPrice}
	if err := m.InsertOrder(ctx, &o); err != nil {
		return orders.GuestCheckoutResponse{}, err
	}
	return orders.GuestCheckoutResponse{Success: true, OrderID: o.ID}, nil
}

type countingMailer struct{ sent int }

func (m *countingMailer) SendOrderConfirmation(context.Context, email.OrderConfirmation) error {
	m.sent++
	return nil
}

func TestCheckout_ReplayedCartCookieCreatesOneOrder(t *testing.T) {
	store := &memOrders{byKey: map[string]orders.Order{}}
	mailer := &countingMailer{}
	svc := checkout.NewService(checkout.Deps{
		Reconciler: checkout.NewReconciler(nil, profiles.NewCache(time.Hour)),
		Orders:     store,
		Guest:      store,
		Mailer:     mailer,
		Log:        discard,
	})
	r := cartEngine()
	r.POST("/api/checkout", NewCheckoutHandler(testCK(), svc).Submit)

	c := newClient(t, r)
	c.do(http.MethodPost, "/api/cart/items", `{"slug":"lotus"}`)
	stale := *c.cookies["ugiot_cart"]

	type confirmation struct {
		OrderID  string `json:"order_id"`
		Replayed bool   `json:"replayed"`
		Links    []any  `json:"links"`
	}

	w := c.do(http.MethodPost, "/api/checkout", checkoutBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first confirmation
	decode(t, w, &first)
	assert.False(t, first.Replayed)
	assert.Len(t, first.Links, 2)

	for i := 0; i < 2; i++ {
		c.cookies["ugiot_cart"] = &stale
		w = c.do(http.MethodPost, "/api/checkout", checkoutBody)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var again confirmation
		decode(t, w, &again)
		assert.True(t, again.Replayed)
		assert.Equal(t, first.OrderID, again.OrderID)
		assert.Empty(t, again.Links)
	}

	assert.Len(t, store.byKey, 1)
	assert.Equal(t, 1, store.guestCalls)
	assert.Equal(t, 1, mailer.sent)
}

func TestCheckout_MalformedBody(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newClient(t, checkoutEngine(sub))
	c.lang = "en-US"
	w := c.do(http.MethodPost, "/api/checkout", `{"full_name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "The submitted data is invalid.", decode(t, w, nil).Error)
	assert.Nil(t, sub.got.Cart)
}

func TestCheckout_Summary(t *testing.T) {
	c := newClient(t, checkoutEngine(&fakeSubmitter{}))
	for i := 0; i < 8; i++ {
		slug := "lotus"
		if i >= 6 {
			slug = "nutella"
		}
		c.do(http.MethodPost, "/api/cart/items", `{"slug":"`+slug+`"}`)
	}
	w := c.do(http.MethodGet, "/api/checkout/summary?delivery=delivery", "")
	require.Equal(t, http.StatusOK, w.Code)
	var s struct {
		Count       int `json:"count"`
		ItemsTotal  int `json:"items_total"`
		DeliveryFee int `json:"delivery_fee"`
		Total       int `json:"total"`
	}
	decode(t, w, &s)
	assert.Equal(t, 8, s.Count)
	assert.Equal(t, 160, s.ItemsTotal)
	assert.Equal(t, 30, s.DeliveryFee)
	assert.Equal(t, 190, s.Total)
}

// --- auth & account ---

type fakeAuth struct {
	users  map[string]string
	logout string
}

func (f *fakeAuth) Signup(_ context.Context, email, password string) (auth.User, error) {
	if _, ok := f.users[email]; ok {
		return auth.User{}, auth.ErrEmailTaken
	}
	f.users[email] = password
	return auth.User{ID: "new", Email: email, Role: auth.RoleCustomer}, nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (string, auth.User, error) {
	if pw, ok := f.users[email]; !ok || pw != password {
		return "", auth.User{}, auth.ErrInvalidCredentials
	}
	return "tok-customer", auth.User{ID: "user-1", Email: email, Role: auth.RoleCustomer}, nil
}

func (f *fakeAuth) Logout(_ context.Context, token string) error {
	f.logout = token
	return nil
}

func authEngine(fa *fakeAuth) *gin.Engine {
	r := newEngine()
	h := NewAuthHandlers(fa, testSessionCfg())
	r.POST("/api/auth/signup", h.Signup)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", h.Logout)
	r.GET("/api/auth/me", h.Me)
	return r
}

func TestAuth_SignupLoginLogout(t *testing.T) {
	fa := &fakeAuth{users: map[string]string{}}
	c := newClient(t, authEngine(fa))

	w := c.do(http.MethodPost, "/api/auth/signup", `{"email":"Dana@Example.com","password":"secret1","password_confirm":"secret1","return_to":"//evil.com"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sess struct {
		User     middleware.ContextUser `json:"user"`
		ReturnTo string                 `json:"return_to"`
	}
	decode(t, w, &sess)
	assert.Equal(t, "dana@example.com", sess.User.Email)
	assert.Empty(t, sess.ReturnTo)
	assert.Equal(t, "tok-customer", c.cookies["ugiot_session"].Value)

	w = c.do(http.MethodGet, "/api/auth/me", "")
	decode(t, w, &sess)
	assert.Equal(t, "user-1", sess.User.ID)

	w = c.do(http.MethodPost, "/api/auth/signup", `{"email":"dana@example.com","password":"secret1","password_confirm":"secret1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = c.do(http.MethodPost, "/api/auth/logout", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-customer", fa.logout)
	_, ok := c.cookies["ugiot_session"]
	assert.False(t, ok)
}

func TestAuth_LoginFailures(t *testing.T) {
	fa := &fakeAuth{users: map[string]string{"dana@example.com": "secret1"}}
	c := newClient(t, authEngine(fa))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"wrong password", `{"email":"dana@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"email":"x@example.com","password":"secret1"}`, http.StatusUnauthorized},
		{"bad email", `{"email":"dana","password":"secret1"}`, http.StatusBadRequest},
		{"ok with return_to", `{"email":"dana@example.com","password":"secret1","return_to":"/account"}`, http.StatusOK},
	}
	for _, tt := range tests {
		w := c.do(http.MethodPost, "/api/auth/login", tt.body)
		assert.Equal(t, tt.status, w.Code, tt.name)
	}
}

func TestNormalizeReturnTo(t *testing.T) {
	tests := map[string]string{
		"":                    "",
		"/account":            "/account",
		"//evil.com":          "",
		"/\\evil.com":         "",
		"https://evil.com":    "",
		"account":             "",
		"/x?next=http://evil": "",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeReturnTo(in), in)
	}
}

type fakeProfiles struct {
	stored map[string]profiles.Profile
	reads  int
}

func (f *fakeProfiles) GetByUserID(_ context.Context, userID string) (profiles.Profile, error) {
	f.reads++
	p, ok := f.stored[userID]
	if !ok {
		return profiles.Profile{}, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, userID string, in profiles.UpsertRequest) ([]profiles.Profile, error) {
	p := profiles.Profile{ID: "profile-1", UserID: &userID, Phone: in.Phone, FullName: &in.FullName, Address: in.Address, City: in.City}
	f.stored[userID] = p
	return []profiles.Profile{p}, nil
}

func TestAccount_Profile(t *testing.T) {
	store := &fakeProfiles{stored: map[string]profiles.Profile{}}
	cache := profiles.NewCache(time.Minute)
	r := newEngine()
	h := NewAccountHandler(store, cache, nil)
	g := r.Group("/api", middleware.RequireAuth())
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.PutProfile)

	c := newClient(t, r)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/profile", "").Code)

	c.login("tok-customer")
	w := c.do(http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":null}`, w.Body.String())

	w = c.do(http.MethodPut, "/api/profile", `{"full_name":"דנה כהן","phone":"050 123 4567","city":"תל אביב"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var p profiles.Profile
	decode(t, w, &p)
	assert.Equal(t, "0501234567", p.Phone)
	require.NotNil(t, p.City)
	assert.Nil(t, p.Address)

	reads := store.reads
	w = c.do(http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reads, store.reads, "served from cache")

	w = c.do(http.MethodPut, "/api/profile", `{"full_name":"D","phone":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Contains(t, env.Fields, "full_name")
	assert.Contains(t, env.Fields, "phone")
}
