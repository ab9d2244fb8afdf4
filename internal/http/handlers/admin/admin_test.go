package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/modules/auth"
	"ugiot.co.il/app/internal/modules/orders"
	"ugiot.co.il/app/internal/modules/products"
	"ugiot.co.il/app/internal/storage"
	"ugiot.co.il/app/pkg/view"
)

type sessions map[string]auth.User

func (s sessions) Authenticate(_ context.Context, token string) (auth.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return auth.User{}, gorm.ErrRecordNotFound
}

type fakeRepo struct {
	order  orders.Order
	events []orders.OrderEvent
	params orders.AdminListParams
}

func (f *fakeRepo) AdminList(_ context.Context, in orders.AdminListParams) (orders.AdminListResult, error) {
	f.params = in
	return orders.AdminListResult{
		Items:    []orders.Order{f.order},
		Total:    31,
		ByStatus: map[string]int64{orders.StatusPending: 31, orders.StatusCompleted: 4},
	}, nil
}

func (f *fakeRepo) AdminGetDetail(_ context.Context, id string) (orders.Order, []orders.OrderItem, []orders.OrderEvent, error) {
	if id != f.order.ID {
		return orders.Order{}, nil, nil, gorm.ErrRecordNotFound
	}
	items := []orders.OrderItem{{CookieName: "לוטוס", Quantity: 2, Price: 25}}
	return f.order, items, f.events, nil
}

type fakeTransitions struct {
	got orders.TransitionInput
}

func (f *fakeTransitions) Transition(_ context.Context, in orders.TransitionInput) (string, error) {
	f.got = in
	if in.OrderID != "order-1" {
		return "", gorm.ErrRecordNotFound
	}
	return orders.NextStatus(orders.StatusPending, in.Action)
}

type fakeCatalog struct {
	uploaded storage.PutInput
	body     string
}

func (f *fakeCatalog) UploadImage(_ context.Context, slug string, r io.Reader, in storage.PutInput) (view.Product, error) {
	if slug != "lotus" {
		return view.Product{}, products.ErrNotFound
	}
	b, _ := io.ReadAll(r)
	f.uploaded, f.body = in, string(b)
	return view.Product{Slug: slug, Image: "/uploads/cookies/x.png"}, nil
}

func (f *fakeCatalog) SetWeekly(_ context.Context, slug string, pct int) error {
	if slug != "lotus" {
		return products.ErrNotFound
	}
	return nil
}

type fakeReviews struct{}

func (fakeReviews) Approve(_ context.Context, id string) error {
	if id != "r1" {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func newAdminEngine(repo *fakeRepo, tr *fakeTransitions, cat *fakeCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Lang(validation.En),
		middleware.ErrorHandler(log),
		middleware.SessionMiddleware(middleware.SessionCfg{
			Auth: sessions{
				"admin":    {ID: "admin-1", Role: auth.RoleAdmin},
				"customer": {ID: "user-1", Role: auth.RoleCustomer},
			},
			CookieName: "ugiot_session",
			TTL:        time.Hour,
		}),
	)
	oh := NewOrdersHandler(repo, tr)
	ch := NewCatalogHandler(cat, fakeReviews{})
	g := r.Group("/api/admin", middleware.RequireAdmin())
	g.GET("/orders", oh.List)
	g.GET("/orders/:id", oh.Detail)
	g.POST("/orders/:id/transition", oh.Transition)
	g.POST("/products/:slug/image", ch.UploadImage)
	g.PUT("/products/:slug/weekly", ch.SetWeekly)
	g.POST("/reviews/:id/approve", ch.ApproveReview)
	return r
}

func call(r *gin.Engine, token, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "ugiot_session", Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleOrder() orders.Order {
	return orders.Order{
		ID:          "order-1",
		OrderNumber: "12345678",
		Phone:       "0501234567",
		FullName:    "דנה כהן",
		TotalAmount: 50,
		Status:      orders.StatusPending,
		CreatedAt:   time.Date(2026, 10, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestAdmin_AccessControl(t *testing.T) {
	r := newAdminEngine(&fakeRepo{order: sampleOrder()}, &fakeTransitions{}, &fakeCatalog{})

	tests := []struct {
		token  string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"customer", http.StatusForbidden},
		{"admin", http.StatusOK},
	}
	for _, tt := range tests {
		w := call(r, tt.token, http.MethodGet, "/api/admin/orders", nil, "")
		assert.Equal(t, tt.status, w.Code, "token %q", tt.token)
	}
}

func TestAdmin_ListAndDetail(t *testing.T) {
	repo := &fakeRepo{order: sampleOrder()}
	r := newAdminEngine(repo, &fakeTransitions{}, &fakeCatalog{})

	w := call(r, "admin", http.MethodGet, "/api/admin/orders?q=050&status=pending&delivery=pickup&from=2026-10-01&to=2026-10-07&page=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "050", repo.params.Q)
	assert.Equal(t, "pickup", repo.params.Delivery)
	assert.Equal(t, 2, repo.params.Page)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), repo.params.From)
	assert.Equal(t, time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC), repo.params.To)

	var list struct {
		Data view.AdminOrdersListPage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Data.TotalPages)
	assert.EqualValues(t, 4, list.Data.Counts[orders.StatusCompleted])
	require.Len(t, list.Data.Items, 1)
	assert.Equal(t, "12345678", list.Data.Items[0].OrderNumber)
	assert.Equal(t, "₪50", list.Data.Items[0].Total)
	assert.Equal(t, "2026-10-01 12:30", list.Data.Items[0].CreatedAt)

	w = call(r, "admin", http.MethodGet, "/api/admin/orders/order-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Data view.AdminOrderDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "12345678", detail.Data.Order.OrderNumber)
	require.Len(t, detail.Data.Order.Items, 1)
	assert.Equal(t, 50, detail.Data.Order.Items[0].LineTotal)

	w = call(r, "admin", http.MethodGet, "/api/admin/orders/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(r, "admin", http.MethodGet, "/api/admin/orders?from=01/10/2026", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"from"`)
}

func TestAdmin_Transition(t *testing.T) {
	tr := &fakeTransitions{}
	r := newAdminEngine(&fakeRepo{order: sampleOrder()}, tr, &fakeCatalog{})

	tests := []struct {
		name   string
		id     string
		body   string
		status int
	}{
		{"confirm", "order-1", `{"action":"confirm","note":"called customer"}`, http.StatusOK},
		{"not allowed from pending", "order-1", `{"action":"complete"}`, http.StatusConflict},
		{"unknown action", "order-1", `{"action":"ship"}`, http.StatusBadRequest},
		{"missing order", "order-9", `{"action":"confirm"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		w := call(r, "admin", http.MethodPost, "/api/admin/orders/"+tt.id+"/transition", strings.NewReader(tt.body), "application/json")
		assert.Equal(t, tt.status, w.Code, tt.name+": "+w.Body.String())
	}
	assert.Equal(t, "admin-1", tr.got.ActorUserID)
}

func TestAdmin_UploadImage(t *testing.T) {
	cat := &fakeCatalog{}
	r := newAdminEngine(&fakeRepo{order: sampleOrder()}, &fakeTransitions{}, cat)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "lotus.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	w := call(r, "admin", http.MethodPost, "/api/admin/products/lotus/image", &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "lotus.png", cat.uploaded.Filename)
	assert.Equal(t, int64(len("png-bytes")), cat.uploaded.Size)
	assert.Equal(t, "png-bytes", cat.body)

	w = call(r, "admin", http.MethodPost, "/api/admin/products/lotus/image", strings.NewReader(""), "multipart/form-data; boundary=x")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_WeeklyAndReviews(t *testing.T) {
	r := newAdminEngine(&fakeRepo{order: sampleOrder()}, &fakeTransitions{}, &fakeCatalog{})

	w := call(r, "admin", http.MethodPut, "/api/admin/products/lotus/weekly", strings.NewReader(`{"discount_percent":20}`), "application/json")
	assert.Equal(t, http.StatusOK, w.Code)
	w = call(r, "admin", http.MethodPut, "/api/admin/products/lotus/weekly", strings.NewReader(`{"discount_percent":120}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = call(r, "admin", http.MethodPut, "/api/admin/products/none/weekly", strings.NewReader(`{"discount_percent":20}`), "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, http.StatusOK, call(r, "admin", http.MethodPost, "/api/admin/reviews/r1/approve", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, call(r, "admin", http.MethodPost, "/api/admin/reviews/r2/approve", nil, "").Code)
}
