package http

import (
	"context"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ugiot.co.il/app/internal/http/cartcookie"
	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/modules/checkout"
)

const orderBody = `{"full_name":"דנה כהן","email":"dana@example.com","phone":"0501234567","delivery_method":"pickup"}`

type ipRecorder struct{ ips []string }

func (r *ipRecorder) Submit(_ context.Context, in checkout.SubmitInput) (checkout.Confirmation, error) {
	r.ips = append(r.ips, in.ClientIP)
	return checkout.Confirmation{OrderNumber: "12345678"}, nil
}

func testRouter(proxies []string, sub *ipRecorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Deps{
		Log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		DefaultLang:    validation.He,
		CartCookie:     cartcookie.New([]byte("0123456789abcdef0123456789abcdef"), "ugiot_cart", false),
		Session:        middleware.SessionCfg{CookieName: "ugiot_session"},
		TrustedProxies: proxies,
		Checkout:       sub,
	})
}

func TestRouter_ClientIPIgnoresUntrustedForwardedFor(t *testing.T) {
	tests := []struct {
		name    string
		proxies []string
		want    []string
	}{
		{"no proxies configured", nil, []string{"9.9.9.9", "9.9.9.9", "9.9.9.9"}},
		{"remote is not a listed proxy", []string{"10.0.0.0/8"}, []string{"9.9.9.9", "9.9.9.9", "9.9.9.9"}},
		{"remote is the trusted proxy", []string{"9.9.9.9"}, []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &ipRecorder{}
			r := testRouter(tt.proxies, sub)

			for _, spoofed := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
				req := httptest.NewRequest(stdhttp.MethodPost, "/api/checkout", strings.NewReader(orderBody))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("X-Forwarded-For", spoofed)
				req.RemoteAddr = "9.9.9.9:1234"
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)
				require.Equal(t, stdhttp.StatusCreated, w.Code, w.Body.String())
			}
			assert.Equal(t, tt.want, sub.ips)
		})
	}
}

func TestRouter_InvalidTrustedProxiesTrustNone(t *testing.T) {
	sub := &ipRecorder{}
	r := testRouter([]string{"not-an-ip"}, sub)

	req := httptest.NewRequest(stdhttp.MethodPost, "/api/checkout", strings.NewReader(orderBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "1.1.1.1")
	req.RemoteAddr = "9.9.9.9:1234"
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{"9.9.9.9"}, sub.ips)
}
