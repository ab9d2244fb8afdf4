package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/shared/apperr"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLang(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Lang(validation.He))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, string(GetLang(c))) })

	tests := []struct {
		name, query, accept, want string
	}{
		{"default", "", "", "he"},
		{"header", "", "en-US,en;q=0.9", "en"},
		{"query wins", "?lang=he", "en-US", "he"},
		{"query en", "?lang=en", "", "en"},
		{"unknown falls back to hebrew", "", "fr-FR", "he"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			w := serve(r, req)
			assert.Equal(t, tt.want, w.Body.String())
			assert.Equal(t, tt.want, w.Header().Get("Content-Language"))
		})
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "edge-123_abc")
	w := serve(r, req)
	assert.Equal(t, "edge-123_abc", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "bad id\nwith newline")
	w = serve(r, req)
	assert.Len(t, w.Body.String(), 32)
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Lang(validation.He), ErrorHandler(discard))
	r.GET("/invalid", func(c *gin.Context) {
		Fail(c, apperr.InvalidErr("שדה חובה", map[string]string{"phone": "שדה חובה"}))
	})
	r.GET("/internal", func(c *gin.Context) {
		Fail(c, apperr.Wrap(errors.New("db down")))
	})
	r.GET("/plain", func(c *gin.Context) {
		Fail(c, errors.New("boom"))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/invalid", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"fields":{"phone":"שדה חובה"}`)
	assert.Contains(t, w.Body.String(), `"request_id":"`)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/internal?lang=en", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), englishDefaultMsg)
	assert.NotContains(t, w.Body.String(), "db down")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/plain", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), apperr.DefaultPublicMsg)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery(discard))
	r.GET("/", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"request_id"`)
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Lang(validation.En), ErrorHandler(discard))
	r.GET("/anon", RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/user", func(c *gin.Context) {
		c.Set(ctxKeyUser, ContextUser{ID: "u1", Role: "customer"})
	}, RequireAuth(), RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/anon", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Please log in to continue.")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/user", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
