package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", InvalidErr("bad", nil), http.StatusBadRequest},
		{"not found", NotFoundErr("x"), http.StatusNotFound},
		{"unauthorized", UnauthorizedErr("x"), http.StatusUnauthorized},
		{"forbidden", ForbiddenErr("x"), http.StatusForbidden},
		{"conflict", ConflictErr("x"), http.StatusConflict},
		{"rate limited", RateLimitedErr("x", nil), http.StatusTooManyRequests},
		{"wrapped internal", Wrap(errors.New("db down")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"nested", fmt.Errorf("ctx: %w", NotFoundErr("x")), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "hello", PublicMessage(InvalidErr("hello", nil)))
	assert.Equal(t, DefaultPublicMsg, PublicMessage(errors.New("internal detail")))
	assert.Equal(t, DefaultPublicMsg, PublicMessage(Wrap(errors.New("internal detail"))))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil))
	assert.Nil(t, WrapMsg(nil, "x"))
}

func TestIsAndUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := RateLimitedErr("slow down", cause)
	assert.True(t, Is(err, RateLimited))
	assert.False(t, Is(err, Invalid))
	assert.ErrorIs(t, err, cause)
}
