package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/gym-membership/internal/http/middlewarectx"
)

func TestRateLimitMiddleware(t *testing.T) {
	logger := newNoopLogger()

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allows requests within rate limit", func(t *testing.T) {
		limiter := rate.NewLimiter(10, 10)
		handler := middlewarectx.RateLimitMiddleware(logger, limiter)(testHandler)

		for range 10 {
			req := httptest.NewRequest(http.MethodPost, "/auth/member/login", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("blocks requests exceeding rate limit", func(t *testing.T) {
		limiter := rate.NewLimiter(1, 1)
		handler := middlewarectx.RateLimitMiddleware(logger, limiter)(testHandler)

		req := httptest.NewRequest(http.MethodPost, "/auth/member/login", nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), "too many requests")
	})

	t.Run("handler not called when rate limited", func(t *testing.T) {
		limiter := rate.NewLimiter(1, 1)
		var handlerCalled bool
		handler := middlewarectx.RateLimitMiddleware(logger, limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodPost, "/auth/token/verify", nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.True(t, handlerCalled)

		handlerCalled = false
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.False(t, handlerCalled)
	})
}
