package middlewarectx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
)

func TestRateLimitMiddleware(t *testing.T) {
	norm := response.NewNormalizer("test")
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("requests within burst pass through", func(t *testing.T) {
		limiter := rate.NewLimiter(rate.Inf, 0)
		handler := RateLimitMiddleware(limiter, norm, testLogger())(next)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("exhausted limiter returns 429", func(t *testing.T) {
		limiter := rate.NewLimiter(0, 1)
		handler := RateLimitMiddleware(limiter, norm, testLogger())(next)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	})
}
