//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"payment-reconciler/internal/handler/middleware"
	"payment-reconciler/internal/pkg/clock"
	"payment-reconciler/internal/pkg/jwt"
	"payment-reconciler/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T, clk clock.Clock) (*gin.Engine, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := jwt.NewService("middleware-test-secret", time.Hour, clk)
	auth := middleware.NewAuthMiddleware(usecase.NewTokenValidator(svc))

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		id, ok := middleware.GetUserID(c)
		require.True(t, ok)
		c.String(http.StatusOK, id.String())
	})
	return r, svc
}

func TestRequireAuth(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	router, svc := newAuthRouter(t, clk)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	require.NoError(t, err)

	tests := []struct {
		name      string
		header    string
		before    func()
		want      int
		challenge string
	}{
		{name: "valid bearer token", header: "Bearer " + token, want: http.StatusOK},
		{name: "scheme is case insensitive", header: "bearer " + token, want: http.StatusOK},
		{name: "missing header", header: "", want: http.StatusUnauthorized, challenge: `Bearer realm="payments"`},
		{name: "wrong scheme", header: "Basic " + token, want: http.StatusUnauthorized, challenge: `Bearer realm="payments"`},
		{name: "garbage token", header: "Bearer not.a.jwt", want: http.StatusUnauthorized, challenge: `error="invalid_token"`},
		{name: "expired token", header: "Bearer " + token, before: func() { clk.Add(2 * time.Hour) }, want: http.StatusUnauthorized, challenge: `error_description="token expired"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.before != nil {
				tt.before()
			}
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
				return
			}
			assert.Contains(t, w.Header().Get("WWW-Authenticate"), tt.challenge)
		})
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// 60/min gives a burst of 6
	r.POST("/hook", middleware.RateLimit(60), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := map[int]int{}
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hook", nil))
		codes[w.Code]++
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", w.Header().Get("Retry-After"))
			assert.Contains(t, w.Body.String(), `"retryable":true`)
		}
	}

	assert.Equal(t, 6, codes[http.StatusOK])
	assert.Equal(t, 4, codes[http.StatusTooManyRequests])
}

func TestRateLimit_DisabledWhenZero(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/hook", middleware.RateLimit(0), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hook", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.LoggingMiddleware(nil, "Stripe-Signature"))
	r.GET("/id", func(c *gin.Context) {
		// the id travels on the request context into use-case logging
		assert.Equal(t, middleware.GetRequestID(c), middleware.RequestIDFrom(c.Request.Context()))
		c.Status(http.StatusNoContent)
	})

	t.Run("well formed incoming id is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set(middleware.RequestIDHeader, "req_0123456789")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req_0123456789", w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("hostile incoming id is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set(middleware.RequestIDHeader, "x\nforged log line")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		got := w.Header().Get(middleware.RequestIDHeader)
		_, err := uuid.Parse(got)
		assert.NoError(t, err)
	})
}

func TestCustomRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CustomRecovery(), middleware.ErrorHandler())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":{"message":"Internal server error"},"retryable":true}`, w.Body.String())
}

func TestNoRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.MethodNotAllowed())
	r.GET("/only-get", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Route not found")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/only-get", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
