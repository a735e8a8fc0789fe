package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type stubValidator map[string]*model.User

func (s stubValidator) ValidateToken(ctx context.Context, key string) (*model.User, error) {
	if user, ok := s[key]; ok {
		return user, nil
	}
	return nil, apperrors.NewUnauthorized("Invalid token.", nil)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		if user, ok := CurrentUser(c); ok {
			c.JSON(http.StatusOK, gin.H{"user": user.Username, "token": CurrentToken(c)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": nil})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func get(r http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	validator := stubValidator{"abc123": {Base: model.Base{ID: 1}, Username: "jane"}}
	auth := NewAuthMiddleware(validator)

	tests := []struct {
		name          string
		handler       gin.HandlerFunc
		authorization string
		wantStatus    int
		wantBody      string
	}{
		{"required without header", auth.Authenticate(), "", http.StatusUnauthorized, `{"error":"Authentication credentials were not provided."}`},
		{"required with bearer", auth.Authenticate(), "Bearer abc123", http.StatusOK, `{"user":"jane","token":"abc123"}`},
		{"required with token prefix", auth.Authenticate(), "Token abc123", http.StatusOK, `{"user":"jane","token":"abc123"}`},
		{"malformed header", auth.Authenticate(), "abc123", http.StatusUnauthorized, `{"error":"Invalid token header. No credentials provided."}`},
		{"unknown token", auth.Authenticate(), "Bearer nope", http.StatusUnauthorized, `{"error":"Invalid token."}`},
		{"optional anonymous", auth.Optional(), "", http.StatusOK, `{"user":null}`},
		{"optional with bad token", auth.Optional(), "Bearer nope", http.StatusUnauthorized, `{"error":"Invalid token."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(newEngine(tt.handler), "/ping", tt.authorization)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1})
	r := newEngine(limiter.RateLimit())

	assert.Equal(t, http.StatusOK, get(r, "/ping", "").Code)

	w := get(r, "/ping", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Request was throttled."}`, w.Body.String())
}

func TestRecovery(t *testing.T) {
	r := newEngine(RequestID(), Recovery())

	w := get(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := get(r, "/ping", "")
	assert.NotEmpty(t, w.Header().Get(HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderXRequestID, "req-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(HeaderXRequestID))
}

func TestErrorHandlerWritesWhenHandlerDidNot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
	})

	w := get(r, "/fail", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	r := newEngine(SecurityHeaders(DefaultSecurityConfig()))

	w := get(r, "/ping", "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}
