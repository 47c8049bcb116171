package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reprasp/internal/config"
)

func TestHealthAndRequestID(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})

	w := env.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "trace-123")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, "trace-123", w.Header().Get(requestIDHeader))
}

func TestRateLimitPerIP(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{
		RateLimit: config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2},
	})

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/schedule/list", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestIPRateLimiterPrunesIdleVisitors(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	now = now.Add(10 * time.Minute)
	assert.True(t, l.Allow("b"))
	assert.NotContains(t, l.visitors, "a")
	assert.True(t, l.Allow("a"))
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{
		CORS: config.CORSConfig{AllowOrigins: []string{"https://goosegoosegoosegoose.github.io"}},
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/schedule/add", nil)
	req.Header.Set("Origin", "https://goosegoosegoosegoose.github.io")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-User-Id")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "https://goosegoosegoosegoose.github.io", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryReturnsJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"code":"INTERNAL","error":"internal server error"}`, w.Body.String())
}
