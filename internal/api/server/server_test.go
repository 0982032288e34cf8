package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/dto"
	pkgserver "github.com/DjordjeVuckovic/content-hunter/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestServer(cfg *Config, hc pkgserver.HealthChecker) *Server {
	s := New(cfg, hc).SetupErrorHandler()
	s.now = func() time.Time { return fixedNow }
	return s
}

func serve(s *Server, target, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func TestHealth_AllComponentsOk(t *testing.T) {
	hc := pkgserver.NewProbeHealthChecker(time.Second).
		With("store", func(context.Context) error { return nil }).
		With("cache", func(context.Context) error { return nil })
	s := newTestServer(&Config{Port: "8080"}, hc).SetupHealthChecks("/health")

	rec := serve(s, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var res dto.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, dto.HealthResponse{Status: "ok", Store: "ok", Cache: "ok", Time: fixedNow}, res)
}

func TestHealth_FailingStoreIsUnavailable(t *testing.T) {
	hc := pkgserver.NewProbeHealthChecker(time.Second).
		With("store", func(context.Context) error { return errors.New("dial tcp: connection refused") }).
		With("cache", func(context.Context) error { return nil })
	s := newTestServer(&Config{Port: "8080"}, hc).SetupHealthChecks("/health")

	rec := serve(s, "/health", "")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var res dto.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "fail", res.Status)
	assert.Equal(t, "fail", res.Store)
	assert.Equal(t, "ok", res.Cache)
}

func TestRateLimiter_RejectsOverBudgetPerClient(t *testing.T) {
	s := newTestServer(&Config{Port: "8080", RateLimitPerMinute: 2}, pkgserver.NewOkHealthChecker())
	s.Echo.GET("/search", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, s.RateLimiter())

	assert.Equal(t, http.StatusOK, serve(s, "/search", "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, serve(s, "/search", "10.0.0.1:1234").Code)

	rec := serve(s, "/search", "10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	var res dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "too many requests", res.Title)

	// another client has its own budget
	assert.Equal(t, http.StatusOK, serve(s, "/search", "10.0.0.2:1234").Code)
}

func TestRateLimiter_DisabledAtZero(t *testing.T) {
	s := newTestServer(&Config{Port: "8080"}, pkgserver.NewOkHealthChecker())
	assert.Nil(t, s.RateLimiter())
}

func TestMetrics_ExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "content_hunter_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	s := newTestServer(&Config{Port: "8080"}, pkgserver.NewOkHealthChecker()).SetupMetrics("/metrics", reg)

	rec := serve(s, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "content_hunter_test_total 1")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV_PATH", "testdata/does-not-exist.env")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("CORS_ORIGINS", "")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, &Config{Port: "8080", CorsOrigins: []string{"*"}, RateLimitPerMinute: 60}, cfg)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("USE_HTTP2", "true")
		t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "0")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, &Config{
			Port:               "9090",
			UseHttp2:           true,
			CorsOrigins:        []string{"http://a.test", "http://b.test"},
			RateLimitPerMinute: 0,
		}, cfg)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, kv := range [][2]string{{"PORT", "0"}, {"PORT", "http"}, {"RATE_LIMIT_PER_MINUTE", "-1"}} {
			t.Setenv("PORT", "8080")
			t.Setenv("RATE_LIMIT_PER_MINUTE", "")
			t.Setenv(kv[0], kv[1])

			_, err := LoadConfig()
			assert.Error(t, err, "%s=%s", kv[0], kv[1])
		}
	})
}
