package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apphttp "ubiflow_gateway/internal/http"
	"ubiflow_gateway/platform/logger"

	"github.com/gin-gonic/gin"
)

type testConfig struct{}

func (testConfig) GetHTTPAddr() string        { return ":0" }
func (testConfig) GetCORSAllowAll() bool      { return false }
func (testConfig) GetCORSOrigins() []string   { return []string{"http://localhost:4200"} }
func (testConfig) GetJWTAccessSecret() string { return "secret" }

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type echoModule struct{}

func (echoModule) Name() string { return "echo" }

func (echoModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func newTestEngine(health map[string]apphttp.HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(&apphttp.App{
		Config:  testConfig{},
		Logger:  logger.NewWithWriter("development", io.Discard),
		Health:  health,
		Modules: []apphttp.Module{echoModule{}},
	})
}

func TestHealthIsPublic(t *testing.T) {
	engine := newTestEngine(nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header")
	}
}

func TestModuleRoutesRequireAuth(t *testing.T) {
	engine := newTestEngine(nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestReadinessReportsFailingDependency(t *testing.T) {
	engine := newTestEngine(map[string]apphttp.HealthChecker{
		"database": pingFunc(func(context.Context) error { return nil }),
		"redis":    pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "redis") || strings.Contains(rec.Body.String(), "database") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
