package router

import (
	"context"
	"net/http"
	"time"

	apphttp "ubiflow_gateway/internal/http"
	"ubiflow_gateway/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	readinessTimeout = 3 * time.Second

	// Per-IP budget for the gateway; every call fans out to the remote API.
	gatewayRate  = rate.Limit(10)
	gatewayBurst = 20
)

// New builds the gin engine and mounts every module.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))

	engine.GET("/api/health", func(c *gin.Context) {
		httpkit.OK(c, gin.H{"status": "ok"})
	})
	engine.GET("/api/ready", readiness(app.Health))

	limiter := httpkit.NewIPRateLimiter(gatewayRate, gatewayBurst, app.Logger)
	v1 := engine.Group("/api/v1")
	v1.Use(limiter.RateLimit())

	protected := v1.Group("")
	protected.Use(httpkit.AuthRequired(app.Config))

	admin := protected.Group("/admin")
	admin.Use(httpkit.RequireRole("admin"))

	routerCtx := &apphttp.RouterContext{
		Engine:    engine,
		V1:        v1,
		Protected: protected,
		Admin:     admin,
		Config:    app.Config,
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Info("module registered", "module", module.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpkit.RequestIDHeader},
		ExposeHeaders:    []string{httpkit.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}
	return corsCfg
}

func readiness(checks map[string]apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		failures := gin.H{}
		for name, check := range checks {
			if err := check.Ping(ctx); err != nil {
				failures[name] = err.Error()
			}
		}
		if len(failures) > 0 {
			httpkit.Error(c, http.StatusServiceUnavailable, "not ready", failures)
			return
		}
		httpkit.OK(c, gin.H{"status": "ready"})
	}
}
