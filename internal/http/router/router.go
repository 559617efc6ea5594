// Package router assembles the Gin engine from the registered modules.
package router

import (
	"net/http"
	"time"

	apphttp "weddinglead_backend/internal/http"
	"weddinglead_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// New builds the HTTP engine and mounts every module's routes.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(app))

	engine.GET("/api/health", func(c *gin.Context) {
		if err := app.Health.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	perMinute := app.IntakeRatePerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	burst := app.IntakeRateBurst
	if burst <= 0 {
		burst = 5
	}
	intakeLimiter := httpkit.NewIPRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst, app.Logger)

	v1 := engine.Group("/api/v1")
	ctx := &apphttp.RouterContext{
		Engine:            engine,
		V1:                v1,
		Protected:         v1.Group("", httpkit.JWTAuth(app.Config)),
		Cron:              v1.Group("/cron", httpkit.CronAuth(app.Config)),
		Public:            v1.Group("/webhooks"),
		Config:            app.Config,
		IntakeRateLimiter: intakeLimiter,
	}

	for _, m := range app.Modules {
		m.RegisterRoutes(ctx)
		app.Logger.Info("module routes registered", "module", m.Name())
	}

	return engine
}

func corsMiddleware(app *apphttp.App) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: app.Config.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}

	if app.Config.GetCORSAllowAll() {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = app.Config.GetCORSOrigins()
	}

	return cors.New(cfg)
}
