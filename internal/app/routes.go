package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maquinsa/site-core/internal/middleware"
	"github.com/maquinsa/site-core/internal/modules/newsletter/analytics"
	"github.com/maquinsa/site-core/internal/modules/newsletter/confirm"
	"github.com/maquinsa/site-core/internal/modules/newsletter/dispatch"
	"github.com/maquinsa/site-core/internal/modules/newsletter/intake"
	"github.com/maquinsa/site-core/internal/modules/newsletter/store"
	"github.com/maquinsa/site-core/internal/modules/newsletter/subscribers"
	"github.com/maquinsa/site-core/internal/pkg/dispatchlog"
	pkgmail "github.com/maquinsa/site-core/internal/pkg/mail"
	pkgredis "github.com/maquinsa/site-core/internal/pkg/redis"
	"github.com/maquinsa/site-core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	authMW := middleware.Auth(a.cfg.AdminKey)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(rc.Raw()))
	r.Use(middleware.Idempotence(rc.Raw()))

	api := r.Group("/api/v2")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	st := store.NewGorm(a.db)
	sender := pkgmail.New(pkgmail.BuildConfig(a.cfg))
	logSvc := dispatchlog.NewService(rc)

	intake.NewHandler(intake.NewService(st), a.cfg, sender).RegisterRoutes(api)
	confirm.NewHandler(confirm.NewService(st), a.cfg).RegisterRoutes(api)
	dispatch.NewHandler(dispatch.NewService(st, sender, a.cfg, a.logger), logSvc, a.logger).RegisterRoutes(api, authMW)
	subscribers.NewHandler(subscribers.NewService(st)).RegisterRoutes(api, authMW)
	analytics.NewHandler(analytics.NewService(st)).RegisterRoutes(api, authMW)
}
