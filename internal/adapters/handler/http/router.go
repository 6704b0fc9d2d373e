package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/comitanigiacomo/lifecommander/docs"
	"github.com/comitanigiacomo/lifecommander/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/lifecommander/internal/metrics"
)

const (
	statusConnected   = "connected"
	statusUnreachable = "unreachable"
	statusDisabled    = "disabled"
)

type RouterDependencies struct {
	HabitHandler     *HabitHandler
	EntryHandler     *EntryHandler
	TimerHandler     *TimerHandler
	DashboardHandler *DashboardHandler
	TokenService     middleware.TokenValidator

	// DB is nil with the in-memory storage driver, Redis when REDIS_HOST is unset.
	DB    *sqlx.DB
	Redis *redis.Client

	RateLimit       int
	RateLimitWindow time.Duration
	Logger          logrus.FieldLogger
	StartTime       time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposeHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:          12 * time.Hour,
	}))
	router.Use(metrics.Middleware())

	router.GET("/health", healthHandler(deps))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(deps.TokenService))
	if deps.Redis != nil {
		protected.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, deps.RateLimitWindow, deps.Logger))
	}
	{
		deps.HabitHandler.RegisterRoutes(protected)
		deps.EntryHandler.RegisterRoutes(protected)
		deps.TimerHandler.RegisterRoutes(protected)
		deps.DashboardHandler.RegisterRoutes(protected)
	}

	return router
}

func healthHandler(deps RouterDependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		dbStatus := statusDisabled
		if deps.DB != nil {
			dbStatus = statusConnected
			if err := deps.DB.PingContext(ctx); err != nil {
				dbStatus = statusUnreachable
			}
		}

		redisStatus := statusDisabled
		if deps.Redis != nil {
			redisStatus = statusConnected
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				redisStatus = statusUnreachable
			}
		}

		status, code := "ok", http.StatusOK
		if dbStatus == statusUnreachable || redisStatus == statusUnreachable {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":   status,
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	}
}
