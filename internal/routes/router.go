package routes

import (
	"context"
	"net/http"
	"time"

	"job-board/internal/config"
	"job-board/internal/database"
	"job-board/internal/delivery/http/handler"
	"job-board/internal/delivery/ws"
	"job-board/internal/domain/event"
	"job-board/internal/domain/notification"
	"job-board/internal/logger"
	"job-board/internal/metrics"
	"job-board/internal/middleware"
	"job-board/internal/usecase/job"
	"job-board/internal/usecase/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BrokerStatus is satisfied by *mqtt.Client.
type BrokerStatus interface {
	IsConnected() bool
}

// Dependencies are the collaborators built in main and shared by the routes.
type Dependencies struct {
	Store     *database.Store
	Tokens    user.TokenIssuer
	Hasher    user.PasswordHasher
	Notifier  notification.Notifier
	Publisher event.Publisher
	Hub       *ws.Hub
	Metrics   *metrics.Metrics

	// Broker is set when the MQTT bus is enabled; /health then reports it.
	Broker BrokerStatus

	// Background scopes maintenance jobs; nil disables them.
	Background context.Context
}

func SetupRoutes(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	publisher := deps.Publisher
	if publisher == nil {
		publisher = event.NoopPublisher{}
	}

	router := gin.New()

	// Order: recovery, request ID, metrics, logging, security headers, CORS, request size limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.Auth.CookieSecure))
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(cfg.Server.MaxBodyBytes))
	router.Use(middleware.RateLimitMiddleware(deps.Background, cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst, deps.Metrics))

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := deps.Store.Ping(ctx); err != nil {
			logger.Warn("Health check failed",
				zap.String("driver", deps.Store.Driver),
				zap.Error(err),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		body := gin.H{
			"status":  "healthy",
			"message": "Service is running",
			"driver":  deps.Store.Driver,
		}
		if deps.Broker != nil {
			if !deps.Broker.IsConnected() {
				logger.Warn("Health check failed", zap.String("event", "mqtt_disconnected"))
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"message": "MQTT broker disconnected",
				})
				return
			}
			body["mqtt"] = "connected"
		}

		c.JSON(http.StatusOK, body)
	})

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	userService := user.NewService(deps.Store.Users, deps.Tokens, deps.Hasher, deps.Notifier, cfg,
		user.WithPublisher(publisher),
	)
	userHandler := handler.NewUserHandler(userService, cfg)

	if deps.Background != nil {
		go userService.StartResetTokenCleanupJob(deps.Background, time.Hour)
	}

	jobService := job.NewService(deps.Store.Jobs, publisher)
	jobHandler := handler.NewJobHandler(jobService)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("")
		auth.Use(middleware.RateLimitMiddleware(deps.Background, cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst, deps.Metrics))
		{
			userHandler.RegisterRoutes(auth)
		}

		if deps.Hub != nil {
			v1.GET("/jobs/feed", deps.Hub.Handle)
		}
		jobHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Tokens))
		{
			userHandler.RegisterProfileRoutes(protected)

			recruiter := protected.Group("")
			recruiter.Use(middleware.RecruiterOnly())
			{
				jobHandler.RegisterRecruiterRoutes(recruiter)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
