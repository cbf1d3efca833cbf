package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mannadev/scriptura/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		errorHandlingMiddleware(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	api := router.Group("/api/v1")
	{
		api.POST("/plans", handler.CreatePlan)
		api.GET("/plans", handler.ListPlans)
		api.GET("/plans/:id", handler.GetPlan)
		api.GET("/plans/:id/today", handler.TodayReading)
		api.POST("/plans/:id/progress", handler.MarkDayComplete)

		api.GET("/devotions", handler.SearchDevotions)
		api.GET("/devotions/today", handler.TodaysDevotion)
		api.GET("/devotions/:day", handler.DevotionForDay)
		api.POST("/devotions/refresh", handler.RefreshDevotions)

		api.POST("/versechat", handler.VerseChat)
		api.GET("/versechat/trending", handler.TrendingQuestions)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
