package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"childcare-tasks.com/childcare-tasks/internal/auth"
	middleware "childcare-tasks.com/childcare-tasks/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, tokens *auth.TokenManager, limiter middleware.RateLimitStore, rateLimitPerMinute int) {
	e.Use(middleware.Metrics())

	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	tasks := e.Group("/tasks",
		middleware.RateLimiter(limiter, rateLimitPerMinute, time.Minute),
		middleware.Authenticate(tokens),
	)

	tasks.POST("", h.CreateTask)
	tasks.GET("", h.ListTasks)
	tasks.GET("/stats", h.GetStats, middleware.RequireAdmin())
	tasks.PATCH("/:id", h.UpdateTask)
	tasks.DELETE("/:id", h.DeleteTask, middleware.RequireAdmin())
}
