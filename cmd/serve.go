package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"childcare-tasks.com/childcare-tasks/internal/auth"
	"childcare-tasks.com/childcare-tasks/internal/cache"
	config "childcare-tasks.com/childcare-tasks/internal/configs"
	httpapi "childcare-tasks.com/childcare-tasks/internal/http"
	middleware "childcare-tasks.com/childcare-tasks/internal/http/middlewares"
	"childcare-tasks.com/childcare-tasks/internal/logger"
	"childcare-tasks.com/childcare-tasks/internal/notifications"
	repository "childcare-tasks.com/childcare-tasks/internal/repositories"
	"childcare-tasks.com/childcare-tasks/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task HTTP API with push notifications, stats caching and rate limiting",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := config.SetupTracing(cfg.JaegerEndpoint)
		if err != nil {
			return err
		}

		database, err := config.NewDatabase(cfg.DatabaseDSN)
		if err != nil {
			return err
		}

		taskRepo := repository.NewTaskRepository(database)
		userRepo := repository.NewUserRepository(database)

		var (
			statsCache cache.StatsCache          = cache.NewNoopStatsCache()
			limiter    middleware.RateLimitStore = middleware.NewMemoryStore()
		)
		if cfg.RedisEnabled {
			redisClient, err := config.NewRedisClient(cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer redisClient.Close()

			statsCache = cache.New(redisClient, cfg.RedisKeyPrefix, cfg.StatsCacheTTL())
			limiter = middleware.NewRedisStore(redisClient, cfg.RedisKeyPrefix)
		}

		dispatcher := notifications.NewExpoDispatcher(notifications.ExpoOptions{
			URL:         cfg.ExpoPushURL,
			AccessToken: cfg.ExpoAccessToken,
			Timeout:     time.Duration(cfg.PushTimeoutSeconds) * time.Second,
			Retries:     cfg.PushRetries,
			Backoff:     500 * time.Millisecond,
		})

		taskService := services.NewTaskService(
			taskRepo,
			userRepo,
			notifications.NewNotifier(userRepo, dispatcher),
			services.WithStatsCache(statsCache),
			services.WithLocation(cfg.Location()),
		)

		tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL())

		e := httpapi.NewServer()
		httpapi.Register(e, httpapi.NewHandler(taskService), tokens, limiter, cfg.RateLimit)

		go func() {
			logger.Log.Info().Str("addr", cfg.AppURL).Msg("HTTP server listening")
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.Error().Err(err).Msg("server stopped")
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error().Err(err).Msg("HTTP server shutdown failed")
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Log.Error().Err(err).Msg("tracer shutdown failed")
		}

		logger.Log.Info().Msg("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
