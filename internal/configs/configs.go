package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"childcare-tasks.com/childcare-tasks/internal/logger"
)

type Config struct {
	Env                    string
	AppURL                 string
	DatabaseDSN            string
	RedisEnabled           bool
	RedisAddr              string
	RedisKeyPrefix         string
	RateLimit              int
	ShutdownTimeoutSeconds int
	JWTSecret              string
	TokenTTLHours          int
	ExpoPushURL            string
	ExpoAccessToken        string
	PushTimeoutSeconds     int
	PushRetries            int
	StatsCacheTTLSeconds   int
	Timezone               string
	JaegerEndpoint         string
	LogLevel               string
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		Env:                    getEnv("APP_ENV", "development"),
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", "tasks.db"),
		RedisEnabled:           getEnvAsBool("REDIS_ENABLED", false),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		RedisKeyPrefix:         getEnv("REDIS_KEY_PREFIX", "childcare:"),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		TokenTTLHours:          getEnvAsInt("TOKEN_TTL_HOURS", 24),
		ExpoPushURL:            getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		ExpoAccessToken:        os.Getenv("EXPO_ACCESS_TOKEN"),
		PushTimeoutSeconds:     getEnvAsInt("PUSH_TIMEOUT_SECONDS", 10),
		PushRetries:            getEnvAsInt("PUSH_RETRIES", 2),
		StatsCacheTTLSeconds:   getEnvAsInt("STATS_CACHE_TTL_SECONDS", 30),
		Timezone:               getEnv("APP_TIMEZONE", "Local"),
		JaegerEndpoint:         os.Getenv("JAEGER_ENDPOINT"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}

	if err := validate(cfg); err != nil {
		logger.Log.Fatal().Err(err).Msg("invalid configuration")
	}
	return cfg
}

func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c Config) StatsCacheTTL() time.Duration {
	return time.Duration(c.StatsCacheTTLSeconds) * time.Second
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func validate(cfg Config) error {
	if cfg.AppURL == "" {
		return fmt.Errorf("APP_HOST and APP_PORT must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN must not be empty")
	}
	if cfg.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.TokenTTLHours <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be greater than 0")
	}
	if cfg.PushTimeoutSeconds <= 0 {
		return fmt.Errorf("PUSH_TIMEOUT_SECONDS must be greater than 0")
	}
	if cfg.PushRetries < 0 {
		return fmt.Errorf("PUSH_RETRIES must not be negative")
	}
	if cfg.StatsCacheTTLSeconds < 0 {
		return fmt.Errorf("STATS_CACHE_TTL_SECONDS must not be negative")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE %q is not a known time zone", cfg.Timezone)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			logger.Log.Fatal().Str("key", key).Msg("invalid integer value")
		}
		return i
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Log.Fatal().Str("key", key).Msg("invalid boolean value")
		}
		return b
	}
	return defaultVal
}
