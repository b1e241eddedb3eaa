package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		ENV string
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		Driver   string // mysql | postgres | sqlite
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	GRPC struct {
		Host string
		Port string
	}

	HTTP struct {
		Addr string
		// WebhookSecret, when set, must match the X-Webhook-Secret header.
		WebhookSecret string
	}

	Bot struct {
		DailyLikeLimit    int
		CandidatePageSize int
		SessionTTL        time.Duration // 0 keeps sessions until commit/cancel
		SeenTTL           time.Duration
		InboundRPS        float64
		InboundBurst      int
	}

	Notify struct {
		Queue       string
		MaxRetries  int
		BaseBackoff time.Duration
		OutboundURL string
	}
}

func New() *Config {
	// .env is optional; real env vars always win
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.App.ENV = getEnvDefault("APP_ENV", "development")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "habesha_match")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.Driver = strings.ToLower(getEnvDefault("DB_DRIVER", "mysql"))
	if url := strings.TrimSpace(os.Getenv("DATABASE_URL")); url != "" {
		cfg.DB.Driver = "postgres"
		cfg.DB.DSN = url
	}
	if cfg.DB.DSN == "" {
		cfg.DB.DSN = os.Getenv("MYSQL_DSN")
	}
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "habesha")

		switch cfg.DB.Driver {
		case "postgres":
			cfg.DB.Port = getEnvDefault("DB_PORT", "5432")
			cfg.DB.DSN = fmt.Sprintf(
				"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
				cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name,
			)
		case "sqlite":
			cfg.DB.DSN = getEnvDefault("DB_PATH", "habesha.db")
		default:
			cfg.DB.Driver = "mysql"
			cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
			cfg.DB.DSN = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
				cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
			)
		}
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	cfg.Redis.DB = getIntDefault("REDIS_DB", 0)

	// gRPC
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", "127.0.0.1")
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", "50051")

	// HTTP (webhook + metrics)
	cfg.HTTP.Addr = getEnvDefault("HTTP_ADDR", ":8080")
	cfg.HTTP.WebhookSecret = os.Getenv("WEBHOOK_SECRET")

	// Bot behaviour
	cfg.Bot.DailyLikeLimit = getIntDefault("DAILY_LIKE_LIMIT", 50)
	cfg.Bot.CandidatePageSize = getIntDefault("CANDIDATE_PAGE_SIZE", 20)
	cfg.Bot.SessionTTL = getDurationDefault("SESSION_TTL", 0)
	cfg.Bot.SeenTTL = getDurationDefault("SEEN_TTL", 24*time.Hour)
	cfg.Bot.InboundRPS = getFloatDefault("INBOUND_RPS", 5)
	cfg.Bot.InboundBurst = getIntDefault("INBOUND_BURST", 10)

	// Notifications
	cfg.Notify.Queue = getEnvDefault("NOTIFY_QUEUE", "notify:matches")
	cfg.Notify.MaxRetries = getIntDefault("NOTIFY_MAX_RETRIES", 3)
	cfg.Notify.BaseBackoff = getDurationDefault("NOTIFY_BASE_BACKOFF", 500*time.Millisecond)
	cfg.Notify.OutboundURL = getEnvDefault("NOTIFY_OUTBOUND_URL", "")

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getIntDefault(k string, def int) int {
	if n, err := strconv.Atoi(getEnvDefault(k, "")); err == nil {
		return n
	}
	return def
}

func getFloatDefault(k string, def float64) float64 {
	if f, err := strconv.ParseFloat(getEnvDefault(k, ""), 64); err == nil {
		return f
	}
	return def
}

func getDurationDefault(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnvDefault(k, "")); err == nil && d >= 0 {
		return d
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
