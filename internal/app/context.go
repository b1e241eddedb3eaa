package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/habesha-match/internal/cache"
	"github.com/oggyb/habesha-match/internal/config"
	"github.com/oggyb/habesha-match/internal/metrics"
)

// AppContext holds shared dependencies (Config, DB, Redis, Logger, Metrics)
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// New creates a new AppContext. A nil metrics bundle is replaced by a fresh one.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, m *metrics.Metrics) *AppContext {
	if m == nil {
		m = metrics.New()
	}
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Metrics:    m,
	}
}
