package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("WEBHOOK_SECRET", "")

	cfg := New()

	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "@tcp(localhost:3306)/habesha")
	assert.Equal(t, 50, cfg.Bot.DailyLikeLimit)
	assert.Equal(t, 24*time.Hour, cfg.Bot.SeenTTL)
	assert.Equal(t, time.Duration(0), cfg.Bot.SessionTTL)
	assert.Equal(t, "notify:matches", cfg.Notify.Queue)
	assert.Empty(t, cfg.HTTP.WebhookSecret)
}

func TestNew_DatabaseURLSelectsPostgres(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/habesha")

	cfg := New()

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/habesha", cfg.DB.DSN)
}

func TestNew_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("DAILY_LIKE_LIMIT", "lots")
	t.Setenv("SEEN_TTL", "-5m")
	t.Setenv("INBOUND_RPS", "2.5")

	cfg := New()

	assert.Equal(t, 50, cfg.Bot.DailyLikeLimit)
	assert.Equal(t, 24*time.Hour, cfg.Bot.SeenTTL)
	assert.Equal(t, 2.5, cfg.Bot.InboundRPS)
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", " on "} {
		assert.True(t, isTruthy(v), v)
	}
	for _, v := range []string{"", "0", "off", "nope"} {
		assert.False(t, isTruthy(v), v)
	}
}
