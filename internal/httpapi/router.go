// Package httpapi is the HTTP surface of the bot: the messenger webhook,
// liveness and dependency health, and Prometheus metrics.
//
// Routes:
//
//	POST /webhook   one inbound event (bot.Update as JSON)
//	GET  /healthz   pings every registered dependency
//	GET  /metrics   Prometheus exposition of the app registry
//
// Webhook events are acknowledged with 202 once queued on the sender's
// dispatch lane; replies go out through the outbound notify.Messenger when
// the lane runs the event.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/habesha-match/internal/bot"
	"github.com/oggyb/habesha-match/internal/chat"
	"github.com/oggyb/habesha-match/internal/dispatch"
	"github.com/oggyb/habesha-match/internal/logger"
	"github.com/oggyb/habesha-match/internal/metrics"
	"github.com/oggyb/habesha-match/internal/notify"
)

// maxBodyBytes caps webhook payloads; real updates are a few hundred bytes.
const maxBodyBytes = 64 << 10

// Handler processes one inbound event. *bot.Router satisfies it.
type Handler interface {
	Handle(ctx context.Context, up bot.Update) ([]chat.Reply, error)
}

// Submitter queues work on a user's lane. *dispatch.Dispatcher satisfies it.
type Submitter interface {
	Submit(userID int64, job dispatch.Job) error
}

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

// Deps are the collaborators of the HTTP layer.
type Deps struct {
	Handler    Handler
	Dispatcher Submitter
	Messenger  notify.Messenger
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	// Secret, when non-empty, is required in the X-Webhook-Secret header.
	Secret string
	// Checks are run by /healthz, keyed by dependency name.
	Checks map[string]Check
	// HandleTimeout bounds one event's processing; 0 means 10s.
	HandleTimeout time.Duration
}

// NewRouter builds the gin engine with middleware and routes registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = logger.L()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if d.HandleTimeout <= 0 {
		d.HandleTimeout = 10 * time.Second
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestMetrics(d.Metrics))
	RegisterRoutes(r, d)
	return r
}

// RegisterRoutes attaches the bot routes to an existing engine.
func RegisterRoutes(r *gin.Engine, d Deps) {
	h := &handlers{deps: d, log: d.Logger.With("component", "httpapi")}

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, codeNotFound, "route not found")
	})

	r.GET("/healthz", h.health)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	hook := r.Group("/webhook")
	hook.Use(limitBody(maxBodyBytes))
	if d.Secret != "" {
		hook.Use(requireSecret(d.Secret))
	}
	hook.POST("", h.webhook)
}
