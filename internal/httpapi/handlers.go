package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/habesha-match/internal/bot"
	"github.com/oggyb/habesha-match/internal/dispatch"
	apperrors "github.com/oggyb/habesha-match/internal/errors"
	"github.com/oggyb/habesha-match/internal/logger"
)

const healthTimeout = 2 * time.Second

type handlers struct {
	deps Deps
	log  *slog.Logger
}

// webhook accepts one inbound event.
//
// Behavior:
//   - Malformed JSON or an event the router cannot interpret → 400.
//   - Sender over the flood limit → 429; shutting down → 503.
//   - Otherwise → 202 and the event runs on the sender's lane.
func (h *handlers) webhook(c *gin.Context) {
	var up bot.Update
	if err := c.ShouldBindJSON(&up); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return
	}
	if err := up.Validate(); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	switch err := h.deps.Dispatcher.Submit(up.UserID, h.job(up)); {
	case err == nil:
		c.JSON(http.StatusAccepted, AcceptedResponse{Status: "accepted"})
	case errors.Is(err, apperrors.ErrThrottled):
		fail(c, http.StatusTooManyRequests, codeThrottled, "slow down")
	case errors.Is(err, dispatch.ErrClosed):
		fail(c, http.StatusServiceUnavailable, codeUnavailable, "shutting down")
	default:
		h.log.Error("webhook submit failed", "err", err)
		fail(c, http.StatusServiceUnavailable, codeUnavailable, "try again later")
	}
}

// job runs the event through the router and sends whatever it replied,
// including the notice that accompanies a store failure.
func (h *handlers) job(up bot.Update) dispatch.Job {
	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, h.deps.HandleTimeout)
		defer cancel()

		user := logger.UserRef(up.UserID)
		replies, err := h.deps.Handler.Handle(ctx, up)
		if err != nil {
			h.log.Error("event handling failed", "user", user, "kind", up.Kind, "err", err)
		}
		for _, reply := range replies {
			if reply.IsZero() {
				continue
			}
			if err := h.deps.Messenger.Send(ctx, up.UserID, reply); err != nil {
				h.log.Warn("reply send failed", "user", user, "err", err)
			}
		}
	}
}

func (h *handlers) health(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}
	if len(h.deps.Checks) > 0 {
		resp.Checks = make(map[string]string, len(h.deps.Checks))
	}
	for name, check := range h.deps.Checks {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		err := check(ctx)
		cancel()
		if err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
