package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/oggyb/habesha-match/internal/chat"
	"github.com/oggyb/habesha-match/internal/db"
	apperrors "github.com/oggyb/habesha-match/internal/errors"
	"github.com/oggyb/habesha-match/internal/i18n"
	"github.com/oggyb/habesha-match/internal/logger"
	"github.com/oggyb/habesha-match/internal/metrics"
)

// ChoiceMatches is the callback data of the "my matches" button on a notification.
const ChoiceMatches = "menu:matches"

// Users loads notification recipients.
type Users interface {
	GetUserByID(ctx context.Context, id uint64) (*db.User, error)
}

// WorkerConfig tunes delivery.
type WorkerConfig struct {
	// MaxRetries is the number of extra attempts after the first one.
	MaxRetries int
	// BaseBackoff is the wait before the first retry; it doubles each time.
	BaseBackoff time.Duration
	// PollTimeout bounds each blocking dequeue; 0 means 1s.
	PollTimeout time.Duration
}

// Worker consumes match notification jobs.
type Worker struct {
	queue     Queue
	users     Users
	messenger Messenger
	cfg       WorkerConfig
	metrics   *metrics.Metrics
	log       *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewWorker wires a worker. m may be nil.
func NewWorker(q Queue, users Users, messenger Messenger, cfg WorkerConfig, m *metrics.Metrics, log *slog.Logger) *Worker {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = time.Second
	}
	if log == nil {
		log = logger.L()
	}
	return &Worker{
		queue:     q,
		users:     users,
		messenger: messenger,
		cfg:       cfg,
		metrics:   m,
		log:       log,
		sleep:     sleepCtx,
	}
}

// Run drains the queue until ctx is done. Individual delivery failures are
// logged and never stop the loop.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("notification worker started")
	for {
		job, err := w.queue.Dequeue(ctx, w.cfg.PollTimeout)
		switch {
		case ctx.Err() != nil:
			w.log.Info("notification worker stopped")
			return nil
		case errors.Is(err, ErrEmpty):
			continue
		case err != nil:
			w.log.Warn("notification dequeue failed", "err", err)
			if w.sleep(ctx, w.cfg.PollTimeout) != nil {
				return nil
			}
			continue
		}
		_ = w.Deliver(ctx, job)
	}
}

// Deliver sends one job.
//
// Behavior:
//   - Recipient gone or with match notifications off → skipped, nil.
//   - Retryable send errors are retried up to MaxRetries with doubling backoff.
//   - Final failure → logged and counted, returns an error wrapping ErrDelivery.
func (w *Worker) Deliver(ctx context.Context, job Job) error {
	log := w.log.With("job", job.ID)

	recipient, err := w.users.GetUserByID(ctx, job.RecipientID)
	if errors.Is(err, apperrors.ErrNotFound) {
		w.count("skipped")
		log.Info("notification skipped, recipient gone", "recipient", job.RecipientID)
		return nil
	} else if err != nil {
		return w.fail(log, job, err)
	}
	if !recipient.NotifyMatches || !recipient.IsActive {
		w.count("skipped")
		log.Debug("notification skipped by preference", "user", logger.UserRef(recipient.ExternalID))
		return nil
	}

	peerName := "?"
	if peer, err := w.users.GetUserByID(ctx, job.PeerID); err == nil {
		peerName = peer.FullName
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return w.fail(log, job, err)
	}

	reply := Render(recipient.Lang(), peerName)

	backoff := w.cfg.BaseBackoff
	for attempt := 0; ; attempt++ {
		err = w.messenger.Send(ctx, recipient.ExternalID, reply)
		if err == nil {
			w.count("sent")
			log.Info("notification sent", "user", logger.UserRef(recipient.ExternalID), "attempts", attempt+1)
			return nil
		}
		if attempt >= w.cfg.MaxRetries || !IsRetryable(err) {
			break
		}
		w.count("retry")
		log.Warn("notification retrying",
			"attempt", attempt+1,
			"max_retries", w.cfg.MaxRetries,
			"sleep", backoff.String(),
			"err", err,
		)
		if w.sleep(ctx, backoff) != nil {
			err = ctx.Err()
			break
		}
		backoff *= 2
	}
	return w.fail(log, job, err)
}

func (w *Worker) fail(log *slog.Logger, job Job, err error) error {
	w.count("failed")
	log.Error("notification failed", "recipient", job.RecipientID, "peer", job.PeerID, "err", err)
	return fmt.Errorf("%w: %v", apperrors.ErrDelivery, err)
}

func (w *Worker) count(result string) {
	if w.metrics != nil {
		w.metrics.Notifications.WithLabelValues(result).Inc()
	}
}

// Render builds the new-match message for a recipient speaking lang. The text
// is HTML, so peerName is escaped.
func Render(lang i18n.Lang, peerName string) chat.Reply {
	return chat.Reply{
		Text:     i18n.T(lang, i18n.NewMatch, html.EscapeString(peerName)),
		Keyboard: [][]chat.Button{chat.Row(chat.Button{Text: i18n.T(lang, i18n.BtnMatches), Data: ChoiceMatches})},
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
