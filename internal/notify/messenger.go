package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/oggyb/habesha-match/internal/chat"
	"github.com/oggyb/habesha-match/internal/logger"
)

// Messenger pushes one message to a user of the messaging channel.
type Messenger interface {
	Send(ctx context.Context, externalID int64, reply chat.Reply) error
}

// LogMessenger only logs what would be sent. Used when no outbound URL is configured.
type LogMessenger struct {
	Log *slog.Logger
}

func (m LogMessenger) Send(_ context.Context, externalID int64, reply chat.Reply) error {
	log := m.Log
	if log == nil {
		log = logger.L()
	}
	log.Info("outbound message", "user", logger.UserRef(externalID), "chars", len(reply.Text))
	return nil
}

// HTTPError is a non-2xx answer from the outbound endpoint.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("outbound http %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed later.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsRetryable reports whether err is worth another attempt.
// Transport errors are; client errors other than 429 are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Retryable()
	}
	return true
}

// HTTPMessenger posts messages as JSON to the channel's outbound gateway.
type HTTPMessenger struct {
	url    string
	client *http.Client
}

// NewHTTPMessenger creates a messenger posting to url.
func NewHTTPMessenger(url string, timeout time.Duration) *HTTPMessenger {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPMessenger{
		url:    strings.TrimSpace(url),
		client: &http.Client{Timeout: timeout},
	}
}

type outboundMessage struct {
	ChatID int64 `json:"chat_id"`
	chat.Reply
}

func (m *HTTPMessenger) Send(ctx context.Context, externalID int64, reply chat.Reply) error {
	body, err := json.Marshal(outboundMessage{ChatID: externalID, Reply: reply})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
}
