package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/habesha-match/internal/chat"
	"github.com/oggyb/habesha-match/internal/db"
	apperrors "github.com/oggyb/habesha-match/internal/errors"
	"github.com/oggyb/habesha-match/internal/i18n"
	"github.com/oggyb/habesha-match/internal/logger"
	"github.com/oggyb/habesha-match/internal/metrics"
	"github.com/oggyb/habesha-match/internal/notify"
)

type fakeUsers map[uint64]*db.User

func (f fakeUsers) GetUserByID(_ context.Context, id uint64) (*db.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

type sent struct {
	to    int64
	reply chat.Reply
}

type fakeMessenger struct {
	mu    sync.Mutex
	fails int
	err   error
	calls int
	out   []sent
}

func (f *fakeMessenger) Send(_ context.Context, to int64, reply chat.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.fails {
		return f.err
	}
	f.out = append(f.out, sent{to: to, reply: reply})
	return nil
}

func users() fakeUsers {
	return fakeUsers{
		1: {ID: 1, ExternalID: 1001, FullName: "Abel", Language: "en", IsActive: true, NotifyMatches: true},
		2: {ID: 2, ExternalID: 1002, FullName: "Hana", Language: "am", IsActive: true, NotifyMatches: true},
		3: {ID: 3, ExternalID: 1003, FullName: "Quiet", Language: "en", IsActive: true, NotifyMatches: false},
	}
}

func cfg() notify.WorkerConfig {
	return notify.WorkerConfig{MaxRetries: 3, BaseBackoff: time.Millisecond, PollTimeout: 10 * time.Millisecond}
}

func TestRedisQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	q := notify.NewRedisQueue(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "notify:test")

	now := time.Now().UTC().Truncate(time.Millisecond)
	a, b := notify.NewJob(1, 2, now), notify.NewJob(2, 1, now)
	assert.NotEqual(t, a.ID, b.ID)
	require.NoError(t, q.Enqueue(ctx, a, b))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got, err := q.Dequeue(ctx, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, uint64(1), got.RecipientID)
	assert.True(t, now.Equal(got.MatchedAt))

	got, err = q.Dequeue(ctx, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = q.Dequeue(ctx, 10*time.Millisecond)
	assert.ErrorIs(t, err, notify.ErrEmpty)
}

func TestMemoryQueue(t *testing.T) {
	ctx := context.Background()
	q := notify.NewMemoryQueue(4)
	require.NoError(t, q.Enqueue(ctx, notify.NewJob(1, 2, time.Now())))
	assert.Equal(t, 1, q.Len())

	_, err := q.Dequeue(ctx, time.Millisecond)
	require.NoError(t, err)
	_, err = q.Dequeue(ctx, time.Millisecond)
	assert.ErrorIs(t, err, notify.ErrEmpty)
}

func TestDeliver_RendersInRecipientLanguage(t *testing.T) {
	m := metrics.New()
	msg := &fakeMessenger{}
	w := notify.NewWorker(notify.NewMemoryQueue(1), users(), msg, cfg(), m, logger.Discard())

	require.NoError(t, w.Deliver(context.Background(), notify.NewJob(2, 1, time.Now())))

	require.Len(t, msg.out, 1)
	assert.Equal(t, int64(1002), msg.out[0].to)
	assert.Contains(t, msg.out[0].reply.Text, "Abel")
	assert.Contains(t, msg.out[0].reply.Text, "ተመሳሳይነት")
	require.Len(t, msg.out[0].reply.Keyboard, 1)
	assert.Equal(t, notify.ChoiceMatches, msg.out[0].reply.Keyboard[0][0].Data)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("sent")))
}

func TestRender_EscapesPeerName(t *testing.T) {
	reply := notify.Render(i18n.English, "<Abel & Co>")
	assert.Contains(t, reply.Text, "&lt;Abel &amp; Co&gt;")
	assert.NotContains(t, reply.Text, "<Abel")
}

func TestDeliver_RespectsPreference(t *testing.T) {
	m := metrics.New()
	msg := &fakeMessenger{}
	w := notify.NewWorker(notify.NewMemoryQueue(1), users(), msg, cfg(), m, logger.Discard())

	require.NoError(t, w.Deliver(context.Background(), notify.NewJob(3, 1, time.Now())))
	require.NoError(t, w.Deliver(context.Background(), notify.NewJob(99, 1, time.Now())))

	assert.Zero(t, msg.calls)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Notifications.WithLabelValues("skipped")))
}

func TestDeliver_RetriesThenSucceeds(t *testing.T) {
	m := metrics.New()
	msg := &fakeMessenger{fails: 2, err: errors.New("connection reset")}
	w := notify.NewWorker(notify.NewMemoryQueue(1), users(), msg, cfg(), m, logger.Discard())

	require.NoError(t, w.Deliver(context.Background(), notify.NewJob(1, 2, time.Now())))
	assert.Equal(t, 3, msg.calls)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Notifications.WithLabelValues("retry")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("sent")))
}

func TestDeliver_GivesUp(t *testing.T) {
	m := metrics.New()
	msg := &fakeMessenger{fails: 100, err: errors.New("connection reset")}
	w := notify.NewWorker(notify.NewMemoryQueue(1), users(), msg, cfg(), m, logger.Discard())

	err := w.Deliver(context.Background(), notify.NewJob(1, 2, time.Now()))
	assert.ErrorIs(t, err, apperrors.ErrDelivery)
	assert.Equal(t, 4, msg.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("failed")))
}

func TestDeliver_ClientErrorNotRetried(t *testing.T) {
	msg := &fakeMessenger{fails: 100, err: &notify.HTTPError{StatusCode: http.StatusBadRequest}}
	w := notify.NewWorker(notify.NewMemoryQueue(1), users(), msg, cfg(), nil, logger.Discard())

	err := w.Deliver(context.Background(), notify.NewJob(1, 2, time.Now()))
	assert.ErrorIs(t, err, apperrors.ErrDelivery)
	assert.Equal(t, 1, msg.calls)
}

func TestRun_DrainsQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := notify.NewMemoryQueue(4)
	msg := &fakeMessenger{}
	w := notify.NewWorker(q, users(), msg, cfg(), nil, logger.Discard())

	now := time.Now()
	require.NoError(t, q.Enqueue(ctx, notify.NewJob(1, 2, now), notify.NewJob(2, 1, now)))

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		msg.mu.Lock()
		defer msg.mu.Unlock()
		return len(msg.out) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestHTTPMessenger(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body["chat_id"] != float64(1001) || body["text"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := notify.NewHTTPMessenger(srv.URL, time.Second)
	err := m.Send(context.Background(), 1001, chat.Reply{Text: "hi"})
	var he *notify.HTTPError
	require.ErrorAs(t, err, &he)
	assert.True(t, he.Retryable())
	assert.True(t, notify.IsRetryable(err))

	require.NoError(t, m.Send(context.Background(), 1001, chat.Reply{Text: "hi"}))
	assert.False(t, notify.IsRetryable(&notify.HTTPError{StatusCode: http.StatusForbidden}))
	assert.False(t, notify.IsRetryable(context.Canceled))
}
