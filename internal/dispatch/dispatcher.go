// Package dispatch runs inbound events in arrival order per user while
// different users proceed in parallel.
//
// Each user gets a lane: a FIFO of jobs drained by at most one goroutine.
// The goroutine exits when the lane empties, so idle users cost nothing.
// A per-user token bucket (golang.org/x/time/rate) drops floods before they
// are queued; idle buckets are evicted opportunistically.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/oggyb/habesha-match/internal/errors"
	"github.com/oggyb/habesha-match/internal/metrics"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("dispatcher closed")

// Job is one unit of work for a user.
type Job func(ctx context.Context)

// Options configures a Dispatcher.
type Options struct {
	// RPS and Burst size each user's token bucket. RPS <= 0 disables flood control.
	RPS   float64
	Burst int
	// MaxPending caps queued jobs per user; 0 means 64.
	MaxPending int
	// IdleTTL evicts rate buckets unused for this long; 0 means 10m.
	IdleTTL time.Duration
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

type lane struct {
	jobs []Job
}

// visitor holds a single rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Dispatcher serializes jobs per user. Safe for concurrent use.
type Dispatcher struct {
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	lanes    map[int64]*lane
	visitors map[int64]*visitor
	lookups  uint64
	closed   bool
	wg       sync.WaitGroup
}

// New creates a dispatcher. Jobs receive a context cancelled by Close.
func New(opts Options) *Dispatcher {
	if opts.MaxPending <= 0 {
		opts.MaxPending = 64
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 10 * time.Minute
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		lanes:    make(map[int64]*lane),
		visitors: make(map[int64]*visitor),
	}
}

// Submit queues job on the user's lane.
//
// Behavior:
//   - Jobs for one user run one at a time in submission order.
//   - Over the rate or the pending cap → apperrors.ErrThrottled, job dropped.
//   - After Close → ErrClosed.
func (d *Dispatcher) Submit(userID int64, job Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if !d.allow(userID) {
		d.throttled()
		return apperrors.ErrThrottled
	}

	l, running := d.lanes[userID]
	if !running {
		l = &lane{}
		d.lanes[userID] = l
	}
	if len(l.jobs) >= d.opts.MaxPending {
		d.throttled()
		return apperrors.ErrThrottled
	}
	l.jobs = append(l.jobs, job)
	if !running {
		d.wg.Add(1)
		go d.drain(userID, l)
	}
	return nil
}

func (d *Dispatcher) drain(userID int64, l *lane) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		if len(l.jobs) == 0 {
			delete(d.lanes, userID)
			d.mu.Unlock()
			return
		}
		job := l.jobs[0]
		l.jobs[0] = nil
		l.jobs = l.jobs[1:]
		d.mu.Unlock()

		d.run(userID, job)
	}
}

func (d *Dispatcher) run(userID int64, job Job) {
	defer func() {
		if r := recover(); r != nil {
			d.opts.Logger.Error("dispatch job panicked", "panic", r)
		}
	}()
	job(d.ctx)
}

// allow consults the user's bucket; d.mu must be held.
// Runs GC of idle buckets before touching the requested one.
func (d *Dispatcher) allow(userID int64) bool {
	if d.opts.RPS <= 0 {
		return true
	}
	now := time.Now()

	d.lookups++
	if d.lookups >= 5000 {
		for k, v := range d.visitors {
			if now.Sub(v.lastSeen) >= d.opts.IdleTTL {
				delete(d.visitors, k)
			}
		}
		d.lookups = 0
	}

	v, ok := d.visitors[userID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(d.opts.RPS), d.opts.Burst)}
		d.visitors[userID] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (d *Dispatcher) throttled() {
	if d.opts.Metrics != nil {
		d.opts.Metrics.InboundThrottled.Inc()
	}
}

// Pending reports the number of users with queued or running jobs.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lanes)
}

// Close stops accepting jobs and waits for queued ones to finish.
// If ctx ends first, running jobs see their context cancelled.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}
