// Package notify delivers match notifications outside the match transaction.
//
// The match service enqueues one Job per participant after the match rows are
// committed. A Worker drains the queue, renders the message in the
// recipient's language and hands it to a Messenger with bounded retries.
// Delivery failures are logged and counted; they never touch match data.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrEmpty is returned by Dequeue when nothing arrived before the timeout.
var ErrEmpty = errors.New("queue empty")

// Job asks for RecipientID to be told about a new match with PeerID.
type Job struct {
	ID          string    `json:"id"`
	RecipientID uint64    `json:"recipient_id"`
	PeerID      uint64    `json:"peer_id"`
	MatchedAt   time.Time `json:"matched_at"`
}

// NewJob stamps a fresh job id.
func NewJob(recipientID, peerID uint64, matchedAt time.Time) Job {
	return Job{ID: uuid.NewString(), RecipientID: recipientID, PeerID: peerID, MatchedAt: matchedAt}
}

// Queue is a FIFO of notification jobs.
type Queue interface {
	Enqueue(ctx context.Context, jobs ...Job) error
	Dequeue(ctx context.Context, timeout time.Duration) (Job, error)
}

// RedisQueue is a Redis list: LPUSH to enqueue, BRPOP to dequeue.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue binds a queue to the list at key.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

// Enqueue pushes all jobs in one round trip.
func (q *RedisQueue) Enqueue(ctx context.Context, jobs ...Job) error {
	if len(jobs) == 0 {
		return nil
	}
	values := make([]any, len(jobs))
	for i, j := range jobs {
		raw, err := json.Marshal(j)
		if err != nil {
			return fmt.Errorf("encode job: %w", err)
		}
		values[i] = raw
	}
	return q.client.LPush(ctx, q.key, values...).Err()
}

// Dequeue blocks up to timeout for the oldest job.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (Job, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return Job{}, ErrEmpty
	} else if err != nil {
		return Job{}, err
	}
	var j Job
	if err := json.Unmarshal([]byte(res[1]), &j); err != nil {
		return Job{}, fmt.Errorf("decode job: %w", err)
	}
	return j, nil
}

// Len reports queued jobs.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// MemoryQueue is a bounded in-process queue for tests and development.
type MemoryQueue struct {
	ch chan Job
}

// NewMemoryQueue creates a queue holding up to size jobs.
func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{ch: make(chan Job, size)}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, jobs ...Job) error {
	for _, j := range jobs {
		select {
		case q.ch <- j:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (q *MemoryQueue) Dequeue(ctx context.Context, timeout time.Duration) (Job, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case j := <-q.ch:
		return j, nil
	case <-timer.C:
		return Job{}, ErrEmpty
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}

// Len reports queued jobs.
func (q *MemoryQueue) Len() int { return len(q.ch) }
