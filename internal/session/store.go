// Package session stores in-progress dialogue sessions.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/habesha-match/internal/dialogue"
)

// RedisStore keeps sessions as JSON under "session:<external id>".
// A zero TTL keeps sessions until commit or cancel.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// KeyForSession generates the Redis key for a user's session.
func KeyForSession(externalID int64) string {
	return fmt.Sprintf("session:%d", externalID)
}

func (r *RedisStore) Get(ctx context.Context, externalID int64) (*dialogue.Session, error) {
	raw, err := r.client.Get(ctx, KeyForSession(externalID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, dialogue.ErrNoSession
	} else if err != nil {
		return nil, err
	}
	var s dialogue.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, externalID int64, s *dialogue.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.client.Set(ctx, KeyForSession(externalID), raw, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, externalID int64) error {
	return r.client.Del(ctx, KeyForSession(externalID)).Err()
}

// MemoryStore is an in-process store for tests and single-node development.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64][]byte
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64][]byte)}
}

// Get returns a private copy; mutating it does not touch the stored session.
func (m *MemoryStore) Get(_ context.Context, externalID int64) (*dialogue.Session, error) {
	m.mu.Lock()
	raw, ok := m.sessions[externalID]
	m.mu.Unlock()
	if !ok {
		return nil, dialogue.ErrNoSession
	}
	var s dialogue.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) Put(_ context.Context, externalID int64, s *dialogue.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[externalID] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, externalID int64) error {
	m.mu.Lock()
	delete(m.sessions, externalID)
	m.mu.Unlock()
	return nil
}

// Len reports how many sessions are held.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
