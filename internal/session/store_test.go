package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/habesha-match/internal/dialogue"
	"github.com/oggyb/habesha-match/internal/geo"
	"github.com/oggyb/habesha-match/internal/i18n"
	"github.com/oggyb/habesha-match/internal/session"
)

func sample() *dialogue.Session {
	age := 25
	pos, _ := geo.ZonePosition("Bole")
	return &dialogue.Session{
		Flow:      dialogue.FlowRegistration,
		State:     dialogue.StateInterests,
		Language:  i18n.Amharic,
		Name:      "Abel",
		Age:       &age,
		Gender:    "male",
		Position:  pos,
		Interests: []uint{1, 9},
	}
}

func exercise(t *testing.T, store dialogue.SessionStore) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, dialogue.ErrNoSession)

	require.NoError(t, store.Put(ctx, 1, sample()))
	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)

	// sessions are per user
	_, err = store.Get(ctx, 2)
	assert.ErrorIs(t, err, dialogue.ErrNoSession)

	require.NoError(t, store.Delete(ctx, 1))
	_, err = store.Get(ctx, 1)
	assert.ErrorIs(t, err, dialogue.ErrNoSession)

	// deleting twice is fine
	require.NoError(t, store.Delete(ctx, 1))
}

func TestMemoryStore(t *testing.T) {
	exercise(t, session.NewMemoryStore())
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	require.NoError(t, store.Put(ctx, 1, sample()))

	got, _ := store.Get(ctx, 1)
	got.Interests = append(got.Interests, 3)
	got.Name = "changed"

	again, _ := store.Get(ctx, 1)
	assert.Equal(t, "Abel", again.Name)
	assert.Equal(t, []uint{1, 9}, again.Interests)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	exercise(t, session.NewRedisStore(client, 0))
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewRedisStore(client, time.Hour)

	require.NoError(t, store.Put(ctx, 5, sample()))
	assert.Equal(t, time.Hour, mr.TTL(session.KeyForSession(5)))

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(ctx, 5)
	assert.ErrorIs(t, err, dialogue.ErrNoSession)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	store := session.NewRedisStore(client, 0)
	mr.Close()

	_, err = store.Get(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, dialogue.ErrNoSession)
}
