package match_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/habesha-match/internal/app"
	"github.com/oggyb/habesha-match/internal/config"
	"github.com/oggyb/habesha-match/internal/db"
	apperrors "github.com/oggyb/habesha-match/internal/errors"
	"github.com/oggyb/habesha-match/internal/i18n"
	"github.com/oggyb/habesha-match/internal/logger"
	"github.com/oggyb/habesha-match/internal/metrics"
	"github.com/oggyb/habesha-match/internal/notify"
	"github.com/oggyb/habesha-match/internal/service/match"
)

type recordingNotifier struct {
	mu   sync.Mutex
	jobs []notify.Job
	err  error
}

func (r *recordingNotifier) Enqueue(_ context.Context, jobs ...notify.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.jobs = append(r.jobs, jobs...)
	return nil
}

func (r *recordingNotifier) recipients() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint64, len(r.jobs))
	for i, j := range r.jobs {
		out[i] = j.RecipientID
	}
	return out
}

type fixture struct {
	db  *gorm.DB
	svc *match.Service
	q   *recordingNotifier
	m   *metrics.Metrics
}

func setup(t *testing.T) *fixture {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(database))

	cfg := &config.Config{}
	cfg.Bot.DailyLikeLimit = 50
	m := metrics.New()
	q := &recordingNotifier{}
	appCtx := app.New(cfg, database, nil, logger.Discard(), m)
	return &fixture{db: database, svc: match.NewMatchService(appCtx, q), q: q, m: m}
}

func (f *fixture) user(t *testing.T, ext int64, mods ...func(*db.User)) *db.User {
	t.Helper()
	age, g, p := 25, db.GenderMale, db.PreferBoth
	u := db.User{
		ExternalID:    ext,
		Language:      "en",
		FullName:      fmt.Sprintf("user-%d", ext),
		Age:           &age,
		Gender:        &g,
		Preference:    &p,
		IsActive:      true,
		NotifyMatches: true,
		LastLikeReset: time.Now().UTC(),
	}
	for _, m := range mods {
		m(&u)
	}
	require.NoError(t, f.db.Create(&u).Error)
	return &u
}

func (f *fixture) likesToday(t *testing.T, id uint64) int {
	t.Helper()
	var u db.User
	require.NoError(t, f.db.First(&u, id).Error)
	return u.LikesToday
}

func TestLike_OneWayIsNoMatch(t *testing.T) {
	f := setup(t)
	a, b := f.user(t, 1), f.user(t, 2)

	res, err := f.svc.Like(context.Background(), a, b.ID)
	require.NoError(t, err)
	assert.Equal(t, match.OutcomeNoMatch, res.Outcome)
	assert.False(t, res.Matched())
	assert.Equal(t, i18n.T(i18n.English, i18n.LikeSent), res.Reply.Text)
	assert.Equal(t, 1, f.likesToday(t, a.ID))
	assert.Empty(t, f.q.recipients())
}

func TestLike_MutualQueuesBothOnce(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a, b := f.user(t, 1), f.user(t, 2)

	_, err := f.svc.Like(ctx, a, b.ID)
	require.NoError(t, err)
	res, err := f.svc.Like(ctx, b, a.ID)
	require.NoError(t, err)
	assert.True(t, res.Matched())
	assert.Equal(t, i18n.T(i18n.English, i18n.ItsAMatch), res.Reply.Text)
	assert.ElementsMatch(t, []uint64{a.ID, b.ID}, f.q.recipients())

	// repeating either like changes nothing
	res, err = f.svc.Like(ctx, b, a.ID)
	require.NoError(t, err)
	assert.Equal(t, match.OutcomeDuplicate, res.Outcome)
	assert.Equal(t, 1, f.likesToday(t, b.ID))
	assert.Len(t, f.q.recipients(), 2)

	var rows int64
	require.NoError(t, f.db.Model(&db.Match{}).Count(&rows).Error)
	assert.EqualValues(t, 2, rows)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.m.MatchesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.m.Likes.WithLabelValues("duplicate")))
}

func TestLike_EnqueueFailureKeepsMatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.q.err = errors.New("redis down")
	a, b := f.user(t, 1), f.user(t, 2)

	_, err := f.svc.Like(ctx, a, b.ID)
	require.NoError(t, err)
	res, err := f.svc.Like(ctx, b, a.ID)
	require.NoError(t, err)
	assert.True(t, res.Matched())

	var rows int64
	require.NoError(t, f.db.Model(&db.Match{}).Count(&rows).Error)
	assert.EqualValues(t, 2, rows)
}

func TestLike_Errors(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.user(t, 1)

	_, err := f.svc.Like(ctx, a, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrSelf)
	_, err = f.svc.Like(ctx, a, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, f.svc.Dislike(ctx, a, a.ID), apperrors.ErrSelf)
	assert.NoError(t, f.svc.Dislike(ctx, a, 999))
}

func TestLike_Quota(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	atLimit := func(u *db.User) { u.LikesToday = 50 }
	regular := f.user(t, 1, atLimit)
	vip := f.user(t, 2, atLimit, func(u *db.User) { u.IsPremium = true })
	target := f.user(t, 3)

	res, err := f.svc.Like(ctx, regular, target.ID)
	require.NoError(t, err)
	assert.Equal(t, match.OutcomeQuota, res.Outcome)
	assert.Equal(t, 50, f.likesToday(t, regular.ID))

	res, err = f.svc.Like(ctx, vip, target.ID)
	require.NoError(t, err)
	assert.Equal(t, match.OutcomeNoMatch, res.Outcome)
	assert.Equal(t, 51, f.likesToday(t, vip.ID))

	f.svc.SetClock(func() time.Time { return time.Now().UTC().Add(25 * time.Hour) })
	res, err = f.svc.Like(ctx, regular, target.ID)
	require.NoError(t, err)
	assert.Equal(t, match.OutcomeNoMatch, res.Outcome)
	assert.Equal(t, 1, f.likesToday(t, regular.ID))
}

func TestLike_ConcurrentReciprocal(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	const pairs = 8
	users := make([]*db.User, pairs*2)
	for i := range users {
		users[i] = f.user(t, int64(i+1))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	matched := 0
	for p := 0; p < pairs; p++ {
		a, b := users[2*p], users[2*p+1]
		for _, dir := range [][2]*db.User{{a, b}, {b, a}} {
			wg.Add(1)
			go func(from, to *db.User) {
				defer wg.Done()
				res, err := f.svc.Like(ctx, from, to.ID)
				if assert.NoError(t, err) && res.Matched() {
					mu.Lock()
					matched++
					mu.Unlock()
				}
			}(dir[0], dir[1])
		}
	}
	wg.Wait()

	assert.Equal(t, pairs, matched)
	assert.Len(t, f.q.recipients(), pairs*2)
	var rows int64
	require.NoError(t, f.db.Model(&db.Match{}).Count(&rows).Error)
	assert.EqualValues(t, pairs*2, rows)
}

func TestListMatches(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	me := f.user(t, 1)

	reply, err := f.svc.ListMatches(ctx, me, "")
	require.NoError(t, err)
	assert.Equal(t, i18n.T(i18n.English, i18n.NoMatches), reply.Text)

	for i := 0; i < 12; i++ {
		peer := f.user(t, int64(100+i))
		_, err := f.svc.Like(ctx, peer, me.ID)
		require.NoError(t, err)
		_, err = f.svc.Like(ctx, me, peer.ID)
		require.NoError(t, err)
	}

	reply, err = f.svc.ListMatches(ctx, me, "")
	require.NoError(t, err)
	assert.Equal(t, 10, strings.Count(reply.Text, "• <b>"))
	assert.NotContains(t, reply.Text, "<b>user-100</b>")
	require.Len(t, reply.Keyboard, 2)

	token, ok := match.ParsePageChoice(reply.Keyboard[0][0].Data)
	require.True(t, ok)
	require.NotEmpty(t, token)

	reply, err = f.svc.ListMatches(ctx, me, token)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(reply.Text, "• <b>"))
	assert.Contains(t, reply.Text, "<b>user-100</b>")
	assert.NotContains(t, reply.Text, "1. ")
	require.Len(t, reply.Keyboard, 1)
	assert.Equal(t, match.ChoiceMainMenu, reply.Keyboard[0][0].Data)

	_, err = f.svc.ListMatches(ctx, me, "%%%")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
