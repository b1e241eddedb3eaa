package bot_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/habesha-match/internal/app"
	"github.com/oggyb/habesha-match/internal/bot"
	"github.com/oggyb/habesha-match/internal/cache"
	"github.com/oggyb/habesha-match/internal/chat"
	"github.com/oggyb/habesha-match/internal/config"
	"github.com/oggyb/habesha-match/internal/db"
	"github.com/oggyb/habesha-match/internal/dialogue"
	apperrors "github.com/oggyb/habesha-match/internal/errors"
	"github.com/oggyb/habesha-match/internal/geo"
	"github.com/oggyb/habesha-match/internal/i18n"
	"github.com/oggyb/habesha-match/internal/logger"
	"github.com/oggyb/habesha-match/internal/metrics"
	"github.com/oggyb/habesha-match/internal/notify"
	"github.com/oggyb/habesha-match/internal/repository"
	"github.com/oggyb/habesha-match/internal/service/discovery"
	"github.com/oggyb/habesha-match/internal/service/match"
	"github.com/oggyb/habesha-match/internal/session"
)

type fixture struct {
	db     *gorm.DB
	router *bot.Router
	queue  *notify.MemoryQueue
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

	mr := miniredis.RunT(t)
	rc := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	cfg := &config.Config{}
	cfg.Bot.DailyLikeLimit = 50
	cfg.Bot.CandidatePageSize = 20
	cfg.Bot.SeenTTL = time.Hour

	m := metrics.New()
	appCtx := app.New(cfg, database, rc, logger.Discard(), m)
	users := repository.NewUserRepository(database)
	engine := dialogue.NewEngine(session.NewMemoryStore(), users, repository.NewReportRepository(database), m, logger.Discard())
	q := notify.NewMemoryQueue(16)

	return &fixture{
		db:     database,
		router: bot.NewRouter(appCtx, engine, discovery.NewDiscoveryService(appCtx), match.NewMatchService(appCtx, q)),
		queue:  q,
	}
}

func (f *fixture) user(t *testing.T, ext int64, gender, pref string, mods ...func(*db.User)) *db.User {
	t.Helper()
	age := 30
	u := db.User{
		ExternalID:    ext,
		Language:      "en",
		FullName:      fmt.Sprintf("user-%d", ext),
		Age:           &age,
		Gender:        &gender,
		Preference:    &pref,
		IsActive:      true,
		NotifyMatches: true,
		LastLikeReset: time.Now().UTC(),
	}
	p, _ := geo.ZonePosition("Bole")
	u.SetPosition(p)
	for _, m := range mods {
		m(&u)
	}
	require.NoError(t, f.db.Create(&u).Error)
	return &u
}

func (f *fixture) send(t *testing.T, up bot.Update) []chat.Reply {
	t.Helper()
	replies, err := f.router.Handle(context.Background(), up)
	require.NoError(t, err)
	return replies
}

func txt(user int64, s string) bot.Update { return bot.Update{UserID: user, Kind: bot.KindText, Text: s} }
func cb(user int64, data string) bot.Update {
	return bot.Update{UserID: user, Kind: bot.KindCallback, Data: data}
}

func texts(replies []chat.Reply) []string {
	out := make([]string, len(replies))
	for i, r := range replies {
		out[i] = r.Text
	}
	return out
}

func TestUnregisteredUserIsAskedToStart(t *testing.T) {
	f := setup(t)
	replies := f.send(t, cb(1, bot.ChoiceBrowse))
	assert.Equal(t, []string{i18n.T(i18n.English, i18n.ErrNeedRegister)}, texts(replies))
}

func TestRegistrationThroughRouter(t *testing.T) {
	f := setup(t)
	const me = 500

	replies := f.send(t, txt(me, "/start"))
	require.Len(t, replies, 1)
	assert.Equal(t, i18n.T(i18n.English, i18n.ChooseLanguage), replies[0].Text)

	steps := []bot.Update{
		cb(me, dialogue.LangChoice(i18n.Amharic)),
		txt(me, "Abel"),
		txt(me, "28"),
		cb(me, dialogue.GenderChoice(db.GenderMale)),
		cb(me, dialogue.PreferenceChoice(db.GenderFemale)),
		cb(me, dialogue.ChoiceChooseZone),
		cb(me, dialogue.ZoneChoice("Bole")),
		cb(me, dialogue.InterestChoice(1)),
		cb(me, dialogue.ChoiceInterestsDone),
		{UserID: me, Kind: bot.KindPhoto, PhotoID: "ph-1"},
	}
	for _, s := range steps {
		f.send(t, s)
	}
	replies = f.send(t, txt(me, "Coffee lover"))
	assert.Equal(t, []string{
		i18n.T(i18n.Amharic, i18n.RegistrationComplete),
		i18n.T(i18n.Amharic, i18n.MainMenu),
	}, texts(replies))

	var u db.User
	require.NoError(t, f.db.Where("external_id = ?", me).First(&u).Error)
	assert.Equal(t, "Bole", u.Position().Zone())
	assert.Equal(t, "am", u.Language)

	// /start again goes straight to the menu
	replies = f.send(t, txt(me, "/start"))
	assert.Equal(t, []string{i18n.T(i18n.Amharic, i18n.MainMenu)}, texts(replies))
}

func TestBrowseLikeAndMatch(t *testing.T) {
	f := setup(t)
	a := f.user(t, 1, db.GenderMale, db.GenderFemale)
	b := f.user(t, 2, db.GenderFemale, db.GenderMale)

	replies := f.send(t, cb(a.ExternalID, bot.ChoiceBrowse))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, b.FullName)

	replies = f.send(t, cb(a.ExternalID, discovery.ActionChoice(discovery.ActionLike, b.ID)))
	require.Len(t, replies, 2)
	assert.Equal(t, i18n.T(i18n.English, i18n.LikeSent), replies[0].Text)
	assert.Equal(t, 0, f.queue.Len())

	replies = f.send(t, cb(b.ExternalID, discovery.ActionChoice(discovery.ActionLike, a.ID)))
	require.NotEmpty(t, replies)
	assert.Equal(t, i18n.T(i18n.English, i18n.ItsAMatch), replies[0].Text)
	assert.Equal(t, 2, f.queue.Len())

	replies = f.send(t, cb(a.ExternalID, bot.ChoiceMatches))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, b.FullName)
}

func TestLikeUnknownTargetShowsUnavailable(t *testing.T) {
	f := setup(t)
	a := f.user(t, 1, db.GenderMale, db.GenderFemale)

	replies := f.send(t, cb(a.ExternalID, discovery.ActionChoice(discovery.ActionLike, 999)))
	require.Len(t, replies, 2)
	assert.Equal(t, i18n.T(i18n.English, i18n.ErrUnavailable), replies[0].Text)
	assert.Equal(t, i18n.T(i18n.English, i18n.NoCandidates), replies[1].Text)
}

func TestSettingsToggles(t *testing.T) {
	f := setup(t)
	a := f.user(t, 1, db.GenderMale, db.GenderFemale)

	replies := f.send(t, cb(a.ExternalID, bot.ChoiceToggleStealth))
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, i18n.T(i18n.English, i18n.WordOn))

	replies = f.send(t, cb(a.ExternalID, bot.ChoiceToggleNotify))
	assert.Contains(t, replies[0].Text, i18n.T(i18n.English, i18n.WordOff))

	replies = f.send(t, cb(a.ExternalID, bot.ChoiceToggleLanguage))
	assert.Equal(t, i18n.T(i18n.Amharic, i18n.LanguageChanged), replies[0].Text)
	assert.Contains(t, replies[1].Text, "ማስተካከያዎች")

	var u db.User
	require.NoError(t, f.db.First(&u, a.ID).Error)
	assert.True(t, u.IsStealth)
	assert.False(t, u.NotifyMatches)
	assert.Equal(t, "am", u.Language)
}

func TestLocationUpdateReturnsToSettings(t *testing.T) {
	f := setup(t)
	a := f.user(t, 1, db.GenderMale, db.GenderFemale)

	replies := f.send(t, cb(a.ExternalID, bot.ChoiceEditLocation))
	require.Len(t, replies, 1)
	assert.True(t, replies[0].RequestLocation)

	replies = f.send(t, bot.Update{UserID: a.ExternalID, Kind: bot.KindLocation, Lat: 9.03, Lon: 38.74})
	require.Len(t, replies, 2)
	assert.Equal(t, i18n.T(i18n.English, i18n.LocationUpdated), replies[0].Text)
	assert.Contains(t, replies[1].Text, "9.0300, 38.7400")
}

func TestReportFlow(t *testing.T) {
	f := setup(t)
	a := f.user(t, 1, db.GenderMale, db.GenderFemale)
	b := f.user(t, 2, db.GenderFemale, db.GenderMale)

	replies := f.send(t, cb(a.ExternalID, discovery.ActionChoice(discovery.ActionReport, 999)))
	assert.Equal(t, []string{i18n.T(i18n.English, i18n.ErrUnavailable)}, texts(replies))

	replies = f.send(t, cb(a.ExternalID, discovery.ActionChoice(discovery.ActionReport, a.ID)))
	assert.Equal(t, []string{i18n.T(i18n.English, i18n.ErrCannotSelf)}, texts(replies))

	replies = f.send(t, cb(a.ExternalID, discovery.ActionChoice(discovery.ActionReport, b.ID)))
	require.Len(t, replies, 1)
	assert.True(t, strings.HasPrefix(replies[0].Text, "⚠️"))

	// menu buttons do not escape the active dialogue
	f.send(t, cb(a.ExternalID, bot.ChoiceBrowse))

	replies = f.send(t, txt(a.ExternalID, "fake profile"))
	assert.Equal(t, []string{
		i18n.T(i18n.English, i18n.ReportReceived),
		i18n.T(i18n.English, i18n.MainMenu),
	}, texts(replies))

	n, err := repository.NewReportRepository(f.db).CountReports(context.Background(), b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCommands(t *testing.T) {
	f := setup(t)
	a := f.user(t, 1, db.GenderMale, db.GenderFemale, func(u *db.User) { u.Language = "am" })

	assert.Equal(t, []string{i18n.T(i18n.Amharic, i18n.Help)}, texts(f.send(t, txt(a.ExternalID, "/help"))))
	assert.Equal(t, []string{i18n.T(i18n.Amharic, i18n.Safety)}, texts(f.send(t, txt(a.ExternalID, "/safety@habesha_bot"))))

	f.send(t, cb(a.ExternalID, bot.ChoiceEditBio))
	assert.Equal(t, []string{
		i18n.T(i18n.Amharic, i18n.Cancelled),
		i18n.T(i18n.Amharic, i18n.MainMenu),
	}, texts(f.send(t, txt(a.ExternalID, "/cancel"))))

	replies := f.send(t, cb(a.ExternalID, "nonsense"))
	assert.Equal(t, i18n.T(i18n.Amharic, i18n.ErrUnknownAction), replies[0].Text)
}

func TestUpdateValidate(t *testing.T) {
	_, err := bot.NewRouter(&app.AppContext{Logger: logger.Discard()}, nil, nil, nil).
		Handle(context.Background(), bot.Update{Kind: bot.KindText, Text: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Error(t, bot.Update{UserID: 1, Kind: bot.KindLocation, Lat: 120}.Validate())
	assert.Error(t, bot.Update{UserID: 1, Kind: "sticker"}.Validate())
	assert.NoError(t, bot.Update{UserID: 1, Kind: bot.KindPhoto, PhotoID: "x"}.Validate())

	cmd, ok := bot.Update{UserID: 1, Kind: bot.KindText, Text: "/Start@bot now"}.Command()
	assert.True(t, ok)
	assert.Equal(t, "start", cmd)

	_, ok = bot.Update{UserID: 1, Kind: bot.KindText, Text: "/usr/bin coffee"}.Command()
	assert.False(t, ok)
}

func TestSlashTextInsideDialogue(t *testing.T) {
	f := setup(t)
	a := f.user(t, 1, db.GenderMale, db.GenderFemale)

	f.send(t, cb(a.ExternalID, bot.ChoiceEditBio))
	replies := f.send(t, txt(a.ExternalID, "/usr/bin/coffee lover"))
	assert.Equal(t, i18n.T(i18n.English, i18n.BioUpdated), replies[0].Text)

	var stored db.User
	require.NoError(t, f.db.First(&stored, a.ID).Error)
	assert.Equal(t, "/usr/bin/coffee lover", stored.Bio)

	// outside a dialogue an unknown command is plain text: the menu comes back
	replies = f.send(t, txt(a.ExternalID, "/whatever"))
	assert.Equal(t, []string{i18n.T(i18n.English, i18n.MainMenu)}, texts(replies))
}
