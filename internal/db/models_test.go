package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/habesha-match/internal/db"
	"github.com/oggyb/habesha-match/internal/geo"
	"github.com/oggyb/habesha-match/internal/i18n"
)

func TestSetPosition_ZoneWinsOverRaw(t *testing.T) {
	var u db.User

	raw, _ := geo.RawPosition(9.1, 38.7)
	u.SetPosition(raw)
	assert.Nil(t, u.Zone)
	assert.Equal(t, geo.KindRaw, u.Position().Kind)

	zone, _ := geo.ZonePosition("Bole")
	u.SetPosition(zone)
	require.NotNil(t, u.Zone)
	assert.Equal(t, "Bole", *u.Zone)
	assert.Equal(t, 8.9806, *u.Latitude)
	assert.Equal(t, "Bole", u.Position().Zone())

	// last write wins the other way too
	u.SetPosition(raw)
	assert.Nil(t, u.Zone)
	assert.Equal(t, 9.1, *u.Latitude)
}

func TestAccepts(t *testing.T) {
	assert.True(t, db.Accepts(db.PreferBoth, db.GenderMale))
	assert.True(t, db.Accepts(db.PreferBoth, db.GenderOther))
	assert.True(t, db.Accepts(db.GenderFemale, db.GenderFemale))
	assert.False(t, db.Accepts(db.GenderFemale, db.GenderMale))
}

func TestInterestLabel(t *testing.T) {
	in := db.InterestCatalog()[0]
	assert.Equal(t, "Bunna (Coffee)", in.Label(i18n.English))
	assert.Equal(t, "ቡና", in.Label(i18n.Amharic))
	assert.True(t, db.IsInterest(10))
	assert.False(t, db.IsInterest(11))
}

func TestMigrateSeedsCatalogIdempotently(t *testing.T) {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrate(database))
	require.NoError(t, db.Migrate(database))

	var count int64
	require.NoError(t, database.Model(&db.Interest{}).Count(&count).Error)
	assert.Equal(t, int64(10), count)
}

func TestSeedTestData(t *testing.T) {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	require.NoError(t, db.SeedTestData(database))

	var users int64
	require.NoError(t, database.Model(&db.User{}).Count(&users).Error)
	assert.Equal(t, int64(20), users)

	// every match row has its mirror
	var orphans int64
	require.NoError(t, database.Raw(`
		SELECT COUNT(*) FROM matches m
		WHERE NOT EXISTS (SELECT 1 FROM matches r WHERE r.user1_id = m.user2_id AND r.user2_id = m.user1_id)
	`).Scan(&orphans).Error)
	assert.Equal(t, int64(0), orphans)
}
