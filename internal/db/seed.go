package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/habesha-match/internal/geo"
	"github.com/oggyb/habesha-match/internal/i18n"
)

// MaxInterests caps how many catalog tags a profile may carry.
const MaxInterests = 10

var catalog = []Interest{
	{ID: 1, NameEN: "Bunna (Coffee)", NameAM: "ቡና"},
	{ID: 2, NameEN: "Eskista Dance", NameAM: "እስክስታ"},
	{ID: 3, NameEN: "Saint George FC", NameAM: "ሰይንት ጊዮርጊስ"},
	{ID: 4, NameEN: "Bunna FC", NameAM: "ቡና እግር ኳስ"},
	{ID: 5, NameEN: "Hiking in Entoto", NameAM: "በእንጦጦ ላይ ጉዞ"},
	{ID: 6, NameEN: "Tech/Startup Scene", NameAM: "ቴክ/መነሻ ስራ"},
	{ID: 7, NameEN: "Azmari Bet", NameAM: "አዝማሪ ቤት"},
	{ID: 8, NameEN: "Traditional Food", NameAM: "ባህላዊ ምግብ"},
	{ID: 9, NameEN: "Ethiopian Music", NameAM: "ኢትዮጵያዊ ሙዚቃ"},
	{ID: 10, NameEN: "Orthodox Christianity", NameAM: "ኦርቶዶክስ ክርስትና"},
}

// InterestCatalog returns the fixed catalog in display order.
func InterestCatalog() []Interest {
	out := make([]Interest, len(catalog))
	copy(out, catalog)
	return out
}

// IsInterest reports whether id is a catalog entry.
func IsInterest(id uint) bool {
	for _, in := range catalog {
		if in.ID == id {
			return true
		}
	}
	return false
}

// SeedInterests inserts the catalog; existing rows are left untouched.
func SeedInterests(db *gorm.DB) error {
	rows := InterestCatalog()
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// SeedTestData resets the database and populates it with demo profiles.
//
// Behavior:
//  1. Clears likes, matches, reports, user interests and users.
//  2. Creates 20 completed profiles (10 male, 10 female) spread over the zone table.
//  3. Generates likes with ~70% probability between compatible users; every 3rd
//     pair is made mutual and materialised as a match.
//
// Compatible with MySQL, Postgres and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"likes", "matches", "reports", "user_interests", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := SeedInterests(db); err != nil {
		return err
	}
	log.Println("Cleared existing data")

	// --- Seed Users (10 male, 10 female) ---
	zones := geo.Zones()
	users := make([]User, 0, 20)
	for i := 1; i <= 20; i++ {
		gender, pref := GenderMale, GenderFemale
		if i > 10 {
			gender, pref = GenderFemale, GenderMale
		}
		if i%5 == 0 {
			pref = PreferBoth
		}
		age := 20 + r.Intn(15)
		zonePos, _ := geo.ZonePosition(zones[i%len(zones)])

		u := User{
			ExternalID:    int64(100000 + i),
			Language:      string(i18n.English),
			FullName:      fmt.Sprintf("Demo User %d", i),
			Age:           &age,
			Gender:        &gender,
			Preference:    &pref,
			Bio:           "Coffee, music and long walks in Entoto.",
			IsActive:      true,
			NotifyMatches: true,
			NotifyNearby:  true,
			LastLikeReset: time.Now().UTC(),
			LastSeenAt:    time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		u.SetPosition(zonePos)

		if err := db.Create(&u).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		tags := []UserInterest{
			{UserID: u.ID, InterestID: uint(1 + r.Intn(5)), Ordinal: 0},
			{UserID: u.ID, InterestID: uint(6 + r.Intn(5)), Ordinal: 1},
		}
		if err := db.Create(&tags).Error; err != nil {
			return fmt.Errorf("failed to seed interests: %w", err)
		}
		users = append(users, u)
	}
	log.Println("Seeded 20 users.")

	// --- Seed Likes ---
	counter := 0
	for _, actor := range users {
		for j := 0; j < 8; j++ {
			target := users[r.Intn(len(users))]
			if target.ID == actor.ID {
				continue
			}
			if !Accepts(*actor.Preference, *target.Gender) || !Accepts(*target.Preference, *actor.Gender) {
				continue
			}
			if counter%3 != 0 && r.Intn(100) >= 70 {
				counter++
				continue
			}

			likes := []Like{{FromUserID: actor.ID, ToUserID: target.ID}}
			if counter%3 == 0 {
				likes = append(likes, Like{FromUserID: target.ID, ToUserID: actor.ID})
			}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&likes).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}
			if len(likes) == 2 {
				now := time.Now().UTC()
				matches := []Match{
					{User1ID: actor.ID, User2ID: target.ID, MatchedAt: now, ChatActive: true},
					{User1ID: target.ID, User2ID: actor.ID, MatchedAt: now, ChatActive: true},
				}
				if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&matches).Error; err != nil {
					return fmt.Errorf("failed to seed match: %w", err)
				}
			}
			counter++
		}
	}

	return nil
}
