package db

import (
	"time"

	"github.com/oggyb/habesha-match/internal/geo"
	"github.com/oggyb/habesha-match/internal/i18n"
)

// Gender and preference values as stored.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"

	PreferBoth = "both"
)

// User is a completed (or in-settings) profile.
//
// Position columns are written only through SetPosition so that
// raw coordinates and zone can never disagree.
//
// Indexes:
//   - external_id unique (messenger identity)
//   - idx_users_discovery(is_active, is_stealth, created_at) for candidate scans
type User struct {
	ID             uint64  `gorm:"primaryKey;autoIncrement"`
	ExternalID     int64   `gorm:"uniqueIndex;not null"`
	Language       string  `gorm:"size:10;not null"`
	FullName       string  `gorm:"size:200;not null"`
	Age            *int
	Gender         *string `gorm:"size:16"`
	Preference     *string `gorm:"size:16"`
	Bio            string  `gorm:"size:500"`
	Latitude       *float64
	Longitude      *float64
	Zone           *string `gorm:"size:64"`
	SearchRadiusKM int     `gorm:"not null"`
	PhotoID        *string `gorm:"size:300"`
	IsVerified     bool    `gorm:"not null"`
	IsActive       bool    `gorm:"not null;index:idx_users_discovery,priority:1"`
	IsStealth      bool    `gorm:"not null;index:idx_users_discovery,priority:2"`
	IsPremium      bool    `gorm:"not null"`
	NotifyMatches  bool    `gorm:"not null"`
	NotifyNearby   bool    `gorm:"not null"`
	LikesToday     int     `gorm:"not null"`
	LastLikeReset  time.Time
	LastSeenAt     time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_users_discovery,priority:3,sort:desc"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// Lang returns the user's UI language.
func (u *User) Lang() i18n.Lang { return i18n.Parse(u.Language) }

// Position reads the stored location back as a tagged variant.
func (u *User) Position() geo.Position {
	if u.Zone != nil && *u.Zone != "" {
		if p, err := geo.ZonePosition(*u.Zone); err == nil {
			return p
		}
	}
	if u.Latitude != nil && u.Longitude != nil {
		return geo.Position{Kind: geo.KindRaw, Raw: geo.Coordinates{Lat: *u.Latitude, Lon: *u.Longitude}}
	}
	return geo.Position{}
}

// SetPosition writes p into the position columns. Zone positions also store
// their resolved coordinates so SQL can read them; the zone stays authoritative.
func (u *User) SetPosition(p geo.Position) {
	u.Latitude, u.Longitude, u.Zone = PositionColumns(p)
}

// PositionColumns returns the column values for p.
func PositionColumns(p geo.Position) (lat, lon *float64, zone *string) {
	c, ok := p.Coordinates()
	if !ok {
		return nil, nil, nil
	}
	lat, lon = &c.Lat, &c.Lon
	if z := p.Zone(); z != "" {
		zone = &z
	}
	return lat, lon, zone
}

// Completed reports whether intake finished for this user.
func (u *User) Completed() bool {
	return u.Age != nil && u.Gender != nil && u.Preference != nil
}

// Accepts reports whether a preference value accepts the given gender.
func Accepts(preference, gender string) bool {
	return preference == PreferBoth || preference == gender
}

// Interest is a fixed catalog entry.
type Interest struct {
	ID     uint   `gorm:"primaryKey;autoIncrement:false"`
	NameEN string `gorm:"size:100;not null"`
	NameAM string `gorm:"size:100;not null"`
}

// Label returns the localized catalog label.
func (i Interest) Label(lang i18n.Lang) string {
	if lang == i18n.Amharic && i.NameAM != "" {
		return i.NameAM
	}
	return i.NameEN
}

// UserInterest is the join row; the set is always replaced as a whole.
// Ordinal keeps the order in which tags were picked.
type UserInterest struct {
	UserID     uint64 `gorm:"primaryKey"`
	InterestID uint   `gorm:"primaryKey"`
	Ordinal    int    `gorm:"not null"`
}

// Like is a directed expression of interest.
//
// Composite PK: (FromUserID, ToUserID)
//   - one row per ordered pair; duplicates are ignored on insert.
//
// Indexes:
//   - idx_likes_reverse(to_user_id, from_user_id) for the reciprocal check.
type Like struct {
	FromUserID uint64    `gorm:"primaryKey;index:idx_likes_reverse,priority:2"`
	ToUserID   uint64    `gorm:"primaryKey;index:idx_likes_reverse,priority:1"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Match is stored as two directed rows, one per participant.
//
// Composite PK: (User1ID, User2ID)
//   - (a,b) and (b,a) are both present for every match.
type Match struct {
	User1ID    uint64    `gorm:"primaryKey"`
	User2ID    uint64    `gorm:"primaryKey"`
	MatchedAt  time.Time `gorm:"index"`
	ChatActive bool      `gorm:"not null"`
}

// Report is append-only moderation input.
type Report struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ReporterID uint64    `gorm:"index;not null"`
	ReportedID uint64    `gorm:"index;not null"`
	Reason     string    `gorm:"size:1000;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{&User{}, &Interest{}, &UserInterest{}, &Like{}, &Match{}, &Report{}}
}
