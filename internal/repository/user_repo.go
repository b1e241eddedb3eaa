package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/habesha-match/internal/db"
	apperrors "github.com/oggyb/habesha-match/internal/errors"
	"github.com/oggyb/habesha-match/internal/geo"
)

// Fields is a partial user update keyed by column name.
// Only columns in updatableColumns are accepted.
type Fields map[string]any

var updatableColumns = map[string]bool{
	"language":         true,
	"full_name":        true,
	"age":              true,
	"gender":           true,
	"preference":       true,
	"bio":              true,
	"latitude":         true,
	"longitude":        true,
	"zone":             true,
	"search_radius_km": true,
	"photo_id":         true,
	"is_active":        true,
	"is_stealth":       true,
	"notify_matches":   true,
	"notify_nearby":    true,
	"last_seen_at":     true,
}

// PositionFields returns the column set that stores p.
// Raw positions clear the zone; zone positions overwrite raw coordinates.
func PositionFields(p geo.Position) Fields {
	lat, lon, zone := db.PositionColumns(p)
	return Fields{"latitude": lat, "longitude": lon, "zone": zone}
}

// Profile is a completed registration ready to be committed.
type Profile struct {
	ExternalID int64
	Language   string
	FullName   string
	Age        int
	Gender     string
	Preference string
	Bio        string
	Position   geo.Position
	PhotoID    string
	Interests  []uint
}

// CandidateQuery describes who is browsing and what to skip.
type CandidateQuery struct {
	RequesterID uint64
	Gender      string
	Preference  string
	Exclude     []uint64
	// Within, when set, keeps only users whose stored coordinates fall in the box.
	Within *geo.Box
	Limit  int
}

// UserRepository provides data access for users and their interest sets.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// GetUser loads a user by messenger identity. Missing users yield ErrNotFound.
func (r *UserRepository) GetUser(ctx context.Context, externalID int64) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&u).Error; err != nil {
		return nil, apperrors.FromStore(err)
	}
	return &u, nil
}

// GetUserByID loads a user by internal id. Missing users yield ErrNotFound.
func (r *UserRepository) GetUserByID(ctx context.Context, id uint64) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, apperrors.FromStore(err)
	}
	return &u, nil
}

// CreateUser inserts a bare, not yet discoverable user.
func (r *UserRepository) CreateUser(ctx context.Context, externalID int64, language, name string) (*db.User, error) {
	now := time.Now().UTC()
	u := db.User{
		ExternalID:    externalID,
		Language:      language,
		FullName:      name,
		IsActive:      true,
		NotifyMatches: true,
		NotifyNearby:  true,
		LastLikeReset: now,
		LastSeenAt:    now,
	}
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, apperrors.FromStore(err)
	}
	return &u, nil
}

// UpdateUser applies a partial update to one user.
//
// Behavior:
//   - Unknown columns are rejected with ErrValidation before touching the store.
//   - Zero values are written (map updates do not skip them).
//   - A missing user yields ErrNotFound.
//
// Example:
//
//	repo.UpdateUser(ctx, 7, repository.Fields{"is_stealth": true})
func (r *UserRepository) UpdateUser(ctx context.Context, id uint64, fields Fields) error {
	return updateUser(r.db.WithContext(ctx), id, fields)
}

func updateUser(tx *gorm.DB, id uint64, fields Fields) error {
	if len(fields) == 0 {
		return nil
	}
	for col := range fields {
		if !updatableColumns[col] {
			return apperrors.Validation("column %q is not updatable", col)
		}
	}
	res := tx.Model(&db.User{}).Where("id = ?", id).Updates(map[string]any(fields))
	if res.Error != nil {
		return apperrors.FromStore(res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports 0 for unchanged rows, so confirm the user is really gone
		var n int64
		if err := tx.Model(&db.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return apperrors.FromStore(err)
		}
		if n == 0 {
			return fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
		}
	}
	return nil
}

// ReplaceUserInterests swaps the user's interest set for tagIDs.
//
// Behavior:
//   - Delete-then-insert inside one transaction; the stored set is always a full snapshot.
//   - Duplicate ids collapse to their first occurrence; order is preserved.
//   - Ids outside the catalog or more than db.MaxInterests tags → ErrValidation.
//   - Calling it twice with the same ids yields the same stored set.
func (r *UserRepository) ReplaceUserInterests(ctx context.Context, userID uint64, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceInterests(tx, userID, tagIDs)
	})
}

func replaceInterests(tx *gorm.DB, userID uint64, tagIDs []uint) error {
	ids, err := normalizeInterests(tagIDs)
	if err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&db.UserInterest{}).Error; err != nil {
		return apperrors.FromStore(err)
	}
	if len(ids) == 0 {
		return nil
	}
	rows := make([]db.UserInterest, len(ids))
	for i, id := range ids {
		rows[i] = db.UserInterest{UserID: userID, InterestID: id, Ordinal: i}
	}
	return apperrors.FromStore(tx.Create(&rows).Error)
}

func normalizeInterests(tagIDs []uint) ([]uint, error) {
	seen := make(map[uint]bool, len(tagIDs))
	out := make([]uint, 0, len(tagIDs))
	for _, id := range tagIDs {
		if seen[id] {
			continue
		}
		if !db.IsInterest(id) {
			return nil, apperrors.Validation("unknown interest %d", id)
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) > db.MaxInterests {
		return nil, apperrors.Validation("at most %d interests", db.MaxInterests)
	}
	return out, nil
}

// UserInterests returns the user's interest ids in pick order.
func (r *UserRepository) UserInterests(ctx context.Context, userID uint64) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&db.UserInterest{}).
		Where("user_id = ?", userID).
		Order("ordinal ASC").
		Pluck("interest_id", &ids).Error
	if err != nil {
		return nil, apperrors.FromStore(err)
	}
	return ids, nil
}

// CommitProfile writes a finished registration as one transaction.
//
// Behavior:
//   - Creates the user if the external id is new, otherwise overwrites the
//     registration columns (re-registration via /start).
//   - Replaces the interest set in the same transaction.
//   - On any failure nothing is persisted.
func (r *UserRepository) CommitProfile(ctx context.Context, p Profile) (*db.User, error) {
	var out db.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u db.User
		err := tx.Where("external_id = ?", p.ExternalID).First(&u).Error
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			now := time.Now().UTC()
			u = db.User{
				ExternalID:    p.ExternalID,
				IsActive:      true,
				NotifyMatches: true,
				NotifyNearby:  true,
				LastLikeReset: now,
			}
		default:
			return apperrors.FromStore(err)
		}

		age, gender, pref := p.Age, p.Gender, p.Preference
		u.Language = p.Language
		u.FullName = p.FullName
		u.Age = &age
		u.Gender = &gender
		u.Preference = &pref
		u.Bio = p.Bio
		u.SetPosition(p.Position)
		u.PhotoID = nil
		if p.PhotoID != "" {
			photo := p.PhotoID
			u.PhotoID = &photo
		}
		u.LastSeenAt = time.Now().UTC()

		if err := tx.Save(&u).Error; err != nil {
			return apperrors.FromStore(err)
		}
		if err := replaceInterests(tx, u.ID, p.Interests); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryEligibleCandidates returns discoverable users for the requester,
// newest first.
//
// Behavior:
//   - Never returns the requester, inactive, stealth or unfinished profiles.
//   - Symmetric compatibility: the candidate's preference accepts the
//     requester's gender AND the requester's preference accepts theirs.
//   - Ids in Exclude are skipped (the current browsing pass).
//   - Within narrows to a coordinate box; users without a position drop out.
//
// Example:
//
//	repo.QueryEligibleCandidates(ctx, repository.CandidateQuery{RequesterID: 1, Gender: "male", Preference: "female", Limit: 20})
func (r *UserRepository) QueryEligibleCandidates(ctx context.Context, q CandidateQuery) ([]db.User, error) {
	var users []db.User

	query := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id <> ?", q.RequesterID).
		Where("is_active = ? AND is_stealth = ?", true, false).
		Where("age IS NOT NULL AND gender IS NOT NULL AND preference IS NOT NULL").
		Where("(preference = ? OR preference = ?)", db.PreferBoth, q.Gender)

	if q.Preference != db.PreferBoth {
		query = query.Where("gender = ?", q.Preference)
	}
	if len(q.Exclude) > 0 {
		query = query.Where("id NOT IN ?", q.Exclude)
	}
	if b := q.Within; b != nil {
		query = query.Where("latitude BETWEEN ? AND ?", b.MinLat, b.MaxLat)
		if b.AllLon {
			query = query.Where("longitude IS NOT NULL")
		} else {
			query = query.Where("longitude BETWEEN ? AND ?", b.MinLon, b.MaxLon)
		}
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	if err := query.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, apperrors.FromStore(err)
	}
	return users, nil
}

// ResetLikeCounterIfExpired zeroes the daily counter once window has passed
// since the last reset. The row is locked so concurrent readers reset once.
func (r *UserRepository) ResetLikeCounterIfExpired(ctx context.Context, id uint64, now time.Time, window time.Duration) (*db.User, error) {
	var out db.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := lockUsers(tx, id)
		if err != nil {
			return err
		}
		u := users[id]
		if err := resetIfExpired(tx, u, now, window); err != nil {
			return err
		}
		out = *u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func resetIfExpired(tx *gorm.DB, u *db.User, now time.Time, window time.Duration) error {
	if now.Sub(u.LastLikeReset) < window {
		return nil
	}
	u.LikesToday = 0
	u.LastLikeReset = now
	err := tx.Model(&db.User{}).Where("id = ?", u.ID).
		Updates(map[string]any{"likes_today": 0, "last_like_reset": now}).Error
	return apperrors.FromStore(err)
}
