package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/habesha-match/internal/db"
	apperrors "github.com/oggyb/habesha-match/internal/errors"
)

// QuotaWindow is the rolling period after which the like counter resets.
const QuotaWindow = 24 * time.Hour

// Quota is the daily like allowance applied inside RecordLike.
// Limit <= 0 disables the check.
type Quota struct {
	Limit  int
	Window time.Duration
	Now    time.Time
}

// LikeOutcome reports what RecordLike did.
type LikeOutcome struct {
	// Duplicate is set when the like already existed; nothing else changed.
	Duplicate bool
	// Reciprocal is set when the target already liked the sender.
	Reciprocal bool
	// MatchCreated is set only for the call that inserted the match rows.
	MatchCreated bool
	// LikesToday is the sender's counter after the call.
	LikesToday int
}

// LikeRepository provides data access for likes and the like→match transition.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// InsertLikeIfAbsent appends Like(from→to). Returns false if the pair already existed.
//
// Example:
//
//	repo.InsertLikeIfAbsent(ctx, 1, 2) // user 1 liked user 2
func (r *LikeRepository) InsertLikeIfAbsent(ctx context.Context, fromID, toID uint64) (bool, error) {
	return insertLike(r.db.WithContext(ctx), fromID, toID)
}

func insertLike(tx *gorm.DB, fromID, toID uint64) (bool, error) {
	like := db.Like{FromUserID: fromID, ToUserID: toID}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
		DoNothing: true,
	}).Create(&like)
	if res.Error != nil {
		return false, apperrors.FromStore(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ExistsLike checks whether from has liked to.
func (r *LikeRepository) ExistsLike(ctx context.Context, fromID, toID uint64) (bool, error) {
	return existsLike(r.db.WithContext(ctx), fromID, toID)
}

func existsLike(tx *gorm.DB, fromID, toID uint64) (bool, error) {
	var count int64
	err := tx.Model(&db.Like{}).
		Where("from_user_id = ? AND to_user_id = ?", fromID, toID).
		Count(&count).Error
	return count > 0, apperrors.FromStore(err)
}

// RecordLike runs the whole like transition in one transaction.
//
// Behavior:
//  1. Locks both user rows in canonical (lower id first) order; missing users → ErrNotFound,
//     from == to → ErrSelf.
//  2. Lazily resets the sender's counter when the quota window has passed.
//  3. Non-premium senders at or over the limit → ErrQuotaExceeded, nothing written.
//  4. Inserts the like; a duplicate is a no-op success (no counter change, no match).
//  5. Increments the sender's counter.
//  6. If the reciprocal like exists, inserts both match rows idempotently.
//
// Two near-simultaneous reciprocal likes serialize on the row locks, so exactly
// one call observes MatchCreated.
func (r *LikeRepository) RecordLike(ctx context.Context, fromID, toID uint64, q Quota) (LikeOutcome, error) {
	if fromID == toID {
		return LikeOutcome{}, apperrors.ErrSelf
	}
	var out LikeOutcome
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := lockUsers(tx, fromID, toID)
		if err != nil {
			return err
		}
		from := users[fromID]

		if err := resetIfExpired(tx, from, q.Now, q.Window); err != nil {
			return err
		}
		out.LikesToday = from.LikesToday
		if q.Limit > 0 && !from.IsPremium && from.LikesToday >= q.Limit {
			return apperrors.ErrQuotaExceeded
		}

		inserted, err := insertLike(tx, fromID, toID)
		if err != nil {
			return err
		}
		if !inserted {
			out.Duplicate = true
			return nil
		}

		if err := tx.Model(&db.User{}).Where("id = ?", fromID).
			UpdateColumn("likes_today", gorm.Expr("likes_today + ?", 1)).Error; err != nil {
			return apperrors.FromStore(err)
		}
		out.LikesToday++

		reciprocal, err := existsLike(tx, toID, fromID)
		if err != nil {
			return err
		}
		if !reciprocal {
			return nil
		}
		out.Reciprocal = true
		out.MatchCreated, err = insertMatch(tx, fromID, toID, q.Now)
		return err
	})
	if err != nil {
		return LikeOutcome{}, err
	}
	return out, nil
}

// lockUsers loads the given users FOR UPDATE in id order.
// SQLite ignores the locking clause; callers serialize there.
func lockUsers(tx *gorm.DB, ids ...uint64) (map[uint64]*db.User, error) {
	var rows []db.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.FromStore(err)
	}
	out := make(map[uint64]*db.User, len(rows))
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
		}
	}
	return out, nil
}
