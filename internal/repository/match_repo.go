package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/habesha-match/internal/db"
	apperrors "github.com/oggyb/habesha-match/internal/errors"
	"github.com/oggyb/habesha-match/internal/utils/pagination"
)

// MatchEntry is one row of a user's match list.
type MatchEntry struct {
	Peer      db.User
	MatchedAt time.Time
}

// MatchRepository provides data access for materialised matches.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// InsertMatchIfAbsent stores both directed rows for the unordered pair {a, b}.
//
// Behavior:
//   - Rows are written lower id first so every writer issues the same statement.
//   - Both rows go in one statement with ON CONFLICT DO NOTHING.
//   - Returns true only when this call inserted them.
func (r *MatchRepository) InsertMatchIfAbsent(ctx context.Context, a, b uint64) (bool, error) {
	return insertMatch(r.db.WithContext(ctx), a, b, time.Now().UTC())
}

func insertMatch(tx *gorm.DB, a, b uint64, now time.Time) (bool, error) {
	now = now.UTC().Truncate(time.Millisecond)
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	rows := []db.Match{
		{User1ID: lo, User2ID: hi, MatchedAt: now, ChatActive: true},
		{User1ID: hi, User2ID: lo, MatchedAt: now, ChatActive: true},
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
		DoNothing: true,
	}).Create(&rows)
	if res.Error != nil {
		return false, apperrors.FromStore(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ExistsMatch reports whether a and b are matched.
func (r *MatchRepository) ExistsMatch(ctx context.Context, a, b uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Match{}).
		Where("user1_id = ? AND user2_id = ?", a, b).
		Count(&count).Error
	return count > 0, apperrors.FromStore(err)
}

// ListMatches returns the user's matches, newest first.
//
// Behavior:
//   - Ordered by matched_at DESC, peer id DESC.
//   - Supports cursor-based pagination via paginationToken.
//   - Peers that no longer exist are skipped.
//
// Example:
//
//	repo.ListMatches(ctx, 42, "", 10) // first 10 matches of user 42
func (r *MatchRepository) ListMatches(
	ctx context.Context,
	userID uint64,
	paginationToken string,
	limit int,
) ([]MatchEntry, string, error) {
	cursor, err := pagination.Decode(paginationToken)
	if err != nil {
		return nil, "", apperrors.Validation("%v", err)
	}

	query := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user1_id = ?", userID).
		Order("matched_at DESC, user2_id DESC").
		Limit(limit + 1)

	// apply cursor
	if !cursor.IsZero() {
		ts := cursor.Time()
		query = query.Where(
			"(matched_at < ? OR (matched_at = ? AND user2_id < ?))",
			ts, ts, cursor.ID,
		)
	}

	var rows []db.Match
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", apperrors.FromStore(err)
	}

	rows, nextToken := pagination.Trim(rows, limit, func(m db.Match) pagination.Cursor {
		return pagination.At(m.MatchedAt, m.User2ID)
	})

	if len(rows) == 0 {
		return nil, nextToken, nil
	}
	ids := make([]uint64, len(rows))
	for i, m := range rows {
		ids[i] = m.User2ID
	}
	var peers []db.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&peers).Error; err != nil {
		return nil, "", apperrors.FromStore(err)
	}
	byID := make(map[uint64]db.User, len(peers))
	for _, p := range peers {
		byID[p.ID] = p
	}

	entries := make([]MatchEntry, 0, len(rows))
	for _, m := range rows {
		if p, ok := byID[m.User2ID]; ok {
			entries = append(entries, MatchEntry{Peer: p, MatchedAt: m.MatchedAt})
		}
	}
	return entries, nextToken, nil
}
