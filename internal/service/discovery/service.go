// Package discovery picks the next profile a user should see.
package discovery

import (
	"context"
	"time"

	"github.com/oggyb/habesha-match/internal/app"
	"github.com/oggyb/habesha-match/internal/chat"
	"github.com/oggyb/habesha-match/internal/db"
	apperrors "github.com/oggyb/habesha-match/internal/errors"
	"github.com/oggyb/habesha-match/internal/geo"
	"github.com/oggyb/habesha-match/internal/i18n"
	"github.com/oggyb/habesha-match/internal/logger"
	"github.com/oggyb/habesha-match/internal/repository"
)

// Outcome is the kind of answer NextCandidate produced.
type Outcome string

const (
	OutcomeServed     Outcome = "served"
	OutcomeEmpty      Outcome = "empty"
	OutcomeQuota      Outcome = "quota"
	OutcomeNoLocation Outcome = "no_location"
)

// Candidate is a profile selected for the requester.
type Candidate struct {
	User        db.User
	DistanceKM  float64
	HasDistance bool
}

// Result is the answer to one browse request.
type Result struct {
	Outcome   Outcome
	Candidate *Candidate
	Reply     chat.Reply
}

// SeenSet tracks who was already shown in the current browsing pass.
type SeenSet interface {
	MarkSeen(ctx context.Context, userID, candidateID uint64, ttl time.Duration) error
	Seen(ctx context.Context, userID uint64) ([]uint64, error)
	ResetSeen(ctx context.Context, userID uint64) error
}

// Service implements candidate discovery on top of the user repository and
// the browsing-pass cache.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	seen   SeenSet

	limit    int
	pageSize int
	seenTTL  time.Duration
	now      func() time.Time
}

// NewDiscoveryService creates the service with dependencies from AppContext.
// Dependencies include:
//   - DB connection (via UserRepository)
//   - RedisCache for the per-user seen set
func NewDiscoveryService(appCtx *app.AppContext) *Service {
	s := &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		limit:    50,
		pageSize: 20,
		seenTTL:  24 * time.Hour,
		now:      func() time.Time { return time.Now().UTC() },
	}
	if appCtx.RedisCache != nil {
		s.seen = appCtx.RedisCache
	}
	if c := appCtx.Config; c != nil {
		s.limit = c.Bot.DailyLikeLimit
		if c.Bot.CandidatePageSize > 0 {
			s.pageSize = c.Bot.CandidatePageSize
		}
		s.seenTTL = c.Bot.SeenTTL
	}
	return s
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// NextCandidate selects the next profile for requester.
//
// Behavior:
//   - Unfinished profile → ErrValidation. No position → OutcomeNoLocation.
//   - The daily counter is reset lazily once the window has passed; a
//     non-premium requester at the limit gets OutcomeQuota.
//   - Eligible candidates are tried newest first, skipping those already
//     shown in the current pass and those outside the requester's radius.
//   - When every eligible candidate was shown, a new pass starts once.
//   - No eligible candidate at all → OutcomeEmpty.
//
// Example:
//
//	res, err := svc.NextCandidate(ctx, user)
//	if res.Outcome == discovery.OutcomeServed { send(res.Reply) }
func (s *Service) NextCandidate(ctx context.Context, requester *db.User) (Result, error) {
	log := s.appCtx.Logger
	lang := requester.Lang()

	if !requester.Completed() {
		return Result{}, apperrors.Validation("profile of user %d is incomplete", requester.ID)
	}
	origin, ok := requester.Position().Coordinates()
	if !ok {
		return s.outcome(OutcomeNoLocation, chat.Reply{Text: i18n.T(lang, i18n.ErrNeedLocation)}), nil
	}

	fresh, err := s.users.ResetLikeCounterIfExpired(ctx, requester.ID, s.now(), repository.QuotaWindow)
	if err != nil {
		return Result{}, err
	}
	if s.limit > 0 && !fresh.IsPremium && fresh.LikesToday >= s.limit {
		log.Debug("browse blocked by quota", "user", logger.UserRef(fresh.ExternalID), "likes_today", fresh.LikesToday)
		return s.outcome(OutcomeQuota, chat.Reply{Text: i18n.T(lang, i18n.QuotaExceeded)}), nil
	}

	seen := s.seenIDs(ctx, fresh)
	c, err := s.pick(ctx, fresh, origin, seen)
	if err != nil {
		return Result{}, err
	}
	if c == nil && len(seen) > 0 {
		// pass exhausted: start over
		if err := s.resetSeen(ctx, fresh); err == nil {
			c, err = s.pick(ctx, fresh, origin, nil)
			if err != nil {
				return Result{}, err
			}
		}
	}
	if c == nil {
		return s.outcome(OutcomeEmpty, chat.Reply{Text: i18n.T(lang, i18n.NoCandidates)}), nil
	}

	if s.seen != nil {
		if err := s.seen.MarkSeen(ctx, fresh.ID, c.User.ID, s.seenTTL); err != nil {
			log.Warn("mark seen failed", "user", logger.UserRef(fresh.ExternalID), "err", err)
		}
	}
	res := s.outcome(OutcomeServed, Card(lang, *c))
	res.Candidate = c
	return res, nil
}

// pick walks eligible candidates page by page and returns the first one in
// range. With a radius the query is narrowed to the bounding box, so the walk
// only skips the box corners.
func (s *Service) pick(ctx context.Context, requester *db.User, origin geo.Coordinates, seen []uint64) (*Candidate, error) {
	exclude := append([]uint64(nil), seen...)
	radius := float64(requester.SearchRadiusKM)
	var within *geo.Box
	if radius > 0 {
		box := geo.BoundingBox(origin, radius)
		within = &box
	}

	for {
		rows, err := s.users.QueryEligibleCandidates(ctx, repository.CandidateQuery{
			RequesterID: requester.ID,
			Gender:      *requester.Gender,
			Preference:  *requester.Preference,
			Exclude:     exclude,
			Within:      within,
			Limit:       s.pageSize,
		})
		if err != nil {
			return nil, err
		}
		for _, u := range rows {
			c := Candidate{User: u}
			if pos, ok := u.Position().Coordinates(); ok {
				c.DistanceKM = geo.DistanceKM(origin, pos)
				c.HasDistance = true
			}
			if radius > 0 && (!c.HasDistance || c.DistanceKM > radius) {
				exclude = append(exclude, u.ID)
				continue
			}
			return &c, nil
		}
		if len(rows) < s.pageSize {
			return nil, nil
		}
	}
}

// seenIDs reads the current pass. A cache failure degrades to an empty pass.
func (s *Service) seenIDs(ctx context.Context, u *db.User) []uint64 {
	if s.seen == nil {
		return nil
	}
	ids, err := s.seen.Seen(ctx, u.ID)
	if err != nil {
		s.appCtx.Logger.Warn("seen set unavailable", "user", logger.UserRef(u.ExternalID), "err", err)
		return nil
	}
	return ids
}

func (s *Service) resetSeen(ctx context.Context, u *db.User) error {
	if s.seen == nil {
		return nil
	}
	err := s.seen.ResetSeen(ctx, u.ID)
	if err != nil {
		s.appCtx.Logger.Warn("seen reset failed", "user", logger.UserRef(u.ExternalID), "err", err)
	}
	return err
}

func (s *Service) outcome(o Outcome, reply chat.Reply) Result {
	if m := s.appCtx.Metrics; m != nil {
		m.Candidates.WithLabelValues(string(o)).Inc()
	}
	return Result{Outcome: o, Reply: reply}
}
