// Package match records likes, materialises mutual matches and lists them.
package match

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/oggyb/habesha-match/internal/app"
	"github.com/oggyb/habesha-match/internal/chat"
	"github.com/oggyb/habesha-match/internal/db"
	apperrors "github.com/oggyb/habesha-match/internal/errors"
	"github.com/oggyb/habesha-match/internal/i18n"
	"github.com/oggyb/habesha-match/internal/logger"
	"github.com/oggyb/habesha-match/internal/notify"
	"github.com/oggyb/habesha-match/internal/repository"
)

// PageSize is how many matches one list message shows.
const PageSize = 10

// Outcome is what a like did.
type Outcome string

const (
	OutcomeNoMatch   Outcome = "no_match"
	OutcomeMatch     Outcome = "match"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeQuota     Outcome = "quota"
)

// Notifier queues match notifications.
type Notifier interface {
	Enqueue(ctx context.Context, jobs ...notify.Job) error
}

// LikeResult is the answer to one like.
type LikeResult struct {
	Outcome    Outcome
	LikesToday int
	Reply      chat.Reply
}

// Matched reports whether this like created the match.
func (r LikeResult) Matched() bool { return r.Outcome == OutcomeMatch }

// pairLocks serializes likes within one unordered pair in-process.
// The store transaction still decides whether a match is created.
type pairLocks [64]sync.Mutex

func (p *pairLocks) lock(a, b uint64) func() {
	if a > b {
		a, b = b, a
	}
	h := fnv.New32a()
	fmt.Fprintf(h, "%d:%d", a, b)
	mu := &p[h.Sum32()%uint32(len(p))]
	mu.Lock()
	return mu.Unlock
}

// Service implements likes and matches.
type Service struct {
	appCtx   *app.AppContext
	likes    *repository.LikeRepository
	matches  *repository.MatchRepository
	notifier Notifier
	pairs    pairLocks

	limit int
	now   func() time.Time
}

// NewMatchService creates the service with dependencies from AppContext.
// Dependencies include:
//   - DB connection (via LikeRepository and MatchRepository)
//   - a Notifier receiving one job per participant of a new match
func NewMatchService(appCtx *app.AppContext, notifier Notifier) *Service {
	s := &Service{
		appCtx:   appCtx,
		likes:    repository.NewLikeRepository(appCtx.DB),
		matches:  repository.NewMatchRepository(appCtx.DB),
		notifier: notifier,
		limit:    50,
		now:      func() time.Time { return time.Now().UTC() },
	}
	if appCtx.Config != nil {
		s.limit = appCtx.Config.Bot.DailyLikeLimit
	}
	return s
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Like records from → toID.
//
// Behavior:
//   - from == to → ErrSelf; a missing target → ErrNotFound.
//   - Quota reached → OutcomeQuota, nothing written.
//   - A repeated like → OutcomeDuplicate, counter unchanged, never a match.
//   - If toID already liked from, the match is created once and both users
//     are queued for notification. A queue failure is logged; the match stays.
//
// Example:
//
//	res, err := svc.Like(ctx, me, 42)
//	if res.Matched() { ... }
func (s *Service) Like(ctx context.Context, from *db.User, toID uint64) (LikeResult, error) {
	log := s.appCtx.Logger
	lang := from.Lang()
	if from.ID == toID {
		return LikeResult{}, apperrors.ErrSelf
	}

	unlock := s.pairs.lock(from.ID, toID)
	out, err := s.likes.RecordLike(ctx, from.ID, toID, repository.Quota{
		Limit:  s.limit,
		Window: repository.QuotaWindow,
		Now:    s.now(),
	})
	unlock()

	switch {
	case errors.Is(err, apperrors.ErrQuotaExceeded):
		s.count(OutcomeQuota)
		return LikeResult{Outcome: OutcomeQuota, LikesToday: s.limit, Reply: chat.Reply{Text: i18n.T(lang, i18n.QuotaExceeded)}}, nil
	case err != nil:
		log.Error("record like failed", "user", logger.UserRef(from.ExternalID), "target", toID, "err", err)
		return LikeResult{}, err
	}

	res := LikeResult{Outcome: OutcomeNoMatch, LikesToday: out.LikesToday, Reply: chat.Reply{Text: i18n.T(lang, i18n.LikeSent)}}
	switch {
	case out.Duplicate:
		res.Outcome = OutcomeDuplicate
	case out.MatchCreated:
		res.Outcome = OutcomeMatch
		res.Reply = chat.Reply{Text: i18n.T(lang, i18n.ItsAMatch)}
		s.matched(ctx, from, toID)
	}
	s.count(res.Outcome)

	log.Debug("like recorded", "user", logger.UserRef(from.ExternalID), "target", toID, "outcome", res.Outcome, "likes_today", res.LikesToday)
	return res, nil
}

func (s *Service) matched(ctx context.Context, from *db.User, toID uint64) {
	if m := s.appCtx.Metrics; m != nil {
		m.MatchesCreated.Inc()
	}
	s.appCtx.Logger.Info("match created", "user", logger.UserRef(from.ExternalID), "peer", toID)
	if s.notifier == nil {
		return
	}
	now := s.now()
	jobs := []notify.Job{notify.NewJob(from.ID, toID, now), notify.NewJob(toID, from.ID, now)}
	if err := s.notifier.Enqueue(ctx, jobs...); err != nil {
		s.appCtx.Logger.Error("match notification enqueue failed", "user", logger.UserRef(from.ExternalID), "peer", toID, "err", err)
	}
}

// Dislike has no persistent effect; the caller moves on to the next candidate.
func (s *Service) Dislike(_ context.Context, from *db.User, toID uint64) error {
	if from.ID == toID {
		return apperrors.ErrSelf
	}
	return nil
}

// ListMatches renders one page of u's matches, newest first.
//
// Behavior:
//   - No matches → the localized "no matches yet" notice.
//   - PageSize entries per message; a "more" button carries the next token.
//   - A malformed token → ErrValidation.
func (s *Service) ListMatches(ctx context.Context, u *db.User, token string) (chat.Reply, error) {
	lang := u.Lang()
	entries, next, err := s.matches.ListMatches(ctx, u.ID, token, PageSize)
	if err != nil {
		return chat.Reply{}, err
	}
	back := chat.Row(chat.Button{Text: i18n.T(lang, i18n.BtnBack), Data: ChoiceMainMenu})
	if len(entries) == 0 && token == "" {
		return chat.Reply{Text: i18n.T(lang, i18n.NoMatches), Keyboard: [][]chat.Button{back}}, nil
	}

	var b strings.Builder
	b.WriteString(i18n.T(lang, i18n.MatchesHeader))
	for _, e := range entries {
		fmt.Fprintf(&b, "%s<b>%s</b>", bullet, html.EscapeString(e.Peer.FullName))
		if e.Peer.Age != nil {
			fmt.Fprintf(&b, ", %d", *e.Peer.Age)
		}
		if z := e.Peer.Position().Zone(); z != "" {
			b.WriteString(" - ")
			b.WriteString(z)
		}
		b.WriteString("\n")
	}

	var kb [][]chat.Button
	if next != "" {
		kb = append(kb, chat.Row(chat.Button{Text: i18n.T(lang, i18n.BtnMore), Data: PageChoice(next)}))
	}
	kb = append(kb, back)
	return chat.Reply{Text: b.String(), Keyboard: kb}, nil
}

func (s *Service) count(o Outcome) {
	if m := s.appCtx.Metrics; m != nil {
		m.Likes.WithLabelValues(string(o)).Inc()
	}
}

// Callback data used by match list buttons.
const (
	ChoiceMainMenu = "menu:main"
	pagePrefix     = "matches:"
)

// bullet prefixes each match line. Pages carry no offset, so entries are not numbered.
const bullet = "• "

// PageChoice encodes the "more" button for a page token.
func PageChoice(token string) string { return pagePrefix + token }

// ParsePageChoice returns the token of a "more" button.
func ParsePageChoice(data string) (string, bool) {
	return strings.CutPrefix(data, pagePrefix)
}
