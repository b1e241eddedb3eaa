// Package dialogue drives the multi-step conversations that collect and edit
// profile data.
//
// Every flow is a walk over the transitions table. An input is first checked
// against the table (state × input kind), then validated by the state's step
// on a copy of the session. Rejected inputs leave the stored session exactly
// as it was and re-send the prompt with a localized notice. Reaching
// StateCommit flushes the session to the profile store in one write and
// deletes it; if that write fails the session is kept so the user can retry
// the last step.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oggyb/habesha-match/internal/chat"
	"github.com/oggyb/habesha-match/internal/db"
	apperrors "github.com/oggyb/habesha-match/internal/errors"
	"github.com/oggyb/habesha-match/internal/i18n"
	"github.com/oggyb/habesha-match/internal/logger"
	"github.com/oggyb/habesha-match/internal/metrics"
	"github.com/oggyb/habesha-match/internal/repository"
)

// ProfileStore is the subset of the user repository the engine commits to.
type ProfileStore interface {
	CommitProfile(ctx context.Context, p repository.Profile) (*db.User, error)
	UpdateUser(ctx context.Context, id uint64, fields repository.Fields) error
	ReplaceUserInterests(ctx context.Context, userID uint64, tagIDs []uint) error
}

// ReportSink stores moderation reports.
type ReportSink interface {
	InsertReport(ctx context.Context, reporterID, reportedID uint64, reason string) error
}

// Result is the engine's answer to one event.
type Result struct {
	Reply chat.Reply
	Flow  Flow
	// Done is set once the session was committed or cancelled.
	Done bool
	// User is the committed profile after registration.
	User *db.User
}

// Engine runs dialogue flows. It is safe for concurrent use across users;
// events for one user must be serialized by the caller.
type Engine struct {
	sessions SessionStore
	profiles ProfileStore
	reports  ReportSink
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewEngine wires an engine. m may be nil.
func NewEngine(sessions SessionStore, profiles ProfileStore, reports ReportSink, m *metrics.Metrics, log *slog.Logger) *Engine {
	if log == nil {
		log = logger.L()
	}
	return &Engine{sessions: sessions, profiles: profiles, reports: reports, metrics: m, log: log}
}

// Active reports whether the user has a dialogue in progress.
func (e *Engine) Active(ctx context.Context, externalID int64) (bool, error) {
	_, err := e.sessions.Get(ctx, externalID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNoSession):
		return false, nil
	default:
		return false, storeErr(err)
	}
}

// StartRegistration discards any session in progress and begins intake.
func (e *Engine) StartRegistration(ctx context.Context, externalID int64) (Result, error) {
	return e.start(ctx, externalID, &Session{Flow: FlowRegistration})
}

// StartLocationUpdate begins the single-step location edit for u.
func (e *Engine) StartLocationUpdate(ctx context.Context, externalID int64, u *db.User) (Result, error) {
	return e.start(ctx, externalID, &Session{Flow: FlowLocationUpdate, Language: u.Lang(), UserID: u.ID})
}

// StartBioUpdate begins the bio edit for u.
func (e *Engine) StartBioUpdate(ctx context.Context, externalID int64, u *db.User) (Result, error) {
	return e.start(ctx, externalID, &Session{Flow: FlowBioUpdate, Language: u.Lang(), UserID: u.ID})
}

// StartInterestsUpdate begins the interest edit for u, preselecting current.
func (e *Engine) StartInterestsUpdate(ctx context.Context, externalID int64, u *db.User, current []uint) (Result, error) {
	return e.start(ctx, externalID, &Session{
		Flow: FlowInterestsUpdate, Language: u.Lang(), UserID: u.ID, Interests: current,
	})
}

// StartReport begins capturing a report reason from reporter against targetID.
func (e *Engine) StartReport(ctx context.Context, externalID int64, reporter *db.User, targetID uint64) (Result, error) {
	if reporter.ID == targetID {
		return Result{Reply: chat.Reply{Text: i18n.T(reporter.Lang(), i18n.ErrCannotSelf)}}, apperrors.ErrSelf
	}
	return e.start(ctx, externalID, &Session{
		Flow: FlowReport, Language: reporter.Lang(), UserID: reporter.ID, ReportTarget: targetID,
	})
}

func (e *Engine) start(ctx context.Context, externalID int64, s *Session) (Result, error) {
	s.State = entryState[s.Flow]
	if err := e.sessions.Put(ctx, externalID, s); err != nil {
		return e.storeDown(s.Lang()), storeErr(err)
	}
	e.log.Debug("dialogue started", "user", logger.UserRef(externalID), "flow", s.Flow)
	return Result{Reply: Prompt(s), Flow: s.Flow}, nil
}

// Cancel discards the session in progress, if any.
func (e *Engine) Cancel(ctx context.Context, externalID int64) (Result, error) {
	lang := i18n.English
	var flow Flow
	if s, err := e.sessions.Get(ctx, externalID); err == nil {
		lang, flow = s.Lang(), s.Flow
	}
	if err := e.sessions.Delete(ctx, externalID); err != nil {
		return e.storeDown(lang), storeErr(err)
	}
	return Result{Reply: chat.Reply{Text: i18n.T(lang, i18n.Cancelled)}, Flow: flow, Done: true}, nil
}

// Handle feeds one input into the user's active session.
//
// Behavior:
//   - No session → ErrNoSession.
//   - The cancel button ends any flow.
//   - Inputs of a kind the state does not take, or values the step rejects,
//     re-send the prompt with a notice; the stored session is untouched.
//   - Accepted values are merged and the next prompt is returned.
//   - At StateCommit the session is flushed and deleted. On a store failure
//     the previous session stays and the error (ErrStoreUnavailable) is
//     returned together with a localized reply.
func (e *Engine) Handle(ctx context.Context, externalID int64, in Input) (Result, error) {
	s, err := e.sessions.Get(ctx, externalID)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return Result{}, err
		}
		return e.storeDown(i18n.English), storeErr(err)
	}
	lang := s.Lang()

	if in.Kind == InputChoice && in.Text == ChoiceCancel {
		return e.Cancel(ctx, externalID)
	}

	next, accepted := Next(s.State, in.Kind)
	if !accepted {
		e.rejected(s.State)
		return Result{Reply: withNotice(lang, Prompt(s), wrongKindNotice(s.State)), Flow: s.Flow}, nil
	}

	step, found := steps[s.State]
	if !found {
		return Result{}, fmt.Errorf("dialogue: no step for state %q", s.State)
	}

	draft := s.clone()
	v := step(draft, in)
	switch v.outcome {
	case reject:
		e.rejected(s.State)
		return Result{Reply: withNotice(lang, Prompt(s), v.notice, v.args...), Flow: s.Flow}, nil
	case stay:
		return e.save(ctx, externalID, draft)
	}

	draft.State = next
	if next != StateCommit {
		return e.save(ctx, externalID, draft)
	}
	return e.commit(ctx, externalID, s, draft)
}

func (e *Engine) save(ctx context.Context, externalID int64, s *Session) (Result, error) {
	if err := e.sessions.Put(ctx, externalID, s); err != nil {
		return e.storeDown(s.Lang()), storeErr(err)
	}
	return Result{Reply: Prompt(s), Flow: s.Flow}, nil
}

// commit flushes draft; before is the stored session, kept on failure.
func (e *Engine) commit(ctx context.Context, externalID int64, before, draft *Session) (Result, error) {
	lang := draft.Lang()
	res := Result{Flow: draft.Flow, Done: true}
	var err error

	switch draft.Flow {
	case FlowRegistration:
		age := 0
		if draft.Age != nil {
			age = *draft.Age
		}
		res.User, err = e.profiles.CommitProfile(ctx, repository.Profile{
			ExternalID: externalID,
			Language:   string(lang),
			FullName:   draft.Name,
			Age:        age,
			Gender:     draft.Gender,
			Preference: draft.Preference,
			Bio:        draft.Bio,
			Position:   draft.Position,
			PhotoID:    draft.PhotoID,
			Interests:  draft.Interests,
		})
		res.Reply = chat.Reply{Text: i18n.T(lang, i18n.RegistrationComplete)}
	case FlowLocationUpdate:
		err = e.profiles.UpdateUser(ctx, draft.UserID, repository.PositionFields(draft.Position))
		res.Reply = chat.Reply{Text: i18n.T(lang, i18n.LocationUpdated)}
	case FlowBioUpdate:
		err = e.profiles.UpdateUser(ctx, draft.UserID, repository.Fields{"bio": draft.Bio})
		res.Reply = chat.Reply{Text: i18n.T(lang, i18n.BioUpdated)}
	case FlowInterestsUpdate:
		err = e.profiles.ReplaceUserInterests(ctx, draft.UserID, draft.Interests)
		res.Reply = chat.Reply{Text: i18n.T(lang, i18n.InterestsUpdated)}
	case FlowReport:
		err = e.reports.InsertReport(ctx, draft.UserID, draft.ReportTarget, draft.Reason)
		res.Reply = chat.Reply{Text: i18n.T(lang, i18n.ReportReceived)}
	default:
		err = fmt.Errorf("dialogue: unknown flow %q", draft.Flow)
	}

	if err != nil {
		e.committed(draft.Flow, "error")
		e.log.Error("dialogue commit failed",
			"user", logger.UserRef(externalID), "flow", draft.Flow, "err", err)
		return Result{Reply: withNotice(before.Lang(), Prompt(before), i18n.ErrStoreDown), Flow: before.Flow}, storeErr(err)
	}

	if err := e.sessions.Delete(ctx, externalID); err != nil {
		// the profile is written; a leftover session only re-commits the same values
		e.log.Warn("session delete after commit failed", "user", logger.UserRef(externalID), "err", err)
	}
	e.committed(draft.Flow, "ok")
	e.log.Info("dialogue committed", "user", logger.UserRef(externalID), "flow", draft.Flow)
	return res, nil
}

func (e *Engine) storeDown(lang i18n.Lang) Result {
	return Result{Reply: chat.Reply{Text: i18n.T(lang, i18n.ErrStoreDown)}}
}

func (e *Engine) rejected(s State) {
	if e.metrics != nil {
		e.metrics.DialogueRejects.WithLabelValues(string(s)).Inc()
	}
}

func (e *Engine) committed(f Flow, result string) {
	if e.metrics != nil {
		e.metrics.DialogueCommits.WithLabelValues(string(f), result).Inc()
	}
}

// storeErr tags persistence failures so callers can tell them from bad input.
func storeErr(err error) error {
	if errors.Is(err, apperrors.ErrStoreUnavailable) || errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
}
