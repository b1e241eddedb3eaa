package bot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oggyb/habesha-match/internal/app"
	"github.com/oggyb/habesha-match/internal/chat"
	"github.com/oggyb/habesha-match/internal/db"
	"github.com/oggyb/habesha-match/internal/dialogue"
	apperrors "github.com/oggyb/habesha-match/internal/errors"
	"github.com/oggyb/habesha-match/internal/i18n"
	"github.com/oggyb/habesha-match/internal/logger"
	"github.com/oggyb/habesha-match/internal/repository"
	"github.com/oggyb/habesha-match/internal/service/discovery"
	"github.com/oggyb/habesha-match/internal/service/match"
)

// Router turns one inbound event into the replies to send back.
//
// Events for one user must be handed to Handle one at a time, in arrival
// order; the dispatch package does that for the live transports.
type Router struct {
	users     *repository.UserRepository
	engine    *dialogue.Engine
	discovery *discovery.Service
	matches   *match.Service
	log       *slog.Logger
}

// NewRouter wires a router from the shared context and the domain services.
func NewRouter(appCtx *app.AppContext, engine *dialogue.Engine, disc *discovery.Service, matches *match.Service) *Router {
	log := appCtx.Logger
	if log == nil {
		log = logger.L()
	}
	return &Router{
		users:     repository.NewUserRepository(appCtx.DB),
		engine:    engine,
		discovery: disc,
		matches:   matches,
		log:       log,
	}
}

// Handle processes one event.
//
// Behavior:
//   - Commands (/start, /cancel, /help, /safety) are always honoured.
//   - While a dialogue is active every other event goes to it, including
//     text that merely starts with "/".
//   - Otherwise unregistered users are asked to /start; registered users get
//     menus, discovery and matching.
//   - Soft failures (missing profile, self action, quota) come back as
//     localized notices with a nil error. Store failures return a notice and
//     the error.
func (r *Router) Handle(ctx context.Context, up Update) ([]chat.Reply, error) {
	if err := up.Validate(); err != nil {
		return nil, err
	}
	if cmd, ok := up.Command(); ok {
		return r.command(ctx, up, cmd)
	}

	active, err := r.engine.Active(ctx, up.UserID)
	if err != nil {
		return r.fail(up, i18n.English, err)
	}
	if active {
		return r.dialogue(ctx, up)
	}
	return r.route(ctx, up)
}

func (r *Router) route(ctx context.Context, up Update) ([]chat.Reply, error) {
	u, ok, err := r.registered(ctx, up.UserID)
	if err != nil {
		return r.fail(up, i18n.English, err)
	}
	if !ok {
		return []chat.Reply{notice(i18n.English, i18n.ErrNeedRegister)}, nil
	}
	if up.Kind != KindCallback {
		return []chat.Reply{mainMenu(u.Lang())}, nil
	}
	return r.callback(ctx, up, u)
}

// registered loads the sender; ok is false until registration completed.
func (r *Router) registered(ctx context.Context, externalID int64) (*db.User, bool, error) {
	u, err := r.users.GetUser(ctx, externalID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	return u, u.Completed(), nil
}

func (r *Router) command(ctx context.Context, up Update, cmd string) ([]chat.Reply, error) {
	switch cmd {
	case "start":
		u, ok, err := r.registered(ctx, up.UserID)
		if err != nil {
			return r.fail(up, i18n.English, err)
		}
		if !ok {
			res, err := r.engine.StartRegistration(ctx, up.UserID)
			return one(res.Reply), err
		}
		if active, _ := r.engine.Active(ctx, up.UserID); active {
			if _, err := r.engine.Cancel(ctx, up.UserID); err != nil {
				return r.fail(up, u.Lang(), err)
			}
		}
		if err := r.users.UpdateUser(ctx, u.ID, repository.Fields{"last_seen_at": time.Now().UTC()}); err != nil {
			r.log.Warn("last seen update failed", "user", logger.UserRef(up.UserID), "err", err)
		}
		return []chat.Reply{mainMenu(u.Lang())}, nil

	case "cancel":
		res, err := r.engine.Cancel(ctx, up.UserID)
		if err != nil {
			return one(res.Reply), err
		}
		replies := one(res.Reply)
		if u, ok, _ := r.registered(ctx, up.UserID); ok {
			replies = append(replies, mainMenu(u.Lang()))
		}
		return replies, nil

	default:
		lang := i18n.English
		if u, ok, _ := r.registered(ctx, up.UserID); ok {
			lang = u.Lang()
		}
		key := i18n.Help
		if cmd == "safety" {
			key = i18n.Safety
		}
		return []chat.Reply{{Text: i18n.T(lang, key), Keyboard: [][]chat.Button{backRow(lang)}}}, nil
	}
}

func (r *Router) dialogue(ctx context.Context, up Update) ([]chat.Reply, error) {
	res, err := r.engine.Handle(ctx, up.UserID, up.Input())
	if errors.Is(err, dialogue.ErrNoSession) {
		return r.route(ctx, up)
	}
	if err != nil {
		r.log.Error("dialogue step failed", "user", logger.UserRef(up.UserID), "err", err)
		return one(res.Reply), err
	}

	replies := one(res.Reply)
	if !res.Done {
		return replies, nil
	}
	u := res.User
	if u == nil {
		var ok bool
		if u, ok, err = r.registered(ctx, up.UserID); err != nil || !ok {
			return replies, nil
		}
	}
	switch res.Flow {
	case dialogue.FlowLocationUpdate, dialogue.FlowBioUpdate, dialogue.FlowInterestsUpdate:
		replies = append(replies, settingsMenu(u))
	default:
		replies = append(replies, mainMenu(u.Lang()))
	}
	return replies, nil
}

func (r *Router) callback(ctx context.Context, up Update, u *db.User) ([]chat.Reply, error) {
	lang := u.Lang()

	switch up.Data {
	case ChoiceMainMenu:
		return []chat.Reply{mainMenu(lang)}, nil
	case ChoiceBrowse:
		return r.browse(ctx, up, u, nil)
	case ChoiceMatches:
		return r.listMatches(ctx, up, u, "")
	case ChoiceSettings:
		return []chat.Reply{settingsMenu(u)}, nil
	case ChoiceHelp:
		return []chat.Reply{{Text: i18n.T(lang, i18n.Help), Keyboard: [][]chat.Button{backRow(lang)}}}, nil

	case ChoiceToggleLanguage:
		next := lang.Toggle()
		if err := r.users.UpdateUser(ctx, u.ID, repository.Fields{"language": string(next)}); err != nil {
			return r.fail(up, lang, err)
		}
		u.Language = string(next)
		return []chat.Reply{notice(next, i18n.LanguageChanged), settingsMenu(u)}, nil
	case ChoiceToggleStealth:
		if err := r.users.UpdateUser(ctx, u.ID, repository.Fields{"is_stealth": !u.IsStealth}); err != nil {
			return r.fail(up, lang, err)
		}
		u.IsStealth = !u.IsStealth
		return []chat.Reply{notice(lang, i18n.StealthStatus, i18n.OnOff(lang, u.IsStealth)), settingsMenu(u)}, nil
	case ChoiceToggleNotify:
		if err := r.users.UpdateUser(ctx, u.ID, repository.Fields{"notify_matches": !u.NotifyMatches}); err != nil {
			return r.fail(up, lang, err)
		}
		u.NotifyMatches = !u.NotifyMatches
		return []chat.Reply{notice(lang, i18n.NotifyStatus, i18n.OnOff(lang, u.NotifyMatches)), settingsMenu(u)}, nil

	case ChoiceEditLocation:
		res, err := r.engine.StartLocationUpdate(ctx, up.UserID, u)
		return one(res.Reply), err
	case ChoiceEditBio:
		res, err := r.engine.StartBioUpdate(ctx, up.UserID, u)
		return one(res.Reply), err
	case ChoiceEditInterests:
		current, err := r.users.UserInterests(ctx, u.ID)
		if err != nil {
			return r.fail(up, lang, err)
		}
		res, err := r.engine.StartInterestsUpdate(ctx, up.UserID, u, current)
		return one(res.Reply), err
	}

	if token, ok := match.ParsePageChoice(up.Data); ok {
		return r.listMatches(ctx, up, u, token)
	}
	if action, target, ok := discovery.ParseAction(up.Data); ok {
		return r.profileAction(ctx, up, u, action, target)
	}

	r.log.Debug("unknown callback", "user", logger.UserRef(up.UserID), "data", up.Data)
	return []chat.Reply{notice(lang, i18n.ErrUnknownAction), mainMenu(lang)}, nil
}

func (r *Router) profileAction(ctx context.Context, up Update, u *db.User, action string, target uint64) ([]chat.Reply, error) {
	lang := u.Lang()
	switch action {
	case discovery.ActionLike:
		res, err := r.matches.Like(ctx, u, target)
		if errors.Is(err, apperrors.ErrNotFound) {
			return r.browse(ctx, up, u, one(notice(lang, i18n.ErrUnavailable)))
		} else if err != nil {
			return r.fail(up, lang, err)
		}
		if res.Outcome == match.OutcomeQuota {
			return []chat.Reply{withMenu(res.Reply, lang)}, nil
		}
		return r.browse(ctx, up, u, one(res.Reply))

	case discovery.ActionDislike:
		if err := r.matches.Dislike(ctx, u, target); err != nil {
			return r.fail(up, lang, err)
		}
		return r.browse(ctx, up, u, nil)

	default: // report
		if _, err := r.users.GetUserByID(ctx, target); err != nil {
			return r.fail(up, lang, err)
		}
		res, err := r.engine.StartReport(ctx, up.UserID, u, target)
		if errors.Is(err, apperrors.ErrSelf) {
			return one(res.Reply), nil
		}
		return one(res.Reply), err
	}
}

// browse appends the next candidate (or the reason there is none) to prefix.
func (r *Router) browse(ctx context.Context, up Update, u *db.User, prefix []chat.Reply) ([]chat.Reply, error) {
	lang := u.Lang()
	res, err := r.discovery.NextCandidate(ctx, u)
	if err != nil {
		replies, err := r.fail(up, lang, err)
		return append(prefix, replies...), err
	}
	reply := res.Reply
	switch res.Outcome {
	case discovery.OutcomeNoLocation:
		reply.Keyboard = [][]chat.Button{
			chat.Row(chat.Button{Text: i18n.T(lang, i18n.BtnUpdateLoc), Data: ChoiceEditLocation}),
			backRow(lang),
		}
	case discovery.OutcomeEmpty, discovery.OutcomeQuota:
		reply = withMenu(reply, lang)
	}
	return append(prefix, reply), nil
}

func (r *Router) listMatches(ctx context.Context, up Update, u *db.User, token string) ([]chat.Reply, error) {
	reply, err := r.matches.ListMatches(ctx, u, token)
	if err != nil {
		return r.fail(up, u.Lang(), err)
	}
	return one(reply), nil
}

// fail turns an error into a notice. Expected outcomes return a nil error.
func (r *Router) fail(up Update, lang i18n.Lang, err error) ([]chat.Reply, error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return one(notice(lang, i18n.ErrUnavailable)), nil
	case errors.Is(err, apperrors.ErrSelf):
		return one(notice(lang, i18n.ErrCannotSelf)), nil
	case errors.Is(err, apperrors.ErrNoLocation):
		return one(notice(lang, i18n.ErrNeedLocation)), nil
	case errors.Is(err, apperrors.ErrQuotaExceeded):
		return one(notice(lang, i18n.QuotaExceeded)), nil
	case errors.Is(err, apperrors.ErrThrottled):
		return one(notice(lang, i18n.ErrThrottled)), nil
	case errors.Is(err, apperrors.ErrValidation):
		return one(notice(lang, i18n.ErrUnknownAction)), nil
	}
	r.log.Error("event failed", "user", logger.UserRef(up.UserID), "kind", up.Kind, "err", err)
	return one(notice(lang, i18n.ErrStoreDown)), err
}

func withMenu(reply chat.Reply, lang i18n.Lang) chat.Reply {
	reply.Keyboard = mainMenu(lang).Keyboard
	return reply
}

func one(reply chat.Reply) []chat.Reply {
	if reply.IsZero() {
		return nil
	}
	return []chat.Reply{reply}
}
