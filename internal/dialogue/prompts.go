package dialogue

import (
	"github.com/oggyb/habesha-match/internal/chat"
	"github.com/oggyb/habesha-match/internal/db"
	"github.com/oggyb/habesha-match/internal/geo"
	"github.com/oggyb/habesha-match/internal/i18n"
)

// Prompt renders the question for the session's current state.
func Prompt(s *Session) chat.Reply {
	lang := s.Lang()
	t := func(k i18n.Key) string { return i18n.T(lang, k) }

	switch s.State {
	case StateLanguage:
		return chat.Reply{
			Text: i18n.T(i18n.English, i18n.ChooseLanguage),
			Keyboard: [][]chat.Button{chat.Row(
				chat.Button{Text: "🇬🇧 English", Data: LangChoice(i18n.English)},
				chat.Button{Text: "🇪🇹 አማርኛ", Data: LangChoice(i18n.Amharic)},
			)},
		}
	case StateName:
		return chat.Reply{Text: t(i18n.AskName)}
	case StateAge:
		return chat.Reply{Text: t(i18n.AskAge)}
	case StateGender:
		return chat.Reply{
			Text: t(i18n.AskGender),
			Keyboard: [][]chat.Button{
				chat.Row(
					chat.Button{Text: t(i18n.BtnMale), Data: GenderChoice(db.GenderMale)},
					chat.Button{Text: t(i18n.BtnFemale), Data: GenderChoice(db.GenderFemale)},
				),
				chat.Row(chat.Button{Text: t(i18n.BtnOther), Data: GenderChoice(db.GenderOther)}),
			},
		}
	case StatePreference:
		return chat.Reply{
			Text: t(i18n.AskPreference),
			Keyboard: [][]chat.Button{
				chat.Row(
					chat.Button{Text: t(i18n.BtnPrefMale), Data: PreferenceChoice(db.GenderMale)},
					chat.Button{Text: t(i18n.BtnPrefFemale), Data: PreferenceChoice(db.GenderFemale)},
				),
				chat.Row(chat.Button{Text: t(i18n.BtnPrefBoth), Data: PreferenceChoice(db.PreferBoth)}),
			},
		}
	case StateLocation, StateLocationUpdate:
		text := t(i18n.AskLocation)
		if s.State == StateLocationUpdate {
			text = t(i18n.UpdateLocation)
		}
		return withCancel(s, chat.Reply{
			Text:            text,
			RequestLocation: true,
			Keyboard:        [][]chat.Button{chat.Row(chat.Button{Text: t(i18n.BtnChooseZone), Data: ChoiceChooseZone})},
		})
	case StateZone, StateZoneUpdate:
		buttons := make([]chat.Button, 0, len(geo.Zones()))
		for _, z := range geo.Zones() {
			buttons = append(buttons, chat.Button{Text: z, Data: ZoneChoice(z)})
		}
		return withCancel(s, chat.Reply{
			Text:            t(i18n.ChooseZone),
			RequestLocation: true,
			Keyboard:        chat.Grid(buttons, 2),
		})
	case StateInterests, StateInterestsUpdate:
		text := t(i18n.AskInterests)
		if s.State == StateInterestsUpdate {
			text = t(i18n.UpdateInterests)
		}
		catalog := db.InterestCatalog()
		buttons := make([]chat.Button, 0, len(catalog))
		for _, in := range catalog {
			label := in.Label(lang)
			if s.hasInterest(in.ID) {
				label = "✅ " + label
			}
			buttons = append(buttons, chat.Button{Text: label, Data: InterestChoice(in.ID)})
		}
		kb := chat.Grid(buttons, 2)
		kb = append(kb, chat.Row(chat.Button{Text: t(i18n.BtnDone), Data: ChoiceInterestsDone}))
		return withCancel(s, chat.Reply{Text: text, Keyboard: kb})
	case StatePhoto:
		return chat.Reply{
			Text:     t(i18n.AskPhoto),
			Keyboard: [][]chat.Button{chat.Row(chat.Button{Text: t(i18n.BtnSkip), Data: ChoiceSkipPhoto})},
		}
	case StateBio:
		return chat.Reply{Text: t(i18n.AskBio)}
	case StateBioUpdate:
		return withCancel(s, chat.Reply{Text: t(i18n.UpdateBio)})
	case StateReportReason:
		return withCancel(s, chat.Reply{Text: t(i18n.ReportPrompt)})
	default:
		return chat.Reply{Text: t(i18n.ErrUnknownAction)}
	}
}

// withCancel adds a cancel row to prompts of settings flows.
func withCancel(s *Session, r chat.Reply) chat.Reply {
	if s.Flow == FlowRegistration {
		return r
	}
	r.Keyboard = append(r.Keyboard, chat.Row(chat.Button{Text: i18n.T(s.Lang(), i18n.BtnCancel), Data: ChoiceCancel}))
	return r
}

// withNotice prefixes a localized error to the re-sent prompt.
func withNotice(lang i18n.Lang, r chat.Reply, key i18n.Key, args ...any) chat.Reply {
	r.Text = i18n.T(lang, key, args...) + "\n\n" + r.Text
	return r
}

// wrongKindNotice picks the hint for an input of the wrong shape.
func wrongKindNotice(s State) i18n.Key {
	switch {
	case Accepts(s, InputPhoto):
		return i18n.ErrSendPhoto
	case Accepts(s, InputLocation):
		return i18n.ErrLocation
	case Accepts(s, InputText):
		switch s {
		case StateAge:
			return i18n.ErrAge
		case StateName:
			return i18n.ErrName
		case StateReportReason:
			return i18n.ErrReportReason
		}
		return i18n.ErrUnknownAction
	default:
		return i18n.ErrUseButtons
	}
}
