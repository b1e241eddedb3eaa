package bot

import (
	"fmt"

	"github.com/oggyb/habesha-match/internal/chat"
	"github.com/oggyb/habesha-match/internal/db"
	"github.com/oggyb/habesha-match/internal/i18n"
	"github.com/oggyb/habesha-match/internal/notify"
	"github.com/oggyb/habesha-match/internal/service/match"
)

// Menu and settings callbacks.
const (
	ChoiceMainMenu = match.ChoiceMainMenu
	ChoiceMatches  = notify.ChoiceMatches
	ChoiceBrowse   = "menu:browse"
	ChoiceSettings = "menu:settings"
	ChoiceHelp     = "menu:help"

	ChoiceToggleLanguage = "settings:language"
	ChoiceToggleStealth  = "settings:stealth"
	ChoiceToggleNotify   = "settings:notify"
	ChoiceEditLocation   = "settings:location"
	ChoiceEditBio        = "settings:bio"
	ChoiceEditInterests  = "settings:interests"
)

func mainMenu(lang i18n.Lang) chat.Reply {
	t := func(k i18n.Key) string { return i18n.T(lang, k) }
	return chat.Reply{
		Text: t(i18n.MainMenu),
		Keyboard: [][]chat.Button{
			chat.Row(chat.Button{Text: t(i18n.BtnBrowse), Data: ChoiceBrowse}),
			chat.Row(
				chat.Button{Text: t(i18n.BtnMatches), Data: ChoiceMatches},
				chat.Button{Text: t(i18n.BtnSettings), Data: ChoiceSettings},
			),
			chat.Row(chat.Button{Text: t(i18n.BtnHelp), Data: ChoiceHelp}),
		},
	}
}

func backRow(lang i18n.Lang) []chat.Button {
	return chat.Row(chat.Button{Text: i18n.T(lang, i18n.BtnBack), Data: ChoiceMainMenu})
}

func settingsMenu(u *db.User) chat.Reply {
	lang := u.Lang()
	t := func(k i18n.Key) string { return i18n.T(lang, k) }
	return chat.Reply{
		Text: i18n.T(lang, i18n.Settings,
			t(i18n.LanguageName),
			locationLabel(lang, u),
			i18n.OnOff(lang, u.IsStealth),
			i18n.OnOff(lang, u.NotifyMatches),
		),
		Keyboard: [][]chat.Button{
			chat.Row(chat.Button{Text: t(i18n.BtnChangeLang), Data: ChoiceToggleLanguage}),
			chat.Row(chat.Button{Text: t(i18n.BtnUpdateLoc), Data: ChoiceEditLocation}),
			chat.Row(
				chat.Button{Text: t(i18n.BtnEditBio), Data: ChoiceEditBio},
				chat.Button{Text: t(i18n.BtnEditInterests), Data: ChoiceEditInterests},
			),
			chat.Row(
				chat.Button{Text: t(i18n.BtnStealth), Data: ChoiceToggleStealth},
				chat.Button{Text: t(i18n.BtnNotify), Data: ChoiceToggleNotify},
			),
			backRow(lang),
		},
	}
}

func locationLabel(lang i18n.Lang, u *db.User) string {
	p := u.Position()
	if z := p.Zone(); z != "" {
		return z
	}
	if c, ok := p.Coordinates(); ok {
		return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
	}
	return i18n.T(lang, i18n.NotSet)
}

func notice(lang i18n.Lang, key i18n.Key, args ...any) chat.Reply {
	return chat.Reply{Text: i18n.T(lang, key, args...)}
}
