package dialogue

import (
	"strconv"
	"strings"

	"github.com/oggyb/habesha-match/internal/i18n"
)

// Button data understood by the dialogue steps.
const (
	ChoiceCancel        = "flow:cancel"
	ChoiceChooseZone    = "zone:choose"
	ChoiceInterestsDone = "interests:done"
	ChoiceSkipPhoto     = "photo:skip"

	prefixLang       = "lang:"
	prefixGender     = "gender:"
	prefixPreference = "pref:"
	prefixZone       = "zone:"
	prefixInterest   = "interest:"
)

func LangChoice(l i18n.Lang) string    { return prefixLang + string(l) }
func GenderChoice(g string) string     { return prefixGender + g }
func PreferenceChoice(p string) string { return prefixPreference + p }
func ZoneChoice(zone string) string    { return prefixZone + zone }
func InterestChoice(id uint) string    { return prefixInterest + strconv.FormatUint(uint64(id), 10) }

// value strips prefix from data, reporting whether it was present.
func value(data, prefix string) (string, bool) {
	if !strings.HasPrefix(data, prefix) {
		return "", false
	}
	return strings.TrimPrefix(data, prefix), true
}

func interestValue(data string) (uint, bool) {
	raw, ok := value(data, prefixInterest)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
