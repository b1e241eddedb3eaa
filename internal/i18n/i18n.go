// Package i18n renders user-facing text in the languages the bot speaks.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// Lang is a supported UI language.
type Lang string

const (
	English Lang = "en"
	Amharic Lang = "am"
)

var matcher = language.NewMatcher([]language.Tag{language.English, language.Amharic})

// Parse maps any BCP 47 tag (or messenger language code) onto a supported Lang.
// Unknown or empty input falls back to English.
func Parse(s string) Lang {
	tag, _, _ := matcher.Match(language.Make(s))
	if base, _ := tag.Base(); base.String() == string(Amharic) {
		return Amharic
	}
	return English
}

// Supported reports whether s names a supported language exactly.
func Supported(s string) bool {
	return s == string(English) || s == string(Amharic)
}

// Toggle returns the other supported language.
func (l Lang) Toggle() Lang {
	if l == Amharic {
		return English
	}
	return Amharic
}

// T renders key in lang, formatting args when given. Missing translations
// fall back to English; a missing key renders as the key itself.
func T(lang Lang, key Key, args ...any) string {
	entry, ok := messages[key]
	if !ok {
		return string(key)
	}
	text, ok := entry[lang]
	if !ok {
		text = entry[English]
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// OnOff renders a boolean setting.
func OnOff(lang Lang, on bool) string {
	if on {
		return T(lang, WordOn)
	}
	return T(lang, WordOff)
}
