package i18n_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oggyb/habesha-match/internal/i18n"
)

func TestParse(t *testing.T) {
	assert.Equal(t, i18n.Amharic, i18n.Parse("am"))
	assert.Equal(t, i18n.Amharic, i18n.Parse("am-ET"))
	assert.Equal(t, i18n.English, i18n.Parse("en"))
	assert.Equal(t, i18n.English, i18n.Parse("en-GB"))
	assert.Equal(t, i18n.English, i18n.Parse(""))
	assert.Equal(t, i18n.English, i18n.Parse("not a tag"))
}

func TestT_FallsBackToEnglish(t *testing.T) {
	// ChooseLanguage only has an English (bilingual) entry
	assert.Equal(t, i18n.T(i18n.English, i18n.ChooseLanguage), i18n.T(i18n.Amharic, i18n.ChooseLanguage))
}

func TestT_LocalizesAndFormats(t *testing.T) {
	en := i18n.T(i18n.English, i18n.NewMatch, "Abel")
	am := i18n.T(i18n.Amharic, i18n.NewMatch, "Abel")

	assert.Contains(t, en, "New Match with Abel")
	assert.Contains(t, am, "Abel")
	assert.NotEqual(t, en, am)
}

func TestT_UnknownKey(t *testing.T) {
	assert.Equal(t, "nope", i18n.T(i18n.English, i18n.Key("nope")))
}

func TestToggleAndOnOff(t *testing.T) {
	assert.Equal(t, i18n.Amharic, i18n.English.Toggle())
	assert.Equal(t, i18n.English, i18n.Amharic.Toggle())
	assert.Equal(t, "On", i18n.OnOff(i18n.English, true))
	assert.True(t, strings.TrimSpace(i18n.OnOff(i18n.Amharic, false)) != "")
}
