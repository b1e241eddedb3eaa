package discovery

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/oggyb/habesha-match/internal/chat"
	"github.com/oggyb/habesha-match/internal/i18n"
)

// BioPreviewRunes is how much of a bio the card shows.
const BioPreviewRunes = 100

// Profile action callbacks carried by card buttons.
const (
	ActionLike    = "like"
	ActionDislike = "dislike"
	ActionReport  = "report"
)

// ActionChoice encodes a card button, e.g. "like:42".
func ActionChoice(action string, targetID uint64) string {
	return action + ":" + strconv.FormatUint(targetID, 10)
}

// ParseAction decodes a card button. ok is false for anything else.
func ParseAction(data string) (action string, targetID uint64, ok bool) {
	action, rest, found := strings.Cut(data, ":")
	if !found {
		return "", 0, false
	}
	switch action {
	case ActionLike, ActionDislike, ActionReport:
	default:
		return "", 0, false
	}
	id, err := strconv.ParseUint(rest, 10, 64)
	if err != nil || id == 0 {
		return "", 0, false
	}
	return action, id, true
}

// Card renders a candidate for the viewer. The photo, when present, carries
// the text as its caption.
func Card(lang i18n.Lang, c Candidate) chat.Reply {
	u := c.User
	var b strings.Builder

	b.WriteString("👤 <b>")
	b.WriteString(html.EscapeString(u.FullName))
	b.WriteString("</b>")
	if u.Age != nil {
		fmt.Fprintf(&b, ", %d", *u.Age)
	}
	if z := u.Position().Zone(); z != "" {
		b.WriteString("\n📍 ")
		b.WriteString(z)
	}
	if c.HasDistance {
		b.WriteString("\n")
		b.WriteString(i18n.T(lang, i18n.DistanceAway, c.DistanceKM))
	}
	if bio := BioPreview(u.Bio); bio != "" {
		b.WriteString("\n\n")
		b.WriteString(html.EscapeString(bio))
	}

	reply := chat.Reply{
		Text: b.String(),
		Keyboard: [][]chat.Button{
			chat.Row(
				chat.Button{Text: i18n.T(lang, i18n.BtnLike), Data: ActionChoice(ActionLike, u.ID)},
				chat.Button{Text: i18n.T(lang, i18n.BtnDislike), Data: ActionChoice(ActionDislike, u.ID)},
			),
			chat.Row(chat.Button{Text: i18n.T(lang, i18n.BtnReport), Data: ActionChoice(ActionReport, u.ID)}),
		},
	}
	if u.PhotoID != nil {
		reply.PhotoID = *u.PhotoID
	}
	return reply
}

// BioPreview cuts bio to BioPreviewRunes characters, adding "..." when cut.
func BioPreview(bio string) string {
	bio = strings.TrimSpace(bio)
	r := []rune(bio)
	if len(r) <= BioPreviewRunes {
		return bio
	}
	return string(r[:BioPreviewRunes]) + "..."
}
