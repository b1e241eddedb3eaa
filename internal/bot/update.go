// Package bot routes inbound messenger events to the dialogue engine or to
// discovery and matching, and renders the menus around them.
package bot

import (
	"strings"

	"github.com/oggyb/habesha-match/internal/dialogue"
	apperrors "github.com/oggyb/habesha-match/internal/errors"
	"github.com/oggyb/habesha-match/internal/geo"
)

// Kind is the shape of an inbound event.
type Kind string

const (
	KindText     Kind = "text"
	KindCallback Kind = "callback"
	KindLocation Kind = "location"
	KindPhoto    Kind = "photo"
)

// Update is one inbound event from the messaging channel.
type Update struct {
	// UserID is the messenger's stable identity of the sender.
	UserID int64 `json:"user_id"`
	Kind   Kind  `json:"kind"`
	// Text holds a message or command (leading "/").
	Text string `json:"text,omitempty"`
	// Data holds the pressed button's payload.
	Data    string  `json:"data,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
	PhotoID string  `json:"photo_id,omitempty"`
}

// Validate rejects events the router cannot interpret.
func (u Update) Validate() error {
	if u.UserID == 0 {
		return apperrors.Validation("user_id is required")
	}
	switch u.Kind {
	case KindText:
		if strings.TrimSpace(u.Text) == "" {
			return apperrors.Validation("text is required")
		}
	case KindCallback:
		if u.Data == "" {
			return apperrors.Validation("data is required")
		}
	case KindLocation:
		if !(geo.Coordinates{Lat: u.Lat, Lon: u.Lon}).Valid() {
			return apperrors.Validation("coordinates out of range")
		}
	case KindPhoto:
		if u.PhotoID == "" {
			return apperrors.Validation("photo_id is required")
		}
	default:
		return apperrors.Validation("unknown kind %q", u.Kind)
	}
	return nil
}

// commands are the slash commands the bot answers. Other text starting with
// "/" is ordinary input, so a bio like "/usr/bin fan" reaches the dialogue.
var commands = map[string]bool{"start": true, "cancel": true, "help": true, "safety": true}

// Command returns the command name ("start" for "/start@bot arg") when the
// text is one of the known commands.
func (u Update) Command() (string, bool) {
	if u.Kind != KindText {
		return "", false
	}
	t := strings.TrimSpace(u.Text)
	if !strings.HasPrefix(t, "/") {
		return "", false
	}
	name, _, _ := strings.Cut(t[1:], " ")
	name, _, _ = strings.Cut(name, "@")
	name = strings.ToLower(name)
	return name, commands[name]
}

// Input converts the event for the dialogue engine.
func (u Update) Input() dialogue.Input {
	switch u.Kind {
	case KindCallback:
		return dialogue.Input{Kind: dialogue.InputChoice, Text: u.Data}
	case KindLocation:
		return dialogue.Input{Kind: dialogue.InputLocation, Lat: u.Lat, Lon: u.Lon}
	case KindPhoto:
		return dialogue.Input{Kind: dialogue.InputPhoto, PhotoID: u.PhotoID}
	default:
		return dialogue.Input{Kind: dialogue.InputText, Text: u.Text}
	}
}
