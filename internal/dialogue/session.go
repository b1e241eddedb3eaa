package dialogue

import (
	"context"
	"errors"
	"slices"

	"github.com/oggyb/habesha-match/internal/geo"
	"github.com/oggyb/habesha-match/internal/i18n"
)

// ErrNoSession is returned by SessionStore.Get when the user has no dialogue in progress.
var ErrNoSession = errors.New("no active session")

// Session is the partially collected state of one user's dialogue.
// It lives only between the flow's start and its commit or cancel.
type Session struct {
	Flow     Flow      `json:"flow"`
	State    State     `json:"state"`
	Language i18n.Lang `json:"language"`

	Name       string       `json:"name,omitempty"`
	Age        *int         `json:"age,omitempty"`
	Gender     string       `json:"gender,omitempty"`
	Preference string       `json:"preference,omitempty"`
	Position   geo.Position `json:"position"`
	Interests  []uint       `json:"interests,omitempty"`
	PhotoID    string       `json:"photo_id,omitempty"`
	Bio        string       `json:"bio,omitempty"`
	Reason     string       `json:"reason,omitempty"`

	// UserID is the internal id of an existing user for settings flows.
	UserID uint64 `json:"user_id,omitempty"`
	// ReportTarget is the internal id of the reported user.
	ReportTarget uint64 `json:"report_target,omitempty"`
}

// Lang returns the session language, English until one is chosen.
func (s *Session) Lang() i18n.Lang {
	if s.Language == "" {
		return i18n.English
	}
	return s.Language
}

func (s *Session) clone() *Session {
	c := *s
	if s.Age != nil {
		age := *s.Age
		c.Age = &age
	}
	c.Interests = slices.Clone(s.Interests)
	return &c
}

func (s *Session) hasInterest(id uint) bool {
	return slices.Contains(s.Interests, id)
}

// SessionStore keeps sessions keyed by messenger identity.
// Callers serialize access per user.
type SessionStore interface {
	Get(ctx context.Context, externalID int64) (*Session, error)
	Put(ctx context.Context, externalID int64, s *Session) error
	Delete(ctx context.Context, externalID int64) error
}
