package dialogue

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/oggyb/habesha-match/internal/db"
	"github.com/oggyb/habesha-match/internal/geo"
	"github.com/oggyb/habesha-match/internal/i18n"
)

// Input limits.
const (
	MinAge          = 18
	MaxAge          = 120
	MaxNameLength   = 200
	MaxBioLength    = 500
	MaxReasonLength = 500
)

type outcome int

const (
	advance outcome = iota
	stay
	reject
)

// verdict is what a step decided about one input.
type verdict struct {
	outcome outcome
	notice  i18n.Key
	args    []any
}

func accept() verdict { return verdict{outcome: advance} }
func hold() verdict   { return verdict{outcome: stay} }

func rejectWith(key i18n.Key, args ...any) verdict {
	return verdict{outcome: reject, notice: key, args: args}
}

// step validates in and merges it into the draft session.
// The draft is discarded on reject, so steps may write to it freely.
type step func(s *Session, in Input) verdict

var steps = map[State]step{
	StateLanguage:   languageStep,
	StateName:       nameStep,
	StateAge:        ageStep,
	StateGender:     genderStep,
	StatePreference: preferenceStep,
	StateLocation:   locationStep,
	StateZone:       zoneStep,
	StateInterests:  interestsStep,
	StatePhoto:      photoStep,
	StateBio:        bioStep,

	StateLocationUpdate:  locationStep,
	StateZoneUpdate:      zoneStep,
	StateReportReason:    reasonStep,
	StateBioUpdate:       bioStep,
	StateInterestsUpdate: interestsStep,
}

func languageStep(s *Session, in Input) verdict {
	code, found := value(in.Text, prefixLang)
	if !found || !i18n.Supported(code) {
		return rejectWith(i18n.ErrUseButtons)
	}
	s.Language = i18n.Lang(code)
	return accept()
}

func nameStep(s *Session, in Input) verdict {
	name := strings.TrimSpace(in.Text)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return rejectWith(i18n.ErrName)
	}
	s.Name = name
	return accept()
}

func ageStep(s *Session, in Input) verdict {
	age, err := strconv.Atoi(strings.TrimSpace(in.Text))
	if err != nil || age < MinAge || age > MaxAge {
		return rejectWith(i18n.ErrAge)
	}
	s.Age = &age
	return accept()
}

func genderStep(s *Session, in Input) verdict {
	g, _ := value(in.Text, prefixGender)
	switch g {
	case db.GenderMale, db.GenderFemale, db.GenderOther:
		s.Gender = g
		return accept()
	}
	return rejectWith(i18n.ErrUseButtons)
}

func preferenceStep(s *Session, in Input) verdict {
	p, _ := value(in.Text, prefixPreference)
	switch p {
	case db.GenderMale, db.GenderFemale, db.PreferBoth:
		s.Preference = p
		return accept()
	}
	return rejectWith(i18n.ErrUseButtons)
}

// locationStep takes a live share, or the "choose zone" button which moves
// to the zone list.
func locationStep(s *Session, in Input) verdict {
	if in.Kind == InputChoice {
		if in.Text == ChoiceChooseZone {
			return accept()
		}
		return rejectWith(i18n.ErrUseButtons)
	}
	return rawPosition(s, in)
}

func zoneStep(s *Session, in Input) verdict {
	if in.Kind == InputLocation {
		return rawPosition(s, in)
	}
	if in.Text == ChoiceChooseZone {
		return hold()
	}
	name, found := value(in.Text, prefixZone)
	if !found {
		return rejectWith(i18n.ErrUseButtons)
	}
	pos, err := geo.ZonePosition(name)
	if err != nil {
		return rejectWith(i18n.ErrZone)
	}
	s.Position = pos
	return accept()
}

func rawPosition(s *Session, in Input) verdict {
	pos, err := geo.RawPosition(in.Lat, in.Lon)
	if err != nil {
		return rejectWith(i18n.ErrLocation)
	}
	s.Position = pos
	return accept()
}

// interestsStep toggles tags until "done".
func interestsStep(s *Session, in Input) verdict {
	if in.Text == ChoiceInterestsDone {
		return accept()
	}
	id, found := interestValue(in.Text)
	if !found || !db.IsInterest(id) {
		return rejectWith(i18n.ErrUseButtons)
	}
	if s.hasInterest(id) {
		out := s.Interests[:0]
		for _, have := range s.Interests {
			if have != id {
				out = append(out, have)
			}
		}
		s.Interests = out
		return hold()
	}
	if len(s.Interests) >= db.MaxInterests {
		return rejectWith(i18n.ErrTooManyTags, db.MaxInterests)
	}
	s.Interests = append(s.Interests, id)
	return hold()
}

func photoStep(s *Session, in Input) verdict {
	if in.Kind == InputChoice {
		if in.Text == ChoiceSkipPhoto {
			s.PhotoID = ""
			return accept()
		}
		return rejectWith(i18n.ErrSendPhoto)
	}
	if in.PhotoID == "" {
		return rejectWith(i18n.ErrSendPhoto)
	}
	s.PhotoID = in.PhotoID
	return accept()
}

func bioStep(s *Session, in Input) verdict {
	bio := strings.TrimSpace(in.Text)
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return rejectWith(i18n.ErrBioLength)
	}
	s.Bio = bio
	return accept()
}

func reasonStep(s *Session, in Input) verdict {
	reason := strings.TrimSpace(in.Text)
	if reason == "" || utf8.RuneCountInString(reason) > MaxReasonLength {
		return rejectWith(i18n.ErrReportReason)
	}
	s.Reason = reason
	return accept()
}
