package dialogue

// State is a step in one of the dialogue graphs.
type State string

const (
	StateNone State = ""

	// registration
	StateLanguage   State = "language"
	StateName       State = "name"
	StateAge        State = "age"
	StateGender     State = "gender"
	StatePreference State = "preference"
	StateLocation   State = "location"
	StateZone       State = "zone"
	StateInterests  State = "interests"
	StatePhoto      State = "photo"
	StateBio        State = "bio"

	// settings edits
	StateLocationUpdate  State = "location_update"
	StateZoneUpdate      State = "zone_update"
	StateReportReason    State = "report_reason"
	StateBioUpdate       State = "bio_update"
	StateInterestsUpdate State = "interests_update"

	// StateCommit is terminal: reaching it flushes the session.
	StateCommit State = "commit"
)

// Flow names which graph a session walks.
type Flow string

const (
	FlowRegistration    Flow = "registration"
	FlowLocationUpdate  Flow = "location_update"
	FlowReport          Flow = "report"
	FlowBioUpdate       Flow = "bio_update"
	FlowInterestsUpdate Flow = "interests_update"
)

// InputKind is the shape of an inbound event.
type InputKind int

const (
	InputText InputKind = iota
	InputChoice
	InputLocation
	InputPhoto
)

func (k InputKind) String() string {
	switch k {
	case InputText:
		return "text"
	case InputChoice:
		return "choice"
	case InputLocation:
		return "location"
	case InputPhoto:
		return "photo"
	default:
		return "unknown"
	}
}

// Input is one inbound event routed to a dialogue.
type Input struct {
	Kind InputKind
	// Text carries free text or the pressed button's data.
	Text     string
	Lat, Lon float64
	PhotoID  string
}

// transitions is the full step graph: state × input kind → next state.
// A missing entry means the input kind is not accepted in that state.
// Handlers may still keep the session in place (toggles) or reject the value.
var transitions = map[State]map[InputKind]State{
	StateLanguage:   {InputChoice: StateName},
	StateName:       {InputText: StateAge},
	StateAge:        {InputText: StateGender},
	StateGender:     {InputChoice: StatePreference},
	StatePreference: {InputChoice: StateLocation},
	StateLocation:   {InputLocation: StateInterests, InputChoice: StateZone},
	StateZone:       {InputChoice: StateInterests, InputLocation: StateInterests},
	StateInterests:  {InputChoice: StatePhoto},
	StatePhoto:      {InputPhoto: StateBio, InputChoice: StateBio},
	StateBio:        {InputText: StateCommit},

	StateLocationUpdate:  {InputLocation: StateCommit, InputChoice: StateZoneUpdate},
	StateZoneUpdate:      {InputChoice: StateCommit, InputLocation: StateCommit},
	StateReportReason:    {InputText: StateCommit},
	StateBioUpdate:       {InputText: StateCommit},
	StateInterestsUpdate: {InputChoice: StateCommit},
}

// Next returns the state reached from s on an accepted input of kind k.
func Next(s State, k InputKind) (State, bool) {
	next, ok := transitions[s][k]
	return next, ok
}

// Accepts reports whether s takes inputs of kind k at all.
func Accepts(s State, k InputKind) bool {
	_, ok := Next(s, k)
	return ok
}

// entryState is where each flow begins.
var entryState = map[Flow]State{
	FlowRegistration:    StateLanguage,
	FlowLocationUpdate:  StateLocationUpdate,
	FlowReport:          StateReportReason,
	FlowBioUpdate:       StateBioUpdate,
	FlowInterestsUpdate: StateInterestsUpdate,
}
