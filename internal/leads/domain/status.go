// Package domain provides core business rules for the lead lifecycle:
// enumerated statuses, the client lead transition table, and the mapping
// from follow-up types to terminal outcomes.
package domain

// ConnectVia is the channel used for a contact attempt.
type ConnectVia string

const (
	ConnectViaCall      ConnectVia = "Call"
	ConnectViaEmail     ConnectVia = "Email"
	ConnectViaCallEmail ConnectVia = "Call/Email"
)

var knownConnectVia = map[ConnectVia]struct{}{
	ConnectViaCall:      {},
	ConnectViaEmail:     {},
	ConnectViaCallEmail: {},
}

// Valid reports whether the value is a member of the enumerated set.
func (c ConnectVia) Valid() bool {
	_, ok := knownConnectVia[c]
	return ok
}

// FollowUpType classifies a contact attempt and drives which terminal record,
// if any, is created.
type FollowUpType string

const (
	FollowUpInterested    FollowUpType = "interested"
	FollowUpAppointment   FollowUpType = "appointment"
	FollowUpNoResponse    FollowUpType = "no response"
	FollowUpConverted     FollowUpType = "converted"
	FollowUpNotInterested FollowUpType = "not interested"
	FollowUpClose         FollowUpType = "close"
)

var knownFollowUpTypes = map[FollowUpType]struct{}{
	FollowUpInterested:    {},
	FollowUpAppointment:   {},
	FollowUpNoResponse:    {},
	FollowUpConverted:     {},
	FollowUpNotInterested: {},
	FollowUpClose:         {},
}

// Valid reports whether the value is a member of the enumerated set.
func (t FollowUpType) Valid() bool {
	_, ok := knownFollowUpTypes[t]
	return ok
}

// TerminalOutcome identifies which terminal record a follow-up type produces.
type TerminalOutcome int

const (
	// OutcomeNone means the follow-up only mirrors its type onto the fresh
	// lead's follow_up_status.
	OutcomeNone TerminalOutcome = iota
	// OutcomeConverted creates a converted client record.
	OutcomeConverted
	// OutcomeClosed creates a close lead record.
	OutcomeClosed
)

// Outcome returns the terminal record this follow-up type produces.
func (t FollowUpType) Outcome() TerminalOutcome {
	switch t {
	case FollowUpConverted:
		return OutcomeConverted
	case FollowUpClose:
		return OutcomeClosed
	default:
		return OutcomeNone
	}
}

// IsTerminal reports whether the follow-up type resolves the lead's
// disposition.
func (t FollowUpType) IsTerminal() bool {
	return t.Outcome() != OutcomeNone
}

// InteractionRating grades how the contact went.
type InteractionRating string

const (
	RatingHot  InteractionRating = "Hot"
	RatingWarm InteractionRating = "Warm"
	RatingCold InteractionRating = "Cold"
)

var knownRatings = map[InteractionRating]struct{}{
	RatingHot:  {},
	RatingWarm: {},
	RatingCold: {},
}

// Valid reports whether the value is a member of the enumerated set.
func (r InteractionRating) Valid() bool {
	_, ok := knownRatings[r]
	return ok
}
