package domain

// ClientLeadStatus is the lifecycle status of an inbound client lead.
// The comparison is case-sensitive everywhere: "Closed" gates finalization,
// "closed" does not.
type ClientLeadStatus string

const (
	StatusNew       ClientLeadStatus = "New"
	StatusAssigned  ClientLeadStatus = "Assigned"
	StatusMeeting   ClientLeadStatus = "Meeting"
	StatusConverted ClientLeadStatus = "Converted"
	StatusClosed    ClientLeadStatus = "Closed"
	StatusRejected  ClientLeadStatus = "Rejected"
)

var knownStatuses = map[ClientLeadStatus]struct{}{
	StatusNew:       {},
	StatusAssigned:  {},
	StatusMeeting:   {},
	StatusConverted: {},
	StatusClosed:    {},
	StatusRejected:  {},
}

// Valid reports whether the value is a member of the enumerated set.
func (s ClientLeadStatus) Valid() bool {
	_, ok := knownStatuses[s]
	return ok
}

// transitions is the exhaustive client lead transition table. Any pair not
// listed here is rejected. Self-transitions are allowed (a meeting can be
// rescheduled while the lead already sits in Meeting).
var transitions = map[ClientLeadStatus][]ClientLeadStatus{
	StatusNew:       {StatusAssigned, StatusMeeting, StatusConverted, StatusClosed, StatusRejected},
	StatusAssigned:  {StatusMeeting, StatusConverted, StatusClosed, StatusRejected},
	StatusMeeting:   {StatusConverted, StatusClosed, StatusRejected},
	StatusConverted: {StatusClosed},
	StatusRejected:  {StatusClosed},
	StatusClosed:    {},
}

// CanTransition reports whether moving from one status to another is allowed
// by the transition table.
func CanTransition(from, to ClientLeadStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether no further transitions leave the status.
func IsTerminalStatus(s ClientLeadStatus) bool {
	return s.Valid() && len(transitions[s]) == 0
}
