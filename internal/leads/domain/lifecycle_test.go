package domain

import "testing"

func TestFollowUpTypeOutcome(t *testing.T) {
	tests := []struct {
		typ  FollowUpType
		want TerminalOutcome
	}{
		{FollowUpInterested, OutcomeNone},
		{FollowUpAppointment, OutcomeNone},
		{FollowUpNoResponse, OutcomeNone},
		{FollowUpNotInterested, OutcomeNone},
		{FollowUpConverted, OutcomeConverted},
		{FollowUpClose, OutcomeClosed},
	}

	for _, tc := range tests {
		if got := tc.typ.Outcome(); got != tc.want {
			t.Errorf("%q.Outcome() = %v, want %v", tc.typ, got, tc.want)
		}
	}
}

func TestFollowUpTypeValidation(t *testing.T) {
	for _, valid := range []FollowUpType{
		FollowUpInterested, FollowUpAppointment, FollowUpNoResponse,
		FollowUpConverted, FollowUpNotInterested, FollowUpClose,
	} {
		if !valid.Valid() {
			t.Errorf("expected %q to be valid", valid)
		}
	}

	for _, invalid := range []FollowUpType{"", "Converted", "CLOSE", "callback"} {
		if invalid.Valid() {
			t.Errorf("expected %q to be rejected", invalid)
		}
	}
}

func TestConnectViaAndRatingValidation(t *testing.T) {
	if !ConnectViaCallEmail.Valid() || !ConnectViaCall.Valid() || !ConnectViaEmail.Valid() {
		t.Error("known connect_via values must validate")
	}
	if ConnectVia("call").Valid() || ConnectVia("SMS").Valid() {
		t.Error("unknown connect_via values must be rejected")
	}

	if !RatingHot.Valid() || !RatingWarm.Valid() || !RatingCold.Valid() {
		t.Error("known ratings must validate")
	}
	if InteractionRating("hot").Valid() || InteractionRating("Lukewarm").Valid() {
		t.Error("unknown ratings must be rejected")
	}
}

func TestClientLeadTransitionTable(t *testing.T) {
	allowed := []struct{ from, to ClientLeadStatus }{
		{StatusNew, StatusAssigned},
		{StatusNew, StatusMeeting},
		{StatusAssigned, StatusMeeting},
		{StatusMeeting, StatusConverted},
		{StatusMeeting, StatusClosed},
		{StatusConverted, StatusClosed},
		{StatusRejected, StatusClosed},
		{StatusMeeting, StatusMeeting}, // reschedule
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	rejected := []struct{ from, to ClientLeadStatus }{
		{StatusClosed, StatusMeeting},
		{StatusClosed, StatusNew},
		{StatusConverted, StatusMeeting},
		{StatusMeeting, StatusNew},
		{StatusMeeting, StatusAssigned},
		{StatusNew, "closed"},
		{"", StatusMeeting},
	}
	for _, tc := range rejected {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestClosedIsTerminal(t *testing.T) {
	if !IsTerminalStatus(StatusClosed) {
		t.Error("Closed must be terminal")
	}
	for _, s := range []ClientLeadStatus{StatusNew, StatusAssigned, StatusMeeting, StatusConverted, StatusRejected} {
		if IsTerminalStatus(s) {
			t.Errorf("%s must not be terminal", s)
		}
	}
	if IsTerminalStatus("closed") {
		t.Error("unknown status must not be reported terminal")
	}
}
