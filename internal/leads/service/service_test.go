package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/internal/leads/ports"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/platform/apperr"
	"crm_portal_backend/platform/events"
	"crm_portal_backend/platform/logger"

	"github.com/google/uuid"
)

func newTestService(store *fakeStore, users map[string]ports.Executive) *Service {
	if users == nil {
		users = map[string]ports.Executive{}
	}
	return New(store, &fakeDirectory{users: users}, events.NewInMemoryBus(logger.New("development")), nil, logger.New("development"))
}

func seedChain(t *testing.T, store *fakeStore, svc *Service) (repository.ClientLead, repository.Lead, repository.FreshLead) {
	t.Helper()
	ctx := context.Background()

	cl, err := store.CreateClientLead(ctx, repository.CreateClientLeadParams{
		Name: "Asha Verma", Email: "asha@example.com", Phone: "+919876543210",
	})
	if err != nil {
		t.Fatalf("seed client lead: %v", err)
	}
	execID := uuid.New()
	lead, err := store.UpsertLeadAssignment(ctx, cl.ID, execID, "alice")
	if err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	fl, err := store.CreateFreshLead(ctx, repository.CreateFreshLeadParams{
		LeadID: lead.ID, Name: cl.Name, Phone: cl.Phone, Email: cl.Email,
	})
	if err != nil {
		t.Fatalf("seed fresh lead: %v", err)
	}
	return cl, lead, fl
}

func validFollowUp(freshLeadID uuid.UUID, fuType string) RecordFollowUpParams {
	return RecordFollowUpParams{
		FreshLeadID:       freshLeadID,
		ConnectVia:        "Call",
		FollowUpType:      fuType,
		InteractionRating: "Warm",
		Reason:            "requested pricing details",
		FollowUpDate:      "2026-09-15",
		FollowUpTime:      "10:30",
	}
}

func TestAssignExecutive(t *testing.T) {
	store := newFakeStore()
	execID := uuid.New()
	svc := newTestService(store, map[string]ports.Executive{
		"alice": {ID: execID, Username: "alice", Role: "Executive"},
		"harry": {ID: uuid.New(), Username: "harry", Role: "HR"},
	})
	ctx := context.Background()

	cl, _ := store.CreateClientLead(ctx, repository.CreateClientLeadParams{
		Name: "Ravi", Email: "ravi@example.com",
	})

	lead, err := svc.AssignExecutive(ctx, cl.ID, "alice")
	if err != nil {
		t.Fatalf("AssignExecutive: %v", err)
	}
	if lead.ExecutiveID != execID || lead.AssignedToExecutive != "alice" {
		t.Errorf("lead = %+v, want executive alice/%s", lead, execID)
	}

	// Repeating is idempotent: same row, not a duplicate.
	again, err := svc.AssignExecutive(ctx, cl.ID, "alice")
	if err != nil {
		t.Fatalf("repeat AssignExecutive: %v", err)
	}
	if again.ID != lead.ID {
		t.Errorf("repeat assignment created a new lead row %s, want %s", again.ID, lead.ID)
	}
	if len(store.leads) != 1 {
		t.Errorf("lead count = %d, want 1", len(store.leads))
	}

	if _, err := svc.AssignExecutive(ctx, cl.ID, "harry"); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("assigning non-Executive role: kind = %v, want Validation", apperr.GetKind(err))
	}
	if _, err := svc.AssignExecutive(ctx, cl.ID, "nobody"); apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("assigning unknown user: kind = %v, want NotFound", apperr.GetKind(err))
	}
	if _, err := svc.AssignExecutive(ctx, uuid.New(), "alice"); apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("assigning unknown client lead: kind = %v, want NotFound", apperr.GetKind(err))
	}

	// Assignment never touches the client lead status.
	got, _ := store.GetClientLeadByID(ctx, cl.ID)
	if got.Status != string(domain.StatusNew) {
		t.Errorf("client lead status = %q after assignment, want New", got.Status)
	}
}

func TestRecordFollowUpAppendsHistory(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()
	_, _, fl := seedChain(t, store, svc)

	for i, fuType := range []string{"interested", "no response", "appointment"} {
		result, err := svc.RecordFollowUp(ctx, validFollowUp(fl.ID, fuType))
		if err != nil {
			t.Fatalf("RecordFollowUp #%d: %v", i+1, err)
		}
		if result.TerminalID != nil {
			t.Errorf("non-terminal type %q produced a terminal record", fuType)
		}

		history, _ := svc.ListFollowUpHistory(ctx, fl.ID)
		if len(history) != i+1 {
			t.Fatalf("history count after call %d = %d, want %d", i+1, len(history), i+1)
		}

		got, _ := store.GetFreshLeadByID(ctx, fl.ID)
		if got.FollowUpStatus == nil || *got.FollowUpStatus != fuType {
			t.Errorf("follow-up status = %v, want %q", got.FollowUpStatus, fuType)
		}
	}

	// The current follow-up row is upserted, not duplicated.
	current, err := svc.GetCurrentFollowUp(ctx, fl.ID)
	if err != nil {
		t.Fatalf("GetCurrentFollowUp: %v", err)
	}
	if current.FollowUpType != "appointment" {
		t.Errorf("current follow-up type = %q, want appointment", current.FollowUpType)
	}
}

func TestRecordFollowUpValidation(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()
	_, _, fl := seedChain(t, store, svc)

	tests := []struct {
		name   string
		mutate func(*RecordFollowUpParams)
	}{
		{"bad connect_via", func(p *RecordFollowUpParams) { p.ConnectVia = "Fax" }},
		{"bad follow_up_type", func(p *RecordFollowUpParams) { p.FollowUpType = "Converted" }},
		{"bad rating", func(p *RecordFollowUpParams) { p.InteractionRating = "hot" }},
		{"bad date", func(p *RecordFollowUpParams) { p.FollowUpDate = "15-09-2026" }},
		{"bad time", func(p *RecordFollowUpParams) { p.FollowUpTime = "10.30" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validFollowUp(fl.ID, "interested")
			tt.mutate(&params)
			_, err := svc.RecordFollowUp(ctx, params)
			if apperr.GetKind(err) != apperr.KindValidation {
				t.Errorf("kind = %v, want Validation", apperr.GetKind(err))
			}
		})
	}

	if _, err := svc.RecordFollowUp(ctx, validFollowUp(uuid.New(), "interested")); apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("unknown fresh lead: kind = %v, want NotFound", apperr.GetKind(err))
	}
	if history, _ := svc.ListFollowUpHistory(ctx, fl.ID); len(history) != 0 {
		t.Errorf("rejected recordings left %d history rows", len(history))
	}
}

func TestDoubleConversionConflicts(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()
	_, _, fl := seedChain(t, store, svc)

	result, err := svc.RecordFollowUp(ctx, validFollowUp(fl.ID, "converted"))
	if err != nil {
		t.Fatalf("first converted recording: %v", err)
	}
	if result.TerminalID == nil {
		t.Fatal("first converted recording produced no terminal record")
	}

	_, err = svc.RecordFollowUp(ctx, validFollowUp(fl.ID, "converted"))
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("second converted recording: kind = %v, want Conflict", apperr.GetKind(err))
	}
	if len(store.converted) != 1 {
		t.Errorf("converted count = %d, want 1", len(store.converted))
	}
	// The rejected attempt must leave no partial state.
	if history, _ := svc.ListFollowUpHistory(ctx, fl.ID); len(history) != 1 {
		t.Errorf("history count = %d after rejected terminal, want 1", len(history))
	}
}

func TestDoubleCloseConflicts(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()
	_, _, fl := seedChain(t, store, svc)

	if _, err := svc.RecordFollowUp(ctx, validFollowUp(fl.ID, "close")); err != nil {
		t.Fatalf("first close recording: %v", err)
	}
	if _, err := svc.RecordFollowUp(ctx, validFollowUp(fl.ID, "close")); apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("second close recording: kind = %v, want Conflict", apperr.GetKind(err))
	}
	if len(store.closed) != 1 {
		t.Errorf("close lead count = %d, want 1", len(store.closed))
	}
}

func TestTerminalOutcomesAreMutuallyExclusive(t *testing.T) {
	tests := []struct {
		name   string
		first  string
		second string
	}{
		{name: "close after converted", first: "converted", second: "close"},
		{name: "converted after close", first: "close", second: "converted"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			svc := newTestService(store, nil)
			ctx := context.Background()
			_, _, fl := seedChain(t, store, svc)

			if _, err := svc.RecordFollowUp(ctx, validFollowUp(fl.ID, tc.first)); err != nil {
				t.Fatalf("first %s recording: %v", tc.first, err)
			}
			_, err := svc.RecordFollowUp(ctx, validFollowUp(fl.ID, tc.second))
			if apperr.GetKind(err) != apperr.KindConflict {
				t.Fatalf("%s after %s: kind = %v, want Conflict", tc.second, tc.first, apperr.GetKind(err))
			}
			if len(store.converted)+len(store.closed) != 1 {
				t.Errorf("terminal record count = %d, want 1", len(store.converted)+len(store.closed))
			}
			// The rejected attempt must leave no partial state.
			if history, _ := svc.ListFollowUpHistory(ctx, fl.ID); len(history) != 1 {
				t.Errorf("history count = %d after rejected terminal, want 1", len(history))
			}
			status := store.freshLeads[fl.ID].FollowUpStatus
			if status == nil || *status != tc.first {
				t.Errorf("follow-up status = %v, want %q", status, tc.first)
			}
		})
	}
}

func TestFinalizeLeadGate(t *testing.T) {
	ctx := context.Background()

	// Anything but the exact literal "Closed" is rejected with the actual
	// status reported back.
	for _, status := range []string{"New", "Meeting", "Converted", "closed", "CLOSED"} {
		t.Run(status, func(t *testing.T) {
			store := newFakeStore()
			svc := newTestService(store, nil)
			cl, _, fl := seedChain(t, store, svc)
			store.clientLeads[cl.ID] = withStatus(store.clientLeads[cl.ID], status)

			_, err := svc.FinalizeLead(ctx, fl.ID, uuid.New())
			if apperr.GetKind(err) != apperr.KindPreconditionFailed {
				t.Fatalf("kind = %v, want PreconditionFailed", apperr.GetKind(err))
			}
			var appErr *apperr.Error
			if !asAppErr(err, &appErr) {
				t.Fatal("error is not *apperr.Error")
			}
			details, ok := appErr.Details.(map[string]string)
			if !ok || details["status"] != status {
				t.Errorf("details = %v, want status %q", appErr.Details, status)
			}
			if len(store.processedFinals) != 0 {
				t.Error("rejected finalization created a processed final")
			}
		})
	}

	store := newFakeStore()
	svc := newTestService(store, nil)
	cl, _, fl := seedChain(t, store, svc)
	store.clientLeads[cl.ID] = withStatus(store.clientLeads[cl.ID], string(domain.StatusClosed))

	personID := uuid.New()
	pf, err := svc.FinalizeLead(ctx, fl.ID, personID)
	if err != nil {
		t.Fatalf("FinalizeLead with Closed status: %v", err)
	}
	if pf.Name != fl.Name || pf.Phone != fl.Phone || pf.Email != fl.Email {
		t.Errorf("snapshot = %+v, want copy of fresh lead contact fields", pf)
	}
	if pf.ProcessPersonID != personID {
		t.Errorf("process person = %s, want %s", pf.ProcessPersonID, personID)
	}

	// The snapshot is point-in-time: later fresh lead edits must not change it.
	mutated := store.freshLeads[fl.ID]
	mutated.Phone = "+911112223334"
	store.freshLeads[fl.ID] = mutated
	if store.processedFinals[fl.ID].Phone != fl.Phone {
		t.Error("processed final phone changed after fresh lead edit")
	}

	if _, err := svc.FinalizeLead(ctx, fl.ID, personID); apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("second finalization: kind = %v, want Conflict", apperr.GetKind(err))
	}
	if len(store.processedFinals) != 1 {
		t.Errorf("processed final count = %d, want 1", len(store.processedFinals))
	}
}

func TestScheduleMeeting(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	cl, lead, fl := seedChain(t, store, svc)

	future := time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC)
	end := future.Add(time.Hour)

	valid := ScheduleMeetingParams{
		FreshLeadID: fl.ID,
		ExecutiveID: lead.ExecutiveID,
		ClientName:  "Asha Verma",
		ClientEmail: "asha@example.com",
		ClientPhone: "+919876543210",
		StartTime:   future,
		EndTime:     &end,
	}

	tests := []struct {
		name   string
		mutate func(*ScheduleMeetingParams)
	}{
		{"past start", func(p *ScheduleMeetingParams) { p.StartTime = svc.now().Add(-time.Hour) }},
		{"start equals now", func(p *ScheduleMeetingParams) { p.StartTime = svc.now() }},
		{"end before start", func(p *ScheduleMeetingParams) { e := p.StartTime.Add(-time.Minute); p.EndTime = &e }},
		{"bad email", func(p *ScheduleMeetingParams) { p.ClientEmail = "not-an-email" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid
			tt.mutate(&params)
			_, err := svc.ScheduleMeeting(ctx, params)
			if apperr.GetKind(err) != apperr.KindValidation {
				t.Errorf("kind = %v, want Validation", apperr.GetKind(err))
			}
		})
	}
	if len(store.meetings) != 0 {
		t.Fatalf("rejected scheduling created %d meetings", len(store.meetings))
	}
	if got, _ := store.GetClientLeadByID(ctx, cl.ID); got.Status != string(domain.StatusNew) {
		t.Fatalf("client lead status = %q after rejected scheduling, want New", got.Status)
	}

	meeting, err := svc.ScheduleMeeting(ctx, valid)
	if err != nil {
		t.Fatalf("ScheduleMeeting: %v", err)
	}
	if meeting.FreshLeadID != fl.ID {
		t.Errorf("meeting fresh lead = %s, want %s", meeting.FreshLeadID, fl.ID)
	}
	if got, _ := store.GetClientLeadByID(ctx, cl.ID); got.Status != string(domain.StatusMeeting) {
		t.Errorf("client lead status = %q after scheduling, want Meeting", got.Status)
	}
}

func TestImportClientLeads(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	csv := "name,email,phone,source\n" +
		"Asha Verma,asha@example.com,9876543210,website\n" +
		"Ravi Kumar,ravi@example.com,9123456780,\n"
	n, err := svc.ImportClientLeads(ctx, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportClientLeads: %v", err)
	}
	if n != 2 {
		t.Errorf("imported = %d, want 2", n)
	}
	if len(store.clientLeads) != 2 {
		t.Errorf("client lead count = %d, want 2", len(store.clientLeads))
	}

	if _, err := svc.ImportClientLeads(ctx, strings.NewReader("name,email,phone\n")); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("empty upload: kind = %v, want Validation", apperr.GetKind(err))
	}
	if _, err := svc.ImportClientLeads(ctx, strings.NewReader("Asha,not-an-email,123\n")); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("bad email row: kind = %v, want Validation", apperr.GetKind(err))
	}
}

func TestUpdateClientLeadStatusTransitions(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	cl, _ := store.CreateClientLead(ctx, repository.CreateClientLeadParams{
		Name: "Ravi", Email: "ravi@example.com",
	})

	if _, err := svc.UpdateClientLeadStatus(ctx, cl.ID, "Assigned"); err != nil {
		t.Fatalf("New -> Assigned: %v", err)
	}
	if _, err := svc.UpdateClientLeadStatus(ctx, cl.ID, "Closed"); err != nil {
		t.Fatalf("Assigned -> Closed: %v", err)
	}
	if _, err := svc.UpdateClientLeadStatus(ctx, cl.ID, "Meeting"); apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("Closed -> Meeting: kind = %v, want Conflict", apperr.GetKind(err))
	}
	if _, err := svc.UpdateClientLeadStatus(ctx, cl.ID, "Open"); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("unknown status: kind = %v, want Validation", apperr.GetKind(err))
	}
}

// TestLifecycleEndToEnd walks one lead through the whole pipeline: import,
// assignment, working record, progressive follow-up, conversion, close-out
// and finalization.
func TestLifecycleEndToEnd(t *testing.T) {
	store := newFakeStore()
	execID := uuid.New()
	svc := newTestService(store, map[string]ports.Executive{
		"alice": {ID: execID, Username: "alice", Role: "Executive"},
	})
	ctx := context.Background()

	cl, err := svc.CreateClientLead(ctx, repository.CreateClientLeadParams{
		Name: "Asha Verma", Email: "asha@example.com", Phone: "9876543210",
	})
	if err != nil {
		t.Fatalf("create client lead: %v", err)
	}

	lead, err := svc.AssignExecutive(ctx, cl.ID, "alice")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	fl, err := svc.CreateFreshLead(ctx, lead.ID)
	if err != nil {
		t.Fatalf("create fresh lead: %v", err)
	}
	if fl.Name != cl.Name || fl.Email != cl.Email {
		t.Errorf("fresh lead contact = %s/%s, want copied from client lead", fl.Name, fl.Email)
	}

	if _, err := svc.RecordFollowUp(ctx, validFollowUp(fl.ID, "interested")); err != nil {
		t.Fatalf("interested follow-up: %v", err)
	}
	got, _ := svc.GetFreshLead(ctx, fl.ID)
	if got.FollowUpStatus == nil || *got.FollowUpStatus != "interested" {
		t.Fatalf("follow-up status = %v, want interested", got.FollowUpStatus)
	}

	result, err := svc.RecordFollowUp(ctx, validFollowUp(fl.ID, "converted"))
	if err != nil {
		t.Fatalf("converted follow-up: %v", err)
	}
	if result.TerminalID == nil {
		t.Fatal("conversion produced no terminal record")
	}
	if history, _ := svc.ListFollowUpHistory(ctx, fl.ID); len(history) != 2 {
		t.Fatalf("history count = %d, want 2", len(history))
	}

	// Close-out happens outside the follow-up flow, then finalization.
	store.clientLeads[cl.ID] = withStatus(store.clientLeads[cl.ID], string(domain.StatusClosed))

	personID := uuid.New()
	pf, err := svc.FinalizeLead(ctx, fl.ID, personID)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if pf.FreshLeadID != fl.ID || pf.Name != fl.Name || pf.Phone != fl.Phone || pf.Email != fl.Email {
		t.Errorf("processed final = %+v, want snapshot of fresh lead %s", pf, fl.ID)
	}
}

func withStatus(cl repository.ClientLead, status string) repository.ClientLead {
	cl.Status = status
	return cl
}

func asAppErr(err error, target **apperr.Error) bool {
	e, ok := err.(*apperr.Error)
	if ok {
		*target = e
	}
	return ok
}

type fakeReminderScheduler struct {
	reminders []ports.FollowUpReminder
	runAts    []time.Time
}

func (f *fakeReminderScheduler) ScheduleFollowUpReminder(_ context.Context, r ports.FollowUpReminder, runAt time.Time) error {
	f.reminders = append(f.reminders, r)
	f.runAts = append(f.runAts, runAt)
	return nil
}

func TestFollowUpReminderRunsAtUTCFollowUpTime(t *testing.T) {
	store := newFakeStore()
	scheduler := &fakeReminderScheduler{}
	svc := New(store, &fakeDirectory{users: map[string]ports.Executive{}}, events.NewInMemoryBus(logger.New("development")), scheduler, logger.New("development"))
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	_, _, fl := seedChain(t, store, svc)

	if _, err := svc.RecordFollowUp(ctx, validFollowUp(fl.ID, "interested")); err != nil {
		t.Fatalf("RecordFollowUp: %v", err)
	}

	if len(scheduler.runAts) != 1 {
		t.Fatalf("scheduled reminders = %d, want 1", len(scheduler.runAts))
	}
	want := time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC)
	if !scheduler.runAts[0].Equal(want) {
		t.Errorf("runAt = %v, want %v", scheduler.runAts[0], want)
	}
	if scheduler.runAts[0].Location() != time.UTC {
		t.Errorf("runAt location = %v, want UTC", scheduler.runAts[0].Location())
	}
	if scheduler.reminders[0].FreshLeadID != fl.ID {
		t.Errorf("reminder fresh lead = %s, want %s", scheduler.reminders[0].FreshLeadID, fl.ID)
	}

	// Terminal outcomes need no reminder.
	if _, err := svc.RecordFollowUp(ctx, validFollowUp(fl.ID, "converted")); err != nil {
		t.Fatalf("RecordFollowUp terminal: %v", err)
	}
	if len(scheduler.runAts) != 1 {
		t.Errorf("scheduled reminders after terminal = %d, want 1", len(scheduler.runAts))
	}
}
