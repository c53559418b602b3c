package notification

import (
	"context"
	"testing"
	"time"

	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/notification/inapp"
	"crm_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeSink struct {
	sent []inapp.SendParams
}

func (f *fakeSink) Send(_ context.Context, p inapp.SendParams) error {
	f.sent = append(f.sent, p)
	return nil
}

type mailCall struct {
	method string
	to     string
	args   []string
}

type fakeSender struct {
	calls []mailCall
}

func (f *fakeSender) SendLeadConvertedEmail(_ context.Context, to, clientName string) error {
	f.calls = append(f.calls, mailCall{"converted", to, []string{clientName}})
	return nil
}

func (f *fakeSender) SendLeadFinalizedEmail(_ context.Context, to, clientName string) error {
	f.calls = append(f.calls, mailCall{"finalized", to, []string{clientName}})
	return nil
}

func (f *fakeSender) SendMeetingScheduledEmail(_ context.Context, to, clientName, startTime string) error {
	f.calls = append(f.calls, mailCall{"meeting", to, []string{clientName, startTime}})
	return nil
}

type fakeRecipients struct {
	emails map[uuid.UUID]string
}

func (f *fakeRecipients) GetRecipient(_ context.Context, userID uuid.UUID) (Recipient, error) {
	return Recipient{ID: userID, Email: f.emails[userID]}, nil
}

func newTestModule(sink *fakeSink, mail *fakeSender, recipients *fakeRecipients) *Module {
	return &Module{
		sink:       sink,
		mail:       mail,
		recipients: recipients,
		log:        logger.New("development"),
	}
}

func TestMeetingScheduledDeliversInAppAndEmail(t *testing.T) {
	executiveID := uuid.New()
	sink := &fakeSink{}
	mail := &fakeSender{}
	recipients := &fakeRecipients{emails: map[uuid.UUID]string{executiveID: "exec@example.com"}}
	m := newTestModule(sink, mail, recipients)

	start := time.Date(2026, 9, 3, 14, 30, 0, 0, time.UTC)
	err := m.Handle(context.Background(), events.MeetingScheduled{
		MeetingID:   uuid.New(),
		FreshLeadID: uuid.New(),
		ExecutiveID: executiveID,
		ClientName:  "Acme Corp",
		StartTime:   start,
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(sink.sent) != 1 {
		t.Fatalf("in-app notifications = %d, want 1", len(sink.sent))
	}
	if sink.sent[0].UserID != executiveID || sink.sent[0].Title != "Meeting scheduled" {
		t.Errorf("unexpected in-app notification: %+v", sink.sent[0])
	}

	if len(mail.calls) != 1 {
		t.Fatalf("email calls = %d, want 1", len(mail.calls))
	}
	call := mail.calls[0]
	if call.method != "meeting" || call.to != "exec@example.com" {
		t.Errorf("unexpected email call: %+v", call)
	}
	if call.args[0] != "Acme Corp" || call.args[1] != "03 Sep 2026 14:30" {
		t.Errorf("unexpected email args: %v", call.args)
	}
}

func TestLeadClosedSkipsEmail(t *testing.T) {
	executiveID := uuid.New()
	sink := &fakeSink{}
	mail := &fakeSender{}
	recipients := &fakeRecipients{emails: map[uuid.UUID]string{executiveID: "exec@example.com"}}
	m := newTestModule(sink, mail, recipients)

	err := m.Handle(context.Background(), events.LeadClosed{
		FreshLeadID: uuid.New(),
		ExecutiveID: executiveID,
		ClientName:  "Acme Corp",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(sink.sent) != 1 {
		t.Fatalf("in-app notifications = %d, want 1", len(sink.sent))
	}
	if len(mail.calls) != 0 {
		t.Errorf("email calls = %d, want 0", len(mail.calls))
	}
}
