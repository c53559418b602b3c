// Package notification delivers lifecycle notifications in-app, over SSE and
// by email. All delivery is best-effort: failures are logged and never
// propagate back into the lifecycle transaction.
package notification

import (
	"context"
	"fmt"

	"crm_portal_backend/internal/email"
	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/http"
	"crm_portal_backend/internal/notification/handler"
	"crm_portal_backend/internal/notification/inapp"
	"crm_portal_backend/internal/notification/sse"
	"crm_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Recipient is the contact information needed to email a user.
type Recipient struct {
	ID    uuid.UUID
	Email string
}

// RecipientLookup resolves a user's email address. Implemented by the auth
// module.
type RecipientLookup interface {
	GetRecipient(ctx context.Context, userID uuid.UUID) (Recipient, error)
}

// inAppSink is the delivery surface Handle writes to; satisfied by
// *inapp.Service and by fakes in tests.
type inAppSink interface {
	Send(ctx context.Context, p inapp.SendParams) error
}

// Module is the notification bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	inapp      *inapp.Service
	sink       inAppSink
	sse        *sse.Service
	mail       email.Sender
	recipients RecipientLookup
	log        *logger.Logger
}

// NewModule creates and initializes the notification module.
func NewModule(pool *pgxpool.Pool, mail email.Sender, recipients RecipientLookup, log *logger.Logger) *Module {
	sseSvc := sse.New(log)
	repo := inapp.NewRepository(pool)
	inappSvc := inapp.NewService(repo, sseSvc, log)
	h := handler.New(inappSvc, sseSvc)

	return &Module{
		handler:    h,
		inapp:      inappSvc,
		sink:       inappSvc,
		sse:        sseSvc,
		mail:       mail,
		recipients: recipients,
		log:        log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// InApp returns the in-app service for other composition-root consumers.
func (m *Module) InApp() *inapp.Service {
	return m.inapp
}

// Close shuts down SSE connections.
func (m *Module) Close() {
	m.sse.Close()
}

// RegisterRoutes mounts notification routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	group := ctx.Protected.Group("/notifications")
	group.GET("", m.handler.List)
	group.GET("/unread-count", m.handler.CountUnread)
	group.GET("/stream", m.handler.Stream())
	group.PUT("/read-all", m.handler.MarkAllRead)
	group.PUT("/:id/read", m.handler.MarkRead)
	group.DELETE("/:id", m.handler.Delete)
}

// RegisterHandlers subscribes to lifecycle events on the bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	for _, name := range []string{
		events.LeadAssigned{}.EventName(),
		events.LeadConverted{}.EventName(),
		events.LeadClosed{}.EventName(),
		events.LeadFinalized{}.EventName(),
		events.MeetingScheduled{}.EventName(),
		events.FollowUpReminderDue{}.EventName(),
	} {
		bus.Subscribe(name, m)
	}
}

// Handle routes lifecycle events to notification delivery.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadAssigned:
		return m.notify(ctx, e.ExecutiveID, inapp.SendParams{
			Title:        "Lead assigned",
			Content:      "A new lead has been assigned to you.",
			ResourceID:   &e.ClientLeadID,
			ResourceType: "client_lead",
			Category:     "info",
		}, nil)

	case events.LeadConverted:
		return m.notify(ctx, e.ExecutiveID, inapp.SendParams{
			Title:        "Lead converted",
			Content:      fmt.Sprintf("Lead %s has been converted.", e.ClientName),
			ResourceID:   &e.FreshLeadID,
			ResourceType: "fresh_lead",
			Category:     "success",
		}, func(ctx context.Context, to string) error {
			return m.mail.SendLeadConvertedEmail(ctx, to, e.ClientName)
		})

	case events.LeadClosed:
		return m.notify(ctx, e.ExecutiveID, inapp.SendParams{
			Title:        "Lead closed",
			Content:      fmt.Sprintf("Lead %s has been closed without conversion.", e.ClientName),
			ResourceID:   &e.FreshLeadID,
			ResourceType: "fresh_lead",
			Category:     "warning",
		}, nil)

	case events.LeadFinalized:
		return m.notify(ctx, e.ProcessPersonID, inapp.SendParams{
			Title:        "Lead finalized",
			Content:      fmt.Sprintf("Processing of lead %s is complete.", e.ClientName),
			ResourceID:   &e.FreshLeadID,
			ResourceType: "fresh_lead",
			Category:     "success",
		}, func(ctx context.Context, to string) error {
			return m.mail.SendLeadFinalizedEmail(ctx, to, e.ClientName)
		})

	case events.MeetingScheduled:
		return m.notify(ctx, e.ExecutiveID, inapp.SendParams{
			Title:        "Meeting scheduled",
			Content:      fmt.Sprintf("Meeting with %s at %s.", e.ClientName, e.StartTime.Format("02 Jan 2006 15:04")),
			ResourceID:   &e.MeetingID,
			ResourceType: "meeting",
			Category:     "info",
		}, func(ctx context.Context, to string) error {
			return m.mail.SendMeetingScheduledEmail(ctx, to, e.ClientName, e.StartTime.Format("02 Jan 2006 15:04"))
		})

	case events.FollowUpReminderDue:
		return m.notify(ctx, e.ExecutiveID, inapp.SendParams{
			Title:        "Follow-up due",
			Content:      fmt.Sprintf("A follow-up with %s is due.", e.ClientName),
			ResourceID:   &e.FreshLeadID,
			ResourceType: "fresh_lead",
			Category:     "info",
		}, nil)
	}
	return nil
}

func (m *Module) notify(ctx context.Context, userID uuid.UUID, params inapp.SendParams, sendMail func(context.Context, string) error) error {
	params.UserID = userID
	if err := m.sink.Send(ctx, params); err != nil {
		m.log.Error("in-app notification delivery failed", "error", err, "user_id", userID.String())
	}

	if sendMail == nil || m.mail == nil {
		return nil
	}
	recipient, err := m.recipients.GetRecipient(ctx, userID)
	if err != nil {
		m.log.Warn("email recipient lookup failed", "user_id", userID.String(), "error", err.Error())
		return nil
	}
	if err := sendMail(ctx, recipient.Email); err != nil {
		m.log.Warn("notification email failed", "user_id", userID.String(), "error", err.Error())
	}
	return nil
}

// Compile-time check that Module implements http.Module
var _ http.Module = (*Module)(nil)
