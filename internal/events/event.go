// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"crm_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Lifecycle Events
// =============================================================================

// LeadAssigned is published when a client lead is assigned to an executive.
type LeadAssigned struct {
	BaseEvent
	ClientLeadID uuid.UUID `json:"clientLeadId"`
	LeadID       uuid.UUID `json:"leadId"`
	ExecutiveID  uuid.UUID `json:"executiveId"`
	Executive    string    `json:"executive"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }

// FreshLeadCreated is published when an executive starts working a lead.
type FreshLeadCreated struct {
	BaseEvent
	FreshLeadID uuid.UUID `json:"freshLeadId"`
	LeadID      uuid.UUID `json:"leadId"`
}

func (e FreshLeadCreated) EventName() string { return "leads.fresh_lead.created" }

// FollowUpRecorded is published on every contact attempt.
type FollowUpRecorded struct {
	BaseEvent
	FreshLeadID  uuid.UUID `json:"freshLeadId"`
	FollowUpID   uuid.UUID `json:"followUpId"`
	FollowUpType string    `json:"followUpType"`
	ExecutiveID  uuid.UUID `json:"executiveId"`
}

func (e FollowUpRecorded) EventName() string { return "leads.follow_up.recorded" }

// LeadConverted is published on the terminal "converted" transition.
type LeadConverted struct {
	BaseEvent
	FreshLeadID       uuid.UUID `json:"freshLeadId"`
	ConvertedClientID uuid.UUID `json:"convertedClientId"`
	ExecutiveID       uuid.UUID `json:"executiveId"`
	ClientName        string    `json:"clientName"`
}

func (e LeadConverted) EventName() string { return "leads.lead.converted" }

// LeadClosed is published on the terminal "close" transition.
type LeadClosed struct {
	BaseEvent
	FreshLeadID uuid.UUID `json:"freshLeadId"`
	CloseLeadID uuid.UUID `json:"closeLeadId"`
	ExecutiveID uuid.UUID `json:"executiveId"`
	ClientName  string    `json:"clientName"`
}

func (e LeadClosed) EventName() string { return "leads.lead.closed" }

// LeadFinalized is published when a processed final record is created.
type LeadFinalized struct {
	BaseEvent
	FreshLeadID      uuid.UUID `json:"freshLeadId"`
	ProcessedFinalID uuid.UUID `json:"processedFinalId"`
	ProcessPersonID  uuid.UUID `json:"processPersonId"`
	ClientName       string    `json:"clientName"`
}

func (e LeadFinalized) EventName() string { return "leads.lead.finalized" }

// MeetingScheduled is published when a meeting is created for a fresh lead.
type MeetingScheduled struct {
	BaseEvent
	MeetingID   uuid.UUID `json:"meetingId"`
	FreshLeadID uuid.UUID `json:"freshLeadId"`
	ExecutiveID uuid.UUID `json:"executiveId"`
	ClientName  string    `json:"clientName"`
	StartTime   time.Time `json:"startTime"`
}

func (e MeetingScheduled) EventName() string { return "leads.meeting.scheduled" }

// FollowUpReminderDue is published by the scheduler worker when a previously
// scheduled follow-up becomes due.
type FollowUpReminderDue struct {
	BaseEvent
	FreshLeadID uuid.UUID `json:"freshLeadId"`
	ExecutiveID uuid.UUID `json:"executiveId"`
	ClientName  string    `json:"clientName"`
}

func (e FollowUpReminderDue) EventName() string { return "leads.follow_up.reminder_due" }
