package repository

import (
	"time"

	"github.com/google/uuid"
)

// ClientLead is a raw inbound lead batch record, top of the lineage chain.
type ClientLead struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Source    *string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Lead links a client lead to the executive working it.
type Lead struct {
	ID                  uuid.UUID
	ClientLeadID        uuid.UUID
	ExecutiveID         uuid.UUID
	AssignedToExecutive string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// FreshLead is the active working record for a lead.
type FreshLead struct {
	ID             uuid.UUID
	LeadID         uuid.UUID
	Name           string
	Phone          string
	Email          string
	FollowUpStatus *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FollowUp is the current contact attempt for a fresh lead. The append-only
// log of truth is FollowUpHistory.
type FollowUp struct {
	ID                uuid.UUID
	FreshLeadID       uuid.UUID
	ConnectVia        string
	FollowUpType      string
	InteractionRating string
	Reason            string
	FollowUpDate      time.Time
	FollowUpTime      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FollowUpHistory is an immutable record of one contact attempt.
type FollowUpHistory struct {
	ID                uuid.UUID
	FollowUpID        uuid.UUID
	FreshLeadID       uuid.UUID
	ConnectVia        string
	FollowUpType      string
	InteractionRating string
	Reason            string
	FollowUpDate      time.Time
	FollowUpTime      string
	CreatedAt         time.Time
}

// ProcessedFinal is the snapshot record created once the owning client lead
// is Closed.
type ProcessedFinal struct {
	ID              uuid.UUID
	FreshLeadID     uuid.UUID
	ProcessPersonID uuid.UUID
	Name            string
	Phone           string
	Email           string
	CreatedAt       time.Time
}

// Meeting is a scheduled client meeting for a fresh lead.
type Meeting struct {
	ID                uuid.UUID
	FreshLeadID       uuid.UUID
	ExecutiveID       uuid.UUID
	ClientName        string
	ClientEmail       string
	ClientPhone       string
	ReasonForFollowup *string
	StartTime         time.Time
	EndTime           *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreateClientLeadParams holds the fields for one imported client lead.
type CreateClientLeadParams struct {
	Name   string
	Email  string
	Phone  string
	Source *string
}

// ListClientLeadsParams controls client lead listing.
type ListClientLeadsParams struct {
	Status string
	Limit  int
	Offset int
}

// CreateFreshLeadParams materializes the working record for a lead.
type CreateFreshLeadParams struct {
	LeadID uuid.UUID
	Name   string
	Phone  string
	Email  string
}

// FollowUpParams carries one contact attempt.
type FollowUpParams struct {
	FreshLeadID       uuid.UUID
	ConnectVia        string
	FollowUpType      string
	InteractionRating string
	Reason            string
	FollowUpDate      time.Time
	FollowUpTime      string
}

// FollowUpResult is the outcome of recording one contact attempt.
type FollowUpResult struct {
	FollowUp   FollowUp
	History    FollowUpHistory
	TerminalID *uuid.UUID
}

// CreateProcessedFinalParams snapshots a fresh lead at finalization time.
type CreateProcessedFinalParams struct {
	FreshLeadID     uuid.UUID
	ProcessPersonID uuid.UUID
	Name            string
	Phone           string
	Email           string
}

// CreateMeetingParams schedules one meeting.
type CreateMeetingParams struct {
	FreshLeadID       uuid.UUID
	ClientLeadID      uuid.UUID
	ExecutiveID       uuid.UUID
	ClientName        string
	ClientEmail       string
	ClientPhone       string
	ReasonForFollowup *string
	StartTime         time.Time
	EndTime           *time.Time
}

// LeadChain is the resolved FreshLead -> Lead -> ClientLead ancestry.
type LeadChain struct {
	FreshLead  FreshLead
	Lead       Lead
	ClientLead ClientLead
}
