package repository

import (
	"context"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// ClientLeadStore covers inbound client lead CRUD.
type ClientLeadStore interface {
	CreateClientLead(ctx context.Context, params CreateClientLeadParams) (ClientLead, error)
	BulkCreateClientLeads(ctx context.Context, params []CreateClientLeadParams) (int, error)
	GetClientLeadByID(ctx context.Context, id uuid.UUID) (ClientLead, error)
	ListClientLeads(ctx context.Context, params ListClientLeadsParams) ([]ClientLead, int, error)
	UpdateClientLeadStatus(ctx context.Context, id uuid.UUID, status string) (ClientLead, error)
	DeleteClientLead(ctx context.Context, id uuid.UUID) error
}

// AssignmentStore covers executive assignment.
type AssignmentStore interface {
	UpsertLeadAssignment(ctx context.Context, clientLeadID, executiveID uuid.UUID, executiveUsername string) (Lead, error)
	GetLeadByID(ctx context.Context, id uuid.UUID) (Lead, error)
	ListLeadsByExecutive(ctx context.Context, executiveID uuid.UUID) ([]Lead, error)
}

// FreshLeadStore covers the active working record.
type FreshLeadStore interface {
	CreateFreshLead(ctx context.Context, params CreateFreshLeadParams) (FreshLead, error)
	GetFreshLeadByID(ctx context.Context, id uuid.UUID) (FreshLead, error)
	GetLeadChain(ctx context.Context, freshLeadID uuid.UUID) (LeadChain, error)
}

// FollowUpStore covers the core transition: follow-up upsert, history append
// and terminal record creation in one atomic unit.
type FollowUpStore interface {
	RecordFollowUp(ctx context.Context, params FollowUpParams) (FollowUpResult, error)
	ListFollowUpHistory(ctx context.Context, freshLeadID uuid.UUID) ([]FollowUpHistory, error)
	GetCurrentFollowUp(ctx context.Context, freshLeadID uuid.UUID) (FollowUp, error)
}

// FinalizationStore covers processed final records.
type FinalizationStore interface {
	CreateProcessedFinal(ctx context.Context, params CreateProcessedFinalParams) (ProcessedFinal, error)
	ListProcessedFinals(ctx context.Context, limit, offset int) ([]ProcessedFinal, int, error)
}

// MeetingStore covers meeting scheduling and lookup.
type MeetingStore interface {
	CreateMeetingWithStatus(ctx context.Context, params CreateMeetingParams) (Meeting, error)
	ListMeetingsByExecutive(ctx context.Context, executiveID uuid.UUID) ([]Meeting, error)
	ListMeetings(ctx context.Context, limit, offset int) ([]Meeting, int, error)
}

// Store is the full persistence surface the lifecycle service depends on.
type Store interface {
	ClientLeadStore
	AssignmentStore
	FreshLeadStore
	FollowUpStore
	FinalizationStore
	MeetingStore
}
