// Package transport defines the request and response shapes for the leads
// HTTP surface.
package transport

import (
	"time"

	"crm_portal_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// CreateClientLeadRequest registers one inbound client lead.
type CreateClientLeadRequest struct {
	Name   string  `json:"name" validate:"required,min=1,max=200"`
	Email  string  `json:"email" validate:"required,email"`
	Phone  string  `json:"phone" validate:"omitempty,max=20"`
	Source *string `json:"source" validate:"omitempty,max=100"`
}

// ListClientLeadsRequest filters a client lead page.
type ListClientLeadsRequest struct {
	Status string `form:"status" validate:"omitempty,oneof=New Assigned Meeting Converted Closed Rejected"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" validate:"omitempty,min=0"`
}

// UpdateClientLeadStatusRequest moves a client lead to a new status.
type UpdateClientLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=New Assigned Meeting Converted Closed Rejected"`
}

// AssignExecutiveRequest assigns a client lead to an executive by username.
type AssignExecutiveRequest struct {
	ExecutiveUsername string `json:"executiveUsername" validate:"required,min=1,max=100"`
}

// CreateFreshLeadRequest materializes the working record for a lead.
type CreateFreshLeadRequest struct {
	LeadID uuid.UUID `json:"leadId" validate:"required"`
}

// RecordFollowUpRequest records one contact attempt.
type RecordFollowUpRequest struct {
	ConnectVia        string `json:"connectVia" validate:"required,oneof=Call Email Call/Email"`
	FollowUpType      string `json:"followUpType" validate:"required,oneof=interested appointment 'no response' converted 'not interested' close"`
	InteractionRating string `json:"interactionRating" validate:"required,oneof=Hot Warm Cold"`
	Reason            string `json:"reason" validate:"required,min=1,max=1000"`
	FollowUpDate      string `json:"followUpDate" validate:"required,datetime=2006-01-02"`
	FollowUpTime      string `json:"followUpTime" validate:"required"`
}

// FinalizeLeadRequest creates the processed final record.
type FinalizeLeadRequest struct {
	ProcessPersonID uuid.UUID `json:"processPersonId" validate:"required"`
}

// ScheduleMeetingRequest books a meeting for a fresh lead.
type ScheduleMeetingRequest struct {
	ClientName        string     `json:"clientName" validate:"required,min=1,max=200"`
	ClientEmail       string     `json:"clientEmail" validate:"required,email"`
	ClientPhone       string     `json:"clientPhone" validate:"required,max=20"`
	ReasonForFollowup *string    `json:"reasonForFollowup" validate:"omitempty,max=1000"`
	StartTime         time.Time  `json:"startTime" validate:"required"`
	EndTime           *time.Time `json:"endTime"`
}

// PageRequest is a generic pagination query.
type PageRequest struct {
	Limit  int `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `form:"offset" validate:"omitempty,min=0"`
}

// ClientLeadResponse is the wire shape of a client lead.
type ClientLeadResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Source    *string   `json:"source,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewClientLeadResponse maps a stored client lead to the wire shape.
func NewClientLeadResponse(cl repository.ClientLead) ClientLeadResponse {
	return ClientLeadResponse{
		ID: cl.ID, Name: cl.Name, Email: cl.Email, Phone: cl.Phone,
		Source: cl.Source, Status: cl.Status, CreatedAt: cl.CreatedAt, UpdatedAt: cl.UpdatedAt,
	}
}

// LeadResponse is the wire shape of an assignment.
type LeadResponse struct {
	ID                  uuid.UUID `json:"id"`
	ClientLeadID        uuid.UUID `json:"clientLeadId"`
	ExecutiveID         uuid.UUID `json:"executiveId"`
	AssignedToExecutive string    `json:"assignedToExecutive"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// NewLeadResponse maps a stored lead to the wire shape.
func NewLeadResponse(l repository.Lead) LeadResponse {
	return LeadResponse{
		ID: l.ID, ClientLeadID: l.ClientLeadID, ExecutiveID: l.ExecutiveID,
		AssignedToExecutive: l.AssignedToExecutive, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt,
	}
}

// FreshLeadResponse is the wire shape of a working record.
type FreshLeadResponse struct {
	ID             uuid.UUID `json:"id"`
	LeadID         uuid.UUID `json:"leadId"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	FollowUpStatus *string   `json:"followUpStatus,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewFreshLeadResponse maps a stored fresh lead to the wire shape.
func NewFreshLeadResponse(fl repository.FreshLead) FreshLeadResponse {
	return FreshLeadResponse{
		ID: fl.ID, LeadID: fl.LeadID, Name: fl.Name, Phone: fl.Phone, Email: fl.Email,
		FollowUpStatus: fl.FollowUpStatus, CreatedAt: fl.CreatedAt, UpdatedAt: fl.UpdatedAt,
	}
}

// FollowUpResponse is the wire shape of the current contact attempt.
type FollowUpResponse struct {
	ID                uuid.UUID  `json:"id"`
	FreshLeadID       uuid.UUID  `json:"freshLeadId"`
	ConnectVia        string     `json:"connectVia"`
	FollowUpType      string     `json:"followUpType"`
	InteractionRating string     `json:"interactionRating"`
	Reason            string     `json:"reason"`
	FollowUpDate      string     `json:"followUpDate"`
	FollowUpTime      string     `json:"followUpTime"`
	ConvertedClientID *uuid.UUID `json:"convertedClientId,omitempty"`
	CloseLeadID       *uuid.UUID `json:"closeLeadId,omitempty"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// FollowUpHistoryResponse is the wire shape of one ledger entry.
type FollowUpHistoryResponse struct {
	ID                uuid.UUID `json:"id"`
	FollowUpID        uuid.UUID `json:"followUpId"`
	FreshLeadID       uuid.UUID `json:"freshLeadId"`
	ConnectVia        string    `json:"connectVia"`
	FollowUpType      string    `json:"followUpType"`
	InteractionRating string    `json:"interactionRating"`
	Reason            string    `json:"reason"`
	FollowUpDate      string    `json:"followUpDate"`
	FollowUpTime      string    `json:"followUpTime"`
	CreatedAt         time.Time `json:"createdAt"`
}

// NewFollowUpHistoryResponse maps one ledger entry to the wire shape.
func NewFollowUpHistoryResponse(h repository.FollowUpHistory) FollowUpHistoryResponse {
	return FollowUpHistoryResponse{
		ID: h.ID, FollowUpID: h.FollowUpID, FreshLeadID: h.FreshLeadID,
		ConnectVia: h.ConnectVia, FollowUpType: h.FollowUpType, InteractionRating: h.InteractionRating,
		Reason: h.Reason, FollowUpDate: h.FollowUpDate.Format("2006-01-02"),
		FollowUpTime: h.FollowUpTime, CreatedAt: h.CreatedAt,
	}
}

// ProcessedFinalResponse is the wire shape of a finalized lead.
type ProcessedFinalResponse struct {
	ID              uuid.UUID `json:"id"`
	FreshLeadID     uuid.UUID `json:"freshLeadId"`
	ProcessPersonID uuid.UUID `json:"processPersonId"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewProcessedFinalResponse maps a finalized lead to the wire shape.
func NewProcessedFinalResponse(pf repository.ProcessedFinal) ProcessedFinalResponse {
	return ProcessedFinalResponse{
		ID: pf.ID, FreshLeadID: pf.FreshLeadID, ProcessPersonID: pf.ProcessPersonID,
		Name: pf.Name, Phone: pf.Phone, Email: pf.Email, CreatedAt: pf.CreatedAt,
	}
}

// MeetingResponse is the wire shape of a meeting.
type MeetingResponse struct {
	ID                uuid.UUID  `json:"id"`
	FreshLeadID       uuid.UUID  `json:"freshLeadId"`
	ExecutiveID       uuid.UUID  `json:"executiveId"`
	ClientName        string     `json:"clientName"`
	ClientEmail       string     `json:"clientEmail"`
	ClientPhone       string     `json:"clientPhone"`
	ReasonForFollowup *string    `json:"reasonForFollowup,omitempty"`
	StartTime         time.Time  `json:"startTime"`
	EndTime           *time.Time `json:"endTime,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// NewMeetingResponse maps a stored meeting to the wire shape.
func NewMeetingResponse(m repository.Meeting) MeetingResponse {
	return MeetingResponse{
		ID: m.ID, FreshLeadID: m.FreshLeadID, ExecutiveID: m.ExecutiveID,
		ClientName: m.ClientName, ClientEmail: m.ClientEmail, ClientPhone: m.ClientPhone,
		ReasonForFollowup: m.ReasonForFollowup, StartTime: m.StartTime, EndTime: m.EndTime,
		CreatedAt: m.CreatedAt,
	}
}

// Page wraps a list payload with pagination totals.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
