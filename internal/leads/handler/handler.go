// Package handler exposes the lead lifecycle over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"crm_portal_backend/internal/leads/service"
	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/platform/httpkit"
	"crm_portal_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// Handler handles HTTP requests for the leads module.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new leads handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

// CreateClientLead registers one inbound client lead.
// POST /api/v1/client-leads
func (h *Handler) CreateClientLead(c *gin.Context) {
	var req transport.CreateClientLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	cl, err := h.svc.CreateClientLead(c.Request.Context(), repositoryCreateParams(req))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.NewClientLeadResponse(cl))
}

// ImportClientLeads ingests a CSV upload of client leads.
// POST /api/v1/client-leads/import
func (h *Handler) ImportClientLeads(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing file upload", nil)
		return
	}
	defer file.Close()

	count, err := h.svc.ImportClientLeads(c.Request.Context(), file)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, gin.H{"imported": count})
}

// ListClientLeads returns a page of client leads.
// GET /api/v1/client-leads
func (h *Handler) ListClientLeads(c *gin.Context) {
	var req transport.ListClientLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	items, total, err := h.svc.ListClientLeads(c.Request.Context(), listParams(req))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, clientLeadPage(items, total, req.Limit, req.Offset))
}

// GetClientLead returns one client lead.
// GET /api/v1/client-leads/:id
func (h *Handler) GetClientLead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cl, err := h.svc.GetClientLead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewClientLeadResponse(cl))
}

// UpdateClientLeadStatus moves a client lead to a new status.
// PUT /api/v1/client-leads/:id/status
func (h *Handler) UpdateClientLeadStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateClientLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	cl, err := h.svc.UpdateClientLeadStatus(c.Request.Context(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewClientLeadResponse(cl))
}

// DeleteClientLead removes a client lead and its descendant chain.
// DELETE /api/v1/admin/client-leads/:id
func (h *Handler) DeleteClientLead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteClientLead(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// AssignExecutive links a client lead to an executive.
// POST /api/v1/client-leads/:id/assign
func (h *Handler) AssignExecutive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.AssignExecutiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.AssignExecutive(c.Request.Context(), id, req.ExecutiveUsername)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewLeadResponse(lead))
}

// ListMyLeads returns the authenticated executive's assigned leads.
// GET /api/v1/leads/my
func (h *Handler) ListMyLeads(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	items, err := h.svc.ListLeadsByExecutive(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	out := make([]transport.LeadResponse, 0, len(items))
	for _, l := range items {
		out = append(out, transport.NewLeadResponse(l))
	}
	httpkit.OK(c, out)
}

// CreateFreshLead materializes the working record for a lead.
// POST /api/v1/fresh-leads
func (h *Handler) CreateFreshLead(c *gin.Context) {
	var req transport.CreateFreshLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	fl, err := h.svc.CreateFreshLead(c.Request.Context(), req.LeadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.NewFreshLeadResponse(fl))
}

// GetFreshLead returns one working record.
// GET /api/v1/fresh-leads/:id
func (h *Handler) GetFreshLead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fl, err := h.svc.GetFreshLead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewFreshLeadResponse(fl))
}

// RecordFollowUp records one contact attempt for a fresh lead.
// POST /api/v1/fresh-leads/:id/follow-ups
func (h *Handler) RecordFollowUp(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.RecordFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.RecordFollowUp(c.Request.Context(), service.RecordFollowUpParams{
		FreshLeadID:       id,
		ConnectVia:        req.ConnectVia,
		FollowUpType:      req.FollowUpType,
		InteractionRating: req.InteractionRating,
		Reason:            req.Reason,
		FollowUpDate:      req.FollowUpDate,
		FollowUpTime:      req.FollowUpTime,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, followUpResponse(result))
}

// GetCurrentFollowUp returns the current contact attempt for a fresh lead.
// GET /api/v1/fresh-leads/:id/follow-ups/current
func (h *Handler) GetCurrentFollowUp(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fu, err := h.svc.GetCurrentFollowUp(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FollowUpResponse{
		ID: fu.ID, FreshLeadID: fu.FreshLeadID, ConnectVia: fu.ConnectVia,
		FollowUpType: fu.FollowUpType, InteractionRating: fu.InteractionRating,
		Reason: fu.Reason, FollowUpDate: fu.FollowUpDate.Format("2006-01-02"),
		FollowUpTime: fu.FollowUpTime, UpdatedAt: fu.UpdatedAt,
	})
}

// ListFollowUpHistory returns the contact-attempt ledger for a fresh lead.
// GET /api/v1/fresh-leads/:id/follow-ups/history
func (h *Handler) ListFollowUpHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	items, err := h.svc.ListFollowUpHistory(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	out := make([]transport.FollowUpHistoryResponse, 0, len(items))
	for _, hist := range items {
		out = append(out, transport.NewFollowUpHistoryResponse(hist))
	}
	httpkit.OK(c, out)
}

// FinalizeLead creates the processed final record for a fresh lead.
// POST /api/v1/fresh-leads/:id/finalize
func (h *Handler) FinalizeLead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.FinalizeLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pf, err := h.svc.FinalizeLead(c.Request.Context(), id, req.ProcessPersonID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.NewProcessedFinalResponse(pf))
}

// ListProcessedFinals returns a page of finalized leads.
// GET /api/v1/processed-finals
func (h *Handler) ListProcessedFinals(c *gin.Context) {
	var req transport.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	items, total, err := h.svc.ListProcessedFinals(c.Request.Context(), req.Limit, req.Offset)
	if httpkit.HandleError(c, err) {
		return
	}
	out := make([]transport.ProcessedFinalResponse, 0, len(items))
	for _, pf := range items {
		out = append(out, transport.NewProcessedFinalResponse(pf))
	}
	httpkit.OK(c, transport.Page[transport.ProcessedFinalResponse]{
		Items: out, Total: total, Limit: req.Limit, Offset: req.Offset,
	})
}

// ScheduleMeeting books a meeting for a fresh lead.
// POST /api/v1/fresh-leads/:id/meetings
func (h *Handler) ScheduleMeeting(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.ScheduleMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	meeting, err := h.svc.ScheduleMeeting(c.Request.Context(), service.ScheduleMeetingParams{
		FreshLeadID:       id,
		ExecutiveID:       identity.UserID(),
		ClientName:        req.ClientName,
		ClientEmail:       req.ClientEmail,
		ClientPhone:       req.ClientPhone,
		ReasonForFollowup: req.ReasonForFollowup,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.NewMeetingResponse(meeting))
}

// ListMyMeetings returns the authenticated executive's meetings.
// GET /api/v1/meetings/my
func (h *Handler) ListMyMeetings(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	items, err := h.svc.ListMeetingsByExecutive(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	out := make([]transport.MeetingResponse, 0, len(items))
	for _, m := range items {
		out = append(out, transport.NewMeetingResponse(m))
	}
	httpkit.OK(c, out)
}

// ListMeetings returns a page of all meetings.
// GET /api/v1/admin/meetings
func (h *Handler) ListMeetings(c *gin.Context) {
	var req transport.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	items, total, err := h.svc.ListMeetings(c.Request.Context(), req.Limit, req.Offset)
	if httpkit.HandleError(c, err) {
		return
	}
	out := make([]transport.MeetingResponse, 0, len(items))
	for _, m := range items {
		out = append(out, transport.NewMeetingResponse(m))
	}
	httpkit.OK(c, transport.Page[transport.MeetingResponse]{
		Items: out, Total: total, Limit: req.Limit, Offset: req.Offset,
	})
}
