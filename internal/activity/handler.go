package activity

import (
	"net/http"

	"crm_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type callTimeRequest struct {
	Minutes int `json:"minutes"`
}

// StartWork opens the caller's work session for today.
// POST /api/v1/activity/work/start
func (h *Handler) StartWork(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	a, err := h.svc.StartWork(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, a)
}

// StopWork closes the caller's work session.
// POST /api/v1/activity/work/stop
func (h *Handler) StopWork(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	a, err := h.svc.StopWork(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, a)
}

// StartBreak opens a break and marks the caller offline.
// POST /api/v1/activity/break/start
func (h *Handler) StartBreak(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	a, err := h.svc.StartBreak(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, a)
}

// StopBreak closes the break and marks the caller online.
// POST /api/v1/activity/break/stop
func (h *Handler) StopBreak(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	a, err := h.svc.StopBreak(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, a)
}

// AddCallTime accumulates reported call minutes.
// POST /api/v1/activity/call-time
func (h *Handler) AddCallTime(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	var req callTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	a, err := h.svc.AddCallTime(c.Request.Context(), identity.UserID(), req.Minutes)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, a)
}

// TrackLeadVisit counts a lead queue visit.
// POST /api/v1/activity/lead-visit
func (h *Handler) TrackLeadVisit(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	a, err := h.svc.TrackLeadVisit(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, a)
}

// Stats returns the caller's workload counters.
// GET /api/v1/activity/stats
func (h *Handler) Stats(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	stats, err := h.svc.ExecutiveStats(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, stats)
}

// AdminDashboard returns today's activity for all executives.
// GET /api/v1/admin/activity
func (h *Handler) AdminDashboard(c *gin.Context) {
	items, err := h.svc.AdminDashboard(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, items)
}
