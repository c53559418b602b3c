// Package leads provides the lead lifecycle bounded context module.
package leads

import (
	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/http"
	"crm_portal_backend/internal/leads/handler"
	"crm_portal_backend/internal/leads/ports"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/service"
	"crm_portal_backend/platform/httpkit"
	"crm_portal_backend/platform/logger"
	"crm_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module. reminders may be nil
// when no scheduler backend is configured.
func NewModule(pool *pgxpool.Pool, users ports.UserDirectory, bus events.Bus, reminders ports.ReminderScheduler, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, users, bus, reminders, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead lifecycle routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	// Lead intake and assignment
	ctx.Protected.GET("/client-leads", m.handler.ListClientLeads)
	ctx.Protected.GET("/client-leads/:id", m.handler.GetClientLead)
	ctx.Protected.POST("/client-leads", m.handler.CreateClientLead)
	ctx.Protected.POST("/client-leads/import", m.handler.ImportClientLeads)
	ctx.Protected.PUT("/client-leads/:id/status", m.handler.UpdateClientLeadStatus)
	ctx.Protected.POST("/client-leads/:id/assign", m.handler.AssignExecutive)

	// Working records and follow-ups
	ctx.Protected.GET("/leads/my", m.handler.ListMyLeads)
	ctx.Protected.POST("/fresh-leads", m.handler.CreateFreshLead)
	ctx.Protected.GET("/fresh-leads/:id", m.handler.GetFreshLead)
	ctx.Protected.POST("/fresh-leads/:id/follow-ups", m.handler.RecordFollowUp)
	ctx.Protected.GET("/fresh-leads/:id/follow-ups/current", m.handler.GetCurrentFollowUp)
	ctx.Protected.GET("/fresh-leads/:id/follow-ups/history", m.handler.ListFollowUpHistory)
	ctx.Protected.POST("/fresh-leads/:id/meetings", m.handler.ScheduleMeeting)
	ctx.Protected.GET("/meetings/my", m.handler.ListMyMeetings)

	// Finalization is restricted to the Process and Admin roles.
	finalize := ctx.Protected.Group("")
	finalize.Use(httpkit.RequireRole("Process", "Admin"))
	finalize.POST("/fresh-leads/:id/finalize", m.handler.FinalizeLead)
	finalize.GET("/processed-finals", m.handler.ListProcessedFinals)

	// Admin-only surface
	ctx.Admin.DELETE("/client-leads/:id", m.handler.DeleteClientLead)
	ctx.Admin.GET("/meetings", m.handler.ListMeetings)
}

// Compile-time check that Module implements http.Module
var _ http.Module = (*Module)(nil)
