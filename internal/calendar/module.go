package calendar

import (
	apphttp "crm_portal_backend/internal/http"
	"crm_portal_backend/platform/logger"
)

// Module is the calendar bounded context module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the calendar module.
func NewModule(calendarID, apiKey string, log *logger.Logger) *Module {
	svc := NewService(calendarID, apiKey, log)
	return &Module{handler: NewHandler(svc)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "calendar"
}

// RegisterRoutes mounts calendar routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/calendar", m.handler.MonthView)
}

var _ apphttp.Module = (*Module)(nil)
