package activity

import (
	apphttp "crm_portal_backend/internal/http"
	"crm_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the executive activity bounded context module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the activity module.
func NewModule(pool *pgxpool.Pool, presence PresenceSetter, log *logger.Logger) *Module {
	svc := New(NewRepository(pool), presence, log)
	return &Module{handler: NewHandler(svc)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "activity"
}

// RegisterRoutes mounts activity routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/activity")
	group.POST("/work/start", m.handler.StartWork)
	group.POST("/work/stop", m.handler.StopWork)
	group.POST("/break/start", m.handler.StartBreak)
	group.POST("/break/stop", m.handler.StopBreak)
	group.POST("/call-time", m.handler.AddCallTime)
	group.POST("/lead-visit", m.handler.TrackLeadVisit)
	group.GET("/stats", m.handler.Stats)

	ctx.Admin.GET("/activity", m.handler.AdminDashboard)
}

var _ apphttp.Module = (*Module)(nil)
