package exports

import (
	apphttp "crm_portal_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the CSV exports bounded context module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the exports module.
func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{handler: NewHandler(NewRepository(pool))}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes on the admin router group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Admin.Group("/exports")
	group.GET("/client-leads", m.handler.ClientLeads)
	group.GET("/processed-finals", m.handler.ProcessedFinals)
}

var _ apphttp.Module = (*Module)(nil)
