// Package auth provides the identity bounded context module.
package auth

import (
	"crm_portal_backend/internal/auth/adapter"
	"crm_portal_backend/internal/auth/handler"
	"crm_portal_backend/internal/auth/repository"
	"crm_portal_backend/internal/auth/service"
	"crm_portal_backend/internal/http"
	"crm_portal_backend/platform/config"
	"crm_portal_backend/platform/logger"
	"crm_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler   *handler.Handler
	service   *service.Service
	directory *adapter.UserDirectory
}

// NewModule creates and initializes the auth module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler:   h,
		service:   svc,
		directory: adapter.NewUserDirectory(repo),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// UserDirectory returns the lookup port consumed by the leads module.
func (m *Module) UserDirectory() *adapter.UserDirectory {
	return m.directory
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	public := ctx.V1.Group("/auth")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	public.POST("/login", m.handler.Login)
	public.POST("/refresh", m.handler.Refresh)

	session := ctx.Protected.Group("/auth")
	session.POST("/logout", m.handler.Logout)
	session.GET("/me", m.handler.Me)
	session.PUT("/password", m.handler.ChangePassword)

	ctx.Protected.GET("/users", m.handler.ListUsers)
	ctx.Admin.POST("/users", m.handler.CreateUser)
}

// Compile-time check that Module implements http.Module
var _ http.Module = (*Module)(nil)
