package users

import (
	apphttp "agendai_backend/internal/http"
	"agendai_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the users domain module
type Module struct {
	handler *Handler
	Service *Service
}

// NewModule creates a new users module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo)
	h := NewHandler(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "users"
}

// RegisterRoutes registers the module's routes under /api/v1/settings
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	settings := ctx.Protected.Group("/settings")
	m.handler.RegisterRoutes(settings)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
