package fixtures

import (
	apphttp "agendai_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the fixtures domain module
type Module struct {
	handler *Handler
	Service *Service
}

// NewModule creates a new fixtures module with all dependencies wired
func NewModule(pool *pgxpool.Pool) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, DefaultCacheTTL, nil)
	h := NewHandler(svc)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "fixtures"
}

// RegisterRoutes registers the module's routes under /api/v1/fixtures
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	fixtures := ctx.Protected.Group("/fixtures")
	m.handler.RegisterRoutes(fixtures)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
