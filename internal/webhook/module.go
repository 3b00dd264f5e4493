package webhook

import (
	apphttp "agendai_backend/internal/http"
	"agendai_backend/internal/whatsapp"
	"agendai_backend/platform/config"
	"agendai_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the webhook domain module
type Module struct {
	handler *Handler
	Service *Service
}

// ModuleConfig combines the config interfaces the webhook module needs.
type ModuleConfig interface {
	config.WebhookConfig
	config.TimeConfig
}

// NewModule creates a new webhook module with all dependencies wired
func NewModule(pool *pgxpool.Pool, sender TextSender, logStore whatsapp.Store, cfg ModuleConfig, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, sender, logStore, cfg.GetLocation(), nil, log)
	h := NewHandler(svc, cfg, log)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes registers the provider endpoints under /api/v1/webhook
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	hooks := ctx.V1.Group("/webhook")
	m.handler.RegisterRoutes(hooks)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
