package reminder

import (
	apphttp "agendai_backend/internal/http"
	"agendai_backend/platform/config"
	"agendai_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the reminder domain module
type Module struct {
	handler *Handler

	// Dispatcher is exported for the scheduler binary, which runs scans
	// without the HTTP layer.
	Dispatcher *Dispatcher
}

// ModuleConfig combines the config interfaces the reminder module needs.
type ModuleConfig interface {
	config.WhatsAppConfig
	config.CronConfig
	config.TimeConfig
}

// NewModule creates a new reminder module with all dependencies wired
func NewModule(pool *pgxpool.Pool, sender Sender, cfg ModuleConfig, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	dispatcher := NewDispatcher(repo, sender, cfg.GetWhatsAppTemplateName(), cfg.GetLocation(), nil, log)
	h := NewHandler(dispatcher, cfg, cfg)

	return &Module{
		handler:    h,
		Dispatcher: dispatcher,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "reminder"
}

// RegisterRoutes registers the cron trigger under /api/v1/cron
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	cron := ctx.V1.Group("/cron")
	m.handler.RegisterRoutes(cron)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
