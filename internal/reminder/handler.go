package reminder

import (
	"fmt"
	"net/http"
	"strings"

	"agendai_backend/platform/config"
	"agendai_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// ScanResponse is the cron health-check body. Field names follow the
// user-facing Portuguese vocabulary of the product.
type ScanResponse struct {
	Message    string        `json:"message"`
	Enviados   int           `json:"enviados"`
	Erros      int           `json:"erros"`
	Total      int           `json:"total"`
	Resultados []ResultEntry `json:"resultados"`
}

// Handler exposes the dispatcher as an HTTP-invoked cron job.
type Handler struct {
	dispatcher *Dispatcher
	cron       config.CronConfig
	wa         config.WhatsAppConfig
}

// NewHandler creates the cron HTTP handler.
func NewHandler(dispatcher *Dispatcher, cron config.CronConfig, wa config.WhatsAppConfig) *Handler {
	return &Handler{dispatcher: dispatcher, cron: cron, wa: wa}
}

// RegisterRoutes registers the cron trigger endpoint.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/reminders", h.HandleScan)
}

// HandleScan runs one reminder scan.
// GET /api/v1/cron/reminders
func (h *Handler) HandleScan(c *gin.Context) {
	if !h.authorized(c) {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	// Without provider credentials a scan would mark reminders sent for
	// nothing; leave them pending until the channel is provisioned.
	if !h.wa.IsWhatsAppEnabled() {
		c.JSON(http.StatusOK, ScanResponse{Message: "WhatsApp não configurado", Resultados: []ResultEntry{}})
		return
	}

	summary, err := h.dispatcher.Run(c.Request.Context())
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "reminder scan failed", err.Error())
		return
	}

	results := summary.Results
	if results == nil {
		results = []ResultEntry{}
	}

	c.JSON(http.StatusOK, ScanResponse{
		Message:    fmt.Sprintf("Processado: %d enviados, %d erros", summary.Sent, summary.Errors),
		Enviados:   summary.Sent,
		Erros:      summary.Errors,
		Total:      summary.Total,
		Resultados: results,
	})
}

// authorized checks the bearer credential of the external scheduler. A
// missing secret or development mode is permissive.
func (h *Handler) authorized(c *gin.Context) bool {
	secret := h.cron.GetCronSecret()
	if secret == "" {
		return true
	}
	auth := c.GetHeader("Authorization")
	if strings.TrimPrefix(auth, "Bearer ") == secret && strings.HasPrefix(auth, "Bearer ") {
		return true
	}
	return h.cron.IsDevelopment()
}
