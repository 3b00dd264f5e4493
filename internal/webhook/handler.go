package webhook

import (
	"io"
	"net/http"

	"agendai_backend/platform/config"
	"agendai_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Handler exposes the provider-facing webhook endpoints.
type Handler struct {
	service *Service
	cfg     config.WebhookConfig
	log     *logger.Logger
}

// NewHandler creates the webhook HTTP handler.
func NewHandler(service *Service, cfg config.WebhookConfig, log *logger.Logger) *Handler {
	return &Handler{service: service, cfg: cfg, log: log}
}

// RegisterRoutes registers the verification and delivery endpoints. These are
// public by necessity; the verify token and payload shape are the only gate.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/whatsapp", h.HandleVerify)
	r.POST("/whatsapp", h.HandleDelivery)
}

// HandleVerify answers the provider's subscription handshake.
// GET /api/v1/webhook/whatsapp
func (h *Handler) HandleVerify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.cfg.GetWhatsAppVerifyToken() {
		// The provider expects the bare challenge string back, no envelope.
		c.String(http.StatusOK, challenge)
		return
	}
	c.String(http.StatusForbidden, "forbidden")
}

// HandleDelivery receives event payloads. The provider retries anything that
// is not a 2xx, so every path acknowledges, including panics during
// processing.
// POST /api/v1/webhook/whatsapp
func (h *Handler) HandleDelivery(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("webhook processing panicked", "panic", r)
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})
	}()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.WebhookEvent("delivery", "unreadable body")
		return
	}

	event := Decode(body)
	switch event.Kind {
	case EventMessage:
		h.service.HandleMessage(c.Request.Context(), *event.Message)
	case EventStatus:
		h.service.HandleStatus(*event.Status)
	default:
		h.log.WebhookEvent("delivery", "ignored unknown payload")
	}
}
