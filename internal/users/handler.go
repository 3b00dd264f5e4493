package users

import (
	"net/http"

	"agendai_backend/platform/httpkit"
	"agendai_backend/platform/phone"
	"agendai_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// UpdateSettingsRequest is the payload for updating notification settings.
type UpdateSettingsRequest struct {
	Phone           string `json:"phone" validate:"omitempty,max=30"`
	WhatsAppEnabled bool   `json:"whatsapp_enabled"`
}

// SettingsResponse echoes the stored phone both raw (E.164, what the channel
// dials) and formatted for display.
type SettingsResponse struct {
	Phone           *string `json:"phone"`
	PhoneDisplay    *string `json:"phone_display"`
	WhatsAppEnabled bool    `json:"whatsapp_enabled"`
}

func toSettingsResponse(s NotificationSettings) SettingsResponse {
	resp := SettingsResponse{Phone: s.Phone, WhatsAppEnabled: s.WhatsAppEnabled}
	if s.Phone != nil {
		display := phone.FormatDisplay(*s.Phone)
		resp.PhoneDisplay = &display
	}
	return resp
}

// Handler exposes the notification settings endpoints.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates the users handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the settings routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.GetSettings)
	rg.PUT("/notifications", h.UpdateSettings)
}

// GetSettings handles GET /api/v1/settings/notifications
func (h *Handler) GetSettings(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	settings, err := h.svc.GetSettings(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toSettingsResponse(settings))
}

// UpdateSettings handles PUT /api/v1/settings/notifications
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	settings, err := h.svc.UpdateSettings(c.Request.Context(), identity.UserID(), req.Phone, req.WhatsAppEnabled)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toSettingsResponse(settings))
}
