package fixtures

import (
	"agendai_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the fixtures listing endpoint.
type Handler struct {
	svc *Service
}

// NewHandler creates the fixtures handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the fixtures routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
}

// List handles GET /api/v1/fixtures
func (h *Handler) List(c *gin.Context) {
	fixtures, err := h.svc.ListUpcoming(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	if fixtures == nil {
		fixtures = []Fixture{}
	}
	httpkit.OK(c, fixtures)
}
