package handler

import (
	"github.com/gin-gonic/gin"
	settingsapp "github.com/openinvoice/backend/internal/application/settings"
)

// SettingsHandler handles store profile endpoints
type SettingsHandler struct {
	BaseHandler
	settings *settingsapp.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settings *settingsapp.Service) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get returns the current store profile
func (h *SettingsHandler) Get(c *gin.Context) {
	profile, err := h.settings.Profile(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// Update changes store profile values. Omitted fields keep their
// current value.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req settingsapp.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	profile, err := h.settings.Update(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// RegisterRoutes registers all settings routes
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	{
		settings.GET("", h.Get)
		settings.PUT("", h.Update)
	}
}
