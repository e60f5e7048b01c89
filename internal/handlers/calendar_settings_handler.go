package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/costuraflow/atelier-scheduler/internal/httperr"
	"github.com/costuraflow/atelier-scheduler/internal/middleware"
	"github.com/costuraflow/atelier-scheduler/internal/models"
	"github.com/costuraflow/atelier-scheduler/internal/provider"
)

type CalendarSettingsHandler struct {
	db        *gorm.DB
	providers *provider.CachedProviders
}

func NewCalendarSettingsHandler(db *gorm.DB, providers *provider.CachedProviders) *CalendarSettingsHandler {
	return &CalendarSettingsHandler{db: db, providers: providers}
}

type UpdateCalendarSettingsRequest struct {
	BufferTimeMinutes  *int `json:"buffer_time_minutes"`
	DefaultDurationMin *int `json:"default_appointment_duration"`
}

func (h *CalendarSettingsHandler) Get(c *gin.Context) {
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)

	settings, err := h.providers.CalendarSettings(c.Request.Context(), atelierID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_settings", "Could not load calendar settings.")
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *CalendarSettingsHandler) Update(c *gin.Context) {
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)

	var req UpdateCalendarSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.BufferTimeMinutes != nil && *req.BufferTimeMinutes < 0 {
		httperr.BadRequest(c, "invalid_buffer", "Buffer must be zero or positive minutes.")
		return
	}
	if req.DefaultDurationMin != nil && *req.DefaultDurationMin <= 0 {
		httperr.BadRequest(c, "invalid_duration", "Default duration must be positive minutes.")
		return
	}

	var settings models.CalendarSettings
	err := h.db.Where("atelier_id = ?", atelierID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.CalendarSettings{
			AtelierID:          atelierID,
			DefaultDurationMin: 30,
		}
	} else if err != nil {
		httperr.Internal(c, "failed_to_get_settings", "Could not load calendar settings.")
		return
	}

	if req.BufferTimeMinutes != nil {
		settings.BufferTimeMinutes = *req.BufferTimeMinutes
	}
	if req.DefaultDurationMin != nil {
		settings.DefaultDurationMin = *req.DefaultDurationMin
	}

	if err := h.db.Save(&settings).Error; err != nil {
		httperr.Internal(c, "failed_to_update_settings", "Could not save calendar settings.")
		return
	}

	h.providers.InvalidateShop(c.Request.Context(), atelierID)

	c.JSON(http.StatusOK, settings)
}
