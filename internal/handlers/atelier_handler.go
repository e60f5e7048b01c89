package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/costuraflow/atelier-scheduler/internal/httperr"
	"github.com/costuraflow/atelier-scheduler/internal/middleware"
	"github.com/costuraflow/atelier-scheduler/internal/models"
	"github.com/costuraflow/atelier-scheduler/internal/timezone"
)

type AtelierHandler struct {
	db *gorm.DB
}

func NewAtelierHandler(db *gorm.DB) *AtelierHandler {
	return &AtelierHandler{db: db}
}

type UpdateAtelierConfigRequest struct {
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
	Timezone          *string `json:"timezone"`
}

func (h *AtelierHandler) GetMeAtelier(c *gin.Context) {
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)

	var shop models.Atelier
	if err := h.db.First(&shop, atelierID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "atelier_not_found", "Atelier not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_atelier", "Could not load atelier.")
		return
	}

	c.JSON(http.StatusOK, shop)
}

func (h *AtelierHandler) UpdateMeAtelier(c *gin.Context) {
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)

	var shop models.Atelier
	if err := h.db.First(&shop, atelierID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "atelier_not_found", "Atelier not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_atelier", "Could not load atelier.")
		return
	}

	var req UpdateAtelierConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Minimum advance must be zero or positive minutes.")
			return
		}
		shop.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown IANA timezone.")
			return
		}
		shop.Timezone = *req.Timezone
	}

	if err := h.db.Save(&shop).Error; err != nil {
		httperr.Internal(c, "failed_to_update_atelier", "Could not save atelier settings.")
		return
	}

	c.JSON(http.StatusOK, shop)
}
