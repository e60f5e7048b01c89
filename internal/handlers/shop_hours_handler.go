package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/costuraflow/atelier-scheduler/internal/domain/appointment"
	"github.com/costuraflow/atelier-scheduler/internal/httperr"
	"github.com/costuraflow/atelier-scheduler/internal/middleware"
	"github.com/costuraflow/atelier-scheduler/internal/models"
	"github.com/costuraflow/atelier-scheduler/internal/provider"
)

type ShopHoursHandler struct {
	db        *gorm.DB
	providers *provider.CachedProviders
}

func NewShopHoursHandler(db *gorm.DB, providers *provider.CachedProviders) *ShopHoursHandler {
	return &ShopHoursHandler{db: db, providers: providers}
}

type ShopDayConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Closed    bool   `json:"closed"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type ShopHoursUpdateRequest struct {
	Days []ShopDayConfig `json:"days" binding:"required"`
}

func (h *ShopHoursHandler) Get(c *gin.Context) {
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)

	var hours []models.ShopHours
	if err := h.db.
		Where("atelier_id = ?", atelierID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_shop_hours"})
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *ShopHoursHandler) Update(c *gin.Context) {
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)

	var req ShopHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	// Reject malformed hours before touching the table.
	for _, d := range req.Days {
		if _, err := domain.ParseDayHours(d.Weekday, d.OpenTime, d.CloseTime, d.Closed); err != nil {
			httperr.FromError(c, err)
			return
		}
	}

	if err := h.db.Where("atelier_id = ?", atelierID).Delete(&models.ShopHours{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_clear_existing_hours"})
		return
	}

	var toCreate []models.ShopHours
	for _, d := range req.Days {
		row := models.ShopHours{
			AtelierID: atelierID,
			Weekday:   d.Weekday,
			Closed:    d.Closed,
			OpenTime:  d.OpenTime,
			CloseTime: d.CloseTime,
		}
		if d.Closed {
			row.OpenTime = ""
			row.CloseTime = ""
		}
		toCreate = append(toCreate, row)
	}

	if len(toCreate) > 0 {
		if err := h.db.Create(&toCreate).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_shop_hours"})
			return
		}
	}

	h.providers.InvalidateShop(c.Request.Context(), atelierID)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
