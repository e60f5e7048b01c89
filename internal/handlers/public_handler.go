package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/costuraflow/atelier-scheduler/internal/domain/appointment"
	"github.com/costuraflow/atelier-scheduler/internal/httperr"
	"github.com/costuraflow/atelier-scheduler/internal/models"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
	uc "github.com/costuraflow/atelier-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler serves the client-facing booking API, addressed by
// atelier slug instead of an authenticated session.
type PublicHandler struct {
	db           *gorm.DB
	create       *uc.CreateAppointment
	availability *uc.GetAvailability
}

func NewPublicHandler(
	db *gorm.DB,
	create *uc.CreateAppointment,
	availability *uc.GetAvailability,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		create:       create,
		availability: availability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type PublicCreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Type        string `json:"type"`
	Notes       string `json:"notes"`
}

func (h *PublicHandler) shopBySlug(c *gin.Context) (*models.Atelier, bool) {
	var shop models.Atelier
	if err := h.db.Where("slug = ?", c.Param("slug")).First(&shop).Error; err != nil {
		httperr.NotFound(c, "atelier_not_found", "Atelier not found.")
		return nil, false
	}
	return &shop, true
}

// ======================================================
// SERVICES
// ======================================================

func (h *PublicHandler) ListServices(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.
		Where("atelier_id = ? AND active = true", shop.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.ServiceOffering
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"atelier":  shop,
		"services": services,
	})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *PublicHandler) AvailabilityForClient(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service.")
		return
	}

	date, err := timeutil.ParseDate(c.Query("date"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	slots, err := h.availability.Execute(
		c.Request.Context(),
		domain.AvailabilityInput{
			AtelierID: shop.ID,
			ServiceID: uint(serviceID),
			Date:      date,
		},
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date.String(),
		"slots": slots,
	})
}

// ======================================================
// CREATE APPOINTMENT
// ======================================================

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.create.Execute(
		c.Request.Context(),
		uc.CreateAppointmentInput{
			AtelierID:   shop.ID,
			ClientName:  req.ClientName,
			ClientPhone: req.ClientPhone,
			ClientEmail: req.ClientEmail,
			ServiceID:   req.ServiceID,
			Date:        req.Date,
			Time:        req.Time,
			Type:        req.Type,
			Notes:       req.Notes,
		},
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}
