package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/costuraflow/atelier-scheduler/internal/domain/appointment"
	"github.com/costuraflow/atelier-scheduler/internal/httperr"
	"github.com/costuraflow/atelier-scheduler/internal/httpresp"
	"github.com/costuraflow/atelier-scheduler/internal/middleware"
	"github.com/costuraflow/atelier-scheduler/internal/rangecache"
	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
	uc "github.com/costuraflow/atelier-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *uc.CreateAppointment
	update       *uc.UpdateAppointment
	cancel       *uc.CancelAppointment
	confirm      *uc.ConfirmAppointment
	delete       *uc.DeleteAppointment
	listByRange  *uc.ListAppointmentsByRange
	availability *uc.GetAvailability
}

func NewAppointmentHandler(
	create *uc.CreateAppointment,
	update *uc.UpdateAppointment,
	cancel *uc.CancelAppointment,
	confirm *uc.ConfirmAppointment,
	deleteUC *uc.DeleteAppointment,
	listByRange *uc.ListAppointmentsByRange,
	availability *uc.GetAvailability,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		update:       update,
		cancel:       cancel,
		confirm:      confirm,
		delete:       deleteUC,
		listByRange:  listByRange,
		availability: availability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Type        string `json:"type"`
	Notes       string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	Status    *string `json:"status,omitempty"`
	Type      *string `json:"type,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), uc.CreateAppointmentInput{
		AtelierID:   atelierID,
		UserID:      &userID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		ServiceID:   req.ServiceID,
		Date:        req.Date,
		Time:        req.Time,
		Type:        req.Type,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// UPDATE / RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), uc.UpdateAppointmentInput{
		AtelierID:     atelierID,
		UserID:        &userID,
		AppointmentID: uint(id),
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        req.Status,
		Type:          req.Type,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// STATUS SHORTCUTS
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), atelierID, &userID, uint(id))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), atelierID, &userID, uint(id))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	if err := h.delete.Execute(c.Request.Context(), atelierID, &userID, uint(id)); err != nil {
		httperr.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// CALENDAR VIEWS
// ======================================================

func (h *AppointmentHandler) ListByRange(c *gin.Context) {
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)

	start, err := timeutil.ParseDate(c.Query("start"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	end, err := timeutil.ParseDate(c.Query("end"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	rng, err := rangecache.NewDateRange(start, end)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	view := rangecache.ViewDay
	switch c.DefaultQuery("view", "day") {
	case "week":
		view = rangecache.ViewWeek
	case "month":
		view = rangecache.ViewMonth
	}

	items, err := h.listByRange.Execute(c.Request.Context(), atelierID, rng, view)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	rng, err := uc.MonthRange(year, month)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	items, err := h.listByRange.Execute(c.Request.Context(), atelierID, rng, rangecache.ViewMonth)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": items,
	})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)

	date, err := timeutil.ParseDate(c.Query("date"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	serviceID, _ := strconv.ParseUint(c.Query("service_id"), 10, 64)

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		AtelierID: atelierID,
		ServiceID: uint(serviceID),
		Date:      date,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date.String(),
		"slots": slots,
	})
}
