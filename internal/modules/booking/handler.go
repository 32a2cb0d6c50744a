package booking

import (
	"net/http"
	"strconv"
	"time"

	"fieldbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings", h.ListMyBookings)
	rg.PATCH("/bookings/:id", h.UpdateBooking)
	rg.DELETE("/bookings/:id", h.CancelBooking)
	rg.GET("/bookings/:id/status", h.GetBookingStatus)
	rg.GET("/fields/:id/availability", h.CheckAvailability)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return
	}

	customerID := c.GetInt64("user_id")
	b, err := h.service.CreateBooking(c.Request.Context(), customerID, req.FieldID, date, req.StartHour, req.DurationHours)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	bookingID, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	patch := UpdatePatch{
		StartHour:     req.StartHour,
		DurationHours: req.DurationHours,
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
			return
		}
		patch.Date = &date
	}

	b, err := h.service.UpdateBooking(c.Request.Context(), bookingID, c.GetInt64("user_id"), patch)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	bookingID, ok := paramID(c)
	if !ok {
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), bookingID, c.GetInt64("user_id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	limit, offset := pagination(c)
	rows, err := h.service.ListMyBookings(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": rows})
}

func (h *Handler) GetBookingStatus(c *gin.Context) {
	bookingID, ok := paramID(c)
	if !ok {
		return
	}

	view, err := h.service.GetBookingStatus(c.Request.Context(), bookingID, c.GetInt64("user_id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	fieldID, ok := paramID(c)
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return
	}
	startHour, err := strconv.Atoi(c.DefaultQuery("start_hour", "-1"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "start_hour must be an integer")
		return
	}
	duration, err := strconv.Atoi(c.DefaultQuery("duration_hours", "1"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "duration_hours must be an integer")
		return
	}

	if err := h.service.CheckAvailability(c.Request.Context(), fieldID, date, startHour, duration); err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"available": true})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
