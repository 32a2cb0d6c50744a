package payment

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fieldbook/internal/domain"
	"fieldbook/internal/middleware"
	"fieldbook/internal/pkg/response"
	pkgvalidator "fieldbook/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments", h.SubmitPayment)
	rg.GET("/payments", h.GetMyPayments)
	rg.GET("/payments/:id", h.GetPayment)

	cashier := rg.Group("/cashier")
	cashier.Use(middleware.RequireRole(domain.RoleCashier))
	{
		cashier.GET("/payments", h.GetPendingPayments)
		cashier.POST("/payments/:id/approve", h.ApprovePayment)
		cashier.POST("/payments/:id/reject", h.RejectPayment)
	}
}

func (h *Handler) SubmitPayment(c *gin.Context) {
	var req SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	var transferDetails string
	if req.Transfer != nil {
		if fields := pkgvalidator.Validate(req.Transfer); fields != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid transfer details", fields)
			return
		}
		raw, err := json.Marshal(req.Transfer)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid transfer details")
			return
		}
		transferDetails = string(raw)
	}

	p, err := h.service.Submit(c.Request.Context(), SubmitInput{
		BookingID:       req.BookingID,
		CustomerID:      c.GetInt64("user_id"),
		Type:            domain.PaymentType(req.Type),
		Amount:          req.Amount,
		ProofRef:        req.ProofRef,
		TransferDetails: transferDetails,
	})
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"payment": p})
}

func (h *Handler) ApprovePayment(c *gin.Context) {
	paymentID, ok := paramID(c)
	if !ok {
		return
	}

	var req ApprovePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.Approve(c.Request.Context(), paymentID, c.GetInt64("user_id"), req.Notes)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) RejectPayment(c *gin.Context) {
	paymentID, ok := paramID(c)
	if !ok {
		return
	}

	var req RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.Reject(c.Request.Context(), paymentID, c.GetInt64("user_id"), req.Reason)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) GetPendingPayments(c *gin.Context) {
	rows, err := h.service.GetPendingPayments(c.Request.Context())
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payments": rows})
}

func (h *Handler) GetMyPayments(c *gin.Context) {
	rows, err := h.service.GetUserPayments(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payments": rows})
}

func (h *Handler) GetPayment(c *gin.Context) {
	paymentID, ok := paramID(c)
	if !ok {
		return
	}

	p, err := h.service.GetPaymentByID(c.Request.Context(), paymentID, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}
