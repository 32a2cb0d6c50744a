package response

import (
	"errors"
	"net/http"

	"fieldbook/internal/domain"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// DomainError maps the domain error taxonomy onto HTTP statuses. Slot
// conflicts include the clashing booking so the caller can report a precise
// 409.
func DomainError(c *gin.Context, err error) {
	var (
		ve *domain.ValidationError
		ce *domain.ConflictError
		se *domain.StateError
	)
	switch {
	case errors.As(err, &ve):
		Error(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Msg)
	case errors.As(err, &ce):
		if ce.BookingID != 0 {
			ErrorWithDetails(c, http.StatusConflict, "CONFLICT", ce.Msg, gin.H{
				"booking_id": ce.BookingID,
				"start_hour": ce.StartHour,
				"end_hour":   ce.EndHour,
				"status":     ce.Status,
			})
			return
		}
		Error(c, http.StatusConflict, "CONFLICT", ce.Msg)
	case errors.As(err, &se):
		Error(c, http.StatusUnprocessableEntity, "STATE_ERROR", se.Msg)
	case errors.Is(err, domain.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, domain.ErrForbidden):
		Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this resource")
	default:
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
