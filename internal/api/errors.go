package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"table-booking-backend/internal/booking"
	"table-booking-backend/internal/store"
)

// writeError translates booking errors into HTTP responses.
func (h *Handler) writeError(c *gin.Context, err error) {
	var ve *booking.ValidationError
	switch {
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ve.Reason, "code": ve.Code, "field": ve.Field})
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "not_found"})
	case errors.Is(err, booking.ErrNoAvailability):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "no_availability"})
	case errors.Is(err, booking.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "conflict", "retryable": true})
	case errors.Is(err, booking.ErrReservationCancelled):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "cancelled"})
	default:
		h.logger.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "storage failure", "code": "storage_error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg, "code": "invalid_request"})
}
