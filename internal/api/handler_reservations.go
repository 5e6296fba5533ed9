package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"table-booking-backend/internal/booking"
)

// GetAvailability handles GET /api/availability?date=&people=&zone=.
func (h *Handler) GetAvailability(c *gin.Context) {
	people, err := strconv.Atoi(c.Query("people"))
	if err != nil {
		badRequest(c, "people must be an integer")
		return
	}
	times, err := h.engine.AvailableTimes(c.Request.Context(), c.Query("date"), people, c.Query("zone"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": c.Query("date"), "people": people, "times": times})
}

// CreateReservation handles POST /api/reservations.
func (h *Handler) CreateReservation(c *gin.Context) {
	var req booking.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	r, err := h.engine.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// ListReservations handles GET /api/reservations.
func (h *Handler) ListReservations(c *gin.Context) {
	out, err := h.engine.List(c.Request.Context(), booking.ListFilter{
		Date:         c.Query("date"),
		Status:       c.Query("status"),
		CustomerName: c.Query("customer_name"),
		Phone:        c.Query("phone"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetReservation handles GET /api/reservations/:id.
func (h *Handler) GetReservation(c *gin.Context) {
	r, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// UpdateReservation handles PATCH /api/reservations/:id.
func (h *Handler) UpdateReservation(c *gin.Context) {
	var changes booking.Changes
	if err := c.ShouldBindJSON(&changes); err != nil {
		badRequest(c, "invalid request")
		return
	}
	r, err := h.engine.Update(c.Request.Context(), c.Param("id"), changes)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// CancelReservation handles POST /api/reservations/:id/cancel. The body is optional.
func (h *Handler) CancelReservation(c *gin.Context) {
	var req cancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request")
			return
		}
	}
	res, err := h.engine.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetCustomerReservations handles GET /api/customers/:phone/reservations.
func (h *Handler) GetCustomerReservations(c *gin.Context) {
	out, err := h.engine.ByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
