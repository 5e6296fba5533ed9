package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetTables handles GET /api/tables.
func (h *Handler) GetTables(c *gin.Context) {
	tables, err := h.catalog.Tables(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

// ConfirmReservation handles POST /api/admin/reservations/:id/confirm.
func (h *Handler) ConfirmReservation(c *gin.Context) {
	r, err := h.engine.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

type tableActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetTableActive handles PUT /api/admin/tables/:id/active.
func (h *Handler) SetTableActive(c *gin.Context) {
	var req tableActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body must be {\"active\": true|false}")
		return
	}
	if err := h.catalog.SetActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "active": *req.Active})
}

// GetStats handles GET /api/admin/stats.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.engine.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetOccupancy handles GET /api/admin/occupancy?from=&to=.
func (h *Handler) GetOccupancy(c *gin.Context) {
	occ, err := h.engine.Occupancy(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, occ)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.logger.Printf("health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
