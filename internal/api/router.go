package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"table-booking-backend/config"
	"table-booking-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.FlushOnWrite(cacheStore))
	{
		api.GET("/availability", h.GetAvailability)
		api.GET("/tables", caching, h.GetTables)

		api.POST("/reservations", h.CreateReservation)
		api.GET("/reservations", h.ListReservations)
		api.GET("/reservations/:id", h.GetReservation)
		api.PATCH("/reservations/:id", h.UpdateReservation)
		api.POST("/reservations/:id/cancel", h.CancelReservation)

		api.GET("/customers/:phone/reservations", h.GetCustomerReservations)
	}

	admin := api.Group("/admin")
	admin.Use(mw.AdminAuth(cfg.AdminJWTSecret, h.logger))
	{
		admin.POST("/reservations/:id/confirm", h.ConfirmReservation)
		admin.PUT("/tables/:id/active", h.SetTableActive)
		admin.GET("/stats", caching, h.GetStats)
		admin.GET("/occupancy", h.GetOccupancy)
	}

	return r
}
