package api

import (
	"log"

	"table-booking-backend/internal/booking"
	"table-booking-backend/internal/catalog"
	"table-booking-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	engine  *booking.Engine
	catalog *catalog.Catalog
	store   store.Store
	logger  *log.Logger
}

// NewHandler creates a new API handler.
func NewHandler(engine *booking.Engine, cat *catalog.Catalog, s store.Store, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		engine:  engine,
		catalog: cat,
		store:   s,
		logger:  logger,
	}
}
