// Package catalog owns the registry of physical dining tables.
package catalog

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/patrickmn/go-cache"

	"table-booking-backend/internal/clock"
	"table-booking-backend/internal/model"
	"table-booking-backend/internal/parse"
	"table-booking-backend/internal/store"
)

const activeTablesKey = "active_tables"

// DefaultLayout is the floor plan seeded on first start.
var DefaultLayout = []model.Table{
	{ID: "I1", Zone: parse.ZoneIndoor, CapacityMin: 1, CapacityMax: 2, Priority: 1},
	{ID: "I2", Zone: parse.ZoneIndoor, CapacityMin: 1, CapacityMax: 2, Priority: 2},
	{ID: "I3", Zone: parse.ZoneIndoor, CapacityMin: 2, CapacityMax: 4, Priority: 1},
	{ID: "I4", Zone: parse.ZoneIndoor, CapacityMin: 2, CapacityMax: 4, Priority: 2},
	{ID: "I5", Zone: parse.ZoneIndoor, CapacityMin: 4, CapacityMax: 6, Priority: 1},
	{ID: "I6", Zone: parse.ZoneIndoor, CapacityMin: 6, CapacityMax: 8, Priority: 1},
	{ID: "T1", Zone: parse.ZoneTerrace, CapacityMin: 1, CapacityMax: 2, Priority: 1},
	{ID: "T2", Zone: parse.ZoneTerrace, CapacityMin: 1, CapacityMax: 2, Priority: 2},
	{ID: "T3", Zone: parse.ZoneTerrace, CapacityMin: 2, CapacityMax: 4, Priority: 1},
	{ID: "T4", Zone: parse.ZoneTerrace, CapacityMin: 2, CapacityMax: 4, Priority: 2},
	{ID: "T5", Zone: parse.ZoneTerrace, CapacityMin: 4, CapacityMax: 6, Priority: 1},
}

// Catalog serves the table registry through a read-through cache that is
// invalidated on every write made through it.
type Catalog struct {
	store  store.Store
	cache  *cache.Cache
	ttl    time.Duration
	clock  clock.Clock
	logger *log.Logger
}

// New creates a Catalog. A non-positive ttl disables caching.
func New(s store.Store, ttl time.Duration, clk clock.Clock, logger *log.Logger) *Catalog {
	if s == nil {
		panic("catalog: nil store")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Catalog{
		store:  s,
		cache:  cache.New(ttl, 2*ttl),
		ttl:    ttl,
		clock:  clk,
		logger: logger,
	}
}

// SeedIfMissing inserts every table of layout that does not exist yet.
// Existing tables are left untouched, so it is safe on every start.
func (c *Catalog) SeedIfMissing(ctx context.Context, layout []model.Table) (int, error) {
	now := c.clock.Now()
	inserted := 0
	for _, t := range layout {
		t.Active = true
		t.CreatedAt = now
		ok, err := c.store.InsertTableIfAbsent(ctx, t)
		if err != nil {
			return inserted, fmt.Errorf("seeding table %s: %w", t.ID, err)
		}
		if ok {
			inserted++
		}
	}
	c.Invalidate()
	if inserted > 0 {
		c.logger.Printf("Seeded %d of %d default tables", inserted, len(layout))
	}
	return inserted, nil
}

// ActiveTables returns active tables in allocation order: smallest
// capacity_max first, then priority, then id.
func (c *Catalog) ActiveTables(ctx context.Context) ([]model.Table, error) {
	if c.ttl > 0 {
		if cached, found := c.cache.Get(activeTablesKey); found {
			return cached.([]model.Table), nil
		}
	}
	tables, err := c.store.ListTables(ctx, true)
	if err != nil {
		return nil, err
	}
	if c.ttl > 0 {
		c.cache.Set(activeTablesKey, tables, c.ttl)
	}
	return tables, nil
}

// Tables returns every table, active or not, in allocation order.
func (c *Catalog) Tables(ctx context.Context) ([]model.Table, error) {
	return c.store.ListTables(ctx, false)
}

// SetActive toggles a table in or out of allocation.
func (c *Catalog) SetActive(ctx context.Context, tableID string, active bool) error {
	if err := c.store.SetTableActive(ctx, tableID, active); err != nil {
		return err
	}
	c.Invalidate()
	c.logger.Printf("Table %s active=%t", tableID, active)
	return nil
}

// Invalidate drops the cached table list.
func (c *Catalog) Invalidate() {
	c.cache.Delete(activeTablesKey)
}
