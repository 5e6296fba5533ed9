package catalog

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-booking-backend/internal/clock"
	"table-booking-backend/internal/model"
	"table-booking-backend/internal/store"
	"table-booking-backend/internal/testutil"
)

func newCatalog(t *testing.T, ttl time.Duration) (*Catalog, store.Store) {
	s := store.NewGormStore(testutil.NewSQLiteDB(t))
	clk := clock.NewFixed(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	return New(s, ttl, clk, log.New(io.Discard, "", 0)), s
}

func ids(tables []model.Table) []string {
	out := make([]string, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.ID)
	}
	return out
}

func TestSeedIfMissing_Idempotent(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog(t, time.Minute)

	n, err := c.SeedIfMissing(ctx, DefaultLayout)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultLayout), n)

	n, err = c.SeedIfMissing(ctx, DefaultLayout)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	all, err := c.Tables(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultLayout))
}

func TestActiveTables_Order(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog(t, time.Minute)
	_, err := c.SeedIfMissing(ctx, DefaultLayout)
	require.NoError(t, err)

	tables, err := c.ActiveTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"I1", "T1", "I2", "T2",
		"I3", "T3", "I4", "T4",
		"I5", "T5",
		"I6",
	}, ids(tables))
}

func TestSetActive_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	c, s := newCatalog(t, time.Hour)
	_, err := c.SeedIfMissing(ctx, DefaultLayout)
	require.NoError(t, err)

	before, err := c.ActiveTables(ctx)
	require.NoError(t, err)
	require.Contains(t, ids(before), "I6")

	// A write that bypasses the catalog is not seen until the entry is invalidated.
	require.NoError(t, s.SetTableActive(ctx, "I5", false))
	cached, err := c.ActiveTables(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids(cached), "I5")

	require.NoError(t, c.SetActive(ctx, "I6", false))
	after, err := c.ActiveTables(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids(after), "I6")
	assert.NotContains(t, ids(after), "I5")

	assert.ErrorIs(t, c.SetActive(ctx, "X9", true), store.ErrNotFound)
}

func TestActiveTables_NoCache(t *testing.T) {
	ctx := context.Background()
	c, s := newCatalog(t, 0)
	_, err := c.SeedIfMissing(ctx, DefaultLayout)
	require.NoError(t, err)

	require.NoError(t, s.SetTableActive(ctx, "I1", false))
	tables, err := c.ActiveTables(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids(tables), "I1")
}

func TestNew_PanicsWithoutStore(t *testing.T) {
	assert.Panics(t, func() { New(nil, time.Minute, nil, nil) })
}
