package booking

import (
	"context"
	"errors"

	"table-booking-backend/internal/model"
	"table-booking-backend/internal/parse"
	"table-booking-backend/internal/store"
)

// FindRequest describes one feasibility check.
type FindRequest struct {
	Date       string
	Time       string
	People     int
	Preference string // free text or zone name; advisory only
	Duration   int    // minutes
	// ExcludingID discounts slots held by this reservation, so an update can
	// check availability against everyone but itself.
	ExcludingID string
}

// Allocation is a table together with the slot keys it would hold.
type Allocation struct {
	Table    model.Table
	SlotKeys []string
}

// FindTable returns the first active table, in catalog order, that fits the
// party and has every required slot free. A zone hint restricts the search
// unless no table of that zone fits, in which case all candidates are
// considered. Nothing is written.
func (e *Engine) FindTable(ctx context.Context, req FindRequest) (*Allocation, error) {
	keys, err := SlotKeys(req.Date, req.Time, req.Duration)
	if err != nil {
		return nil, invalid("date", "invalid_date", err.Error())
	}

	tables, err := e.tables.ActiveTables(ctx)
	if err != nil {
		return nil, storageErr("find table", err)
	}

	for _, t := range candidates(tables, req.People, parse.NormalizeZone(req.Preference)) {
		free, err := e.spanFree(ctx, t.ID, keys, req.ExcludingID)
		if err != nil {
			return nil, storageErr("find table", err)
		}
		if free {
			return &Allocation{Table: t, SlotKeys: keys}, nil
		}
	}
	return nil, ErrNoAvailability
}

// candidates keeps catalog order.
func candidates(tables []model.Table, people int, zone string) []model.Table {
	var fitting, inZone []model.Table
	for _, t := range tables {
		if !t.Fits(people) {
			continue
		}
		fitting = append(fitting, t)
		if zone != "" && t.Zone == zone {
			inZone = append(inZone, t)
		}
	}
	if len(inZone) > 0 {
		return inZone
	}
	return fitting
}

func (e *Engine) spanFree(ctx context.Context, tableID string, keys []string, excludingID string) (bool, error) {
	for _, key := range keys {
		slot, err := e.store.GetSlot(ctx, tableID, key)
		if err != nil {
			return false, err
		}
		if slot != nil && slot.ReservationID != excludingID && model.IsActiveStatus(slot.Status) {
			return false, nil
		}
	}
	return true, nil
}

// acquire writes every slot of alloc for r. Slots r already owns are
// overwritten with its current status; a slot owned by anyone else fails the
// whole call with ErrConflict.
func (e *Engine) acquire(ctx context.Context, tx store.Store, r model.Reservation, alloc *Allocation) error {
	now := e.clock.Now()
	for _, key := range alloc.SlotKeys {
		err := tx.PutSlot(ctx, slotOf(alloc.Table.ID, key, r.ID, r.Status, now))
		if errors.Is(err, store.ErrConditionFailed) {
			e.logger.Printf("Reservation %s lost slot %s/%s to a concurrent booking", r.ID, alloc.Table.ID, key)
			return ErrConflict
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// release deletes held slots that are not part of keep (a set of
// "table|key" strings). A nil keep releases everything.
func (e *Engine) release(ctx context.Context, tx store.Store, reservationID string, held []model.Slot, keep map[string]bool) error {
	for _, s := range held {
		if keep[s.TableID+"|"+s.SlotKey] {
			continue
		}
		err := tx.DeleteSlot(ctx, s.TableID, s.SlotKey, reservationID)
		if errors.Is(err, store.ErrConditionFailed) {
			e.logger.Printf("Reservation %s no longer owns slot %s/%s; skipping release", reservationID, s.TableID, s.SlotKey)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func keySet(tableID string, keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[tableID+"|"+k] = true
	}
	return set
}
