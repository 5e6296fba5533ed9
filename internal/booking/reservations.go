package booking

import (
	"context"
	"errors"
	"strings"

	"table-booking-backend/internal/model"
	"table-booking-backend/internal/parse"
	"table-booking-backend/internal/store"
)

// CreateRequest carries the fields of a new reservation.
type CreateRequest struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	NumPeople       int    `json:"num_people"`
	CustomerName    string `json:"customer_name"`
	Phone           string `json:"phone"`
	Preferences     string `json:"preferences"`
	SpecialOccasion string `json:"special_occasion"`
}

// Create validates the request, allocates a table and commits the slots, the
// reservation and its customer index entry in one transaction. A lost race
// returns ErrConflict with nothing written.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*model.Reservation, error) {
	date, clockTime := strings.TrimSpace(req.Date), strings.TrimSpace(req.Time)
	if err := e.validateSlot(date, clockTime); err != nil {
		return nil, err
	}
	if err := e.validateParty(req.NumPeople); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, invalid("customer_name", "required", "customer name must not be empty")
	}
	phone, err := parse.NormalizePhone(req.Phone)
	if err != nil {
		return nil, invalid("phone", "malformed", err.Error())
	}

	now := e.clock.Now()
	r := model.Reservation{
		ID:              newReservationID(date),
		Date:            date,
		Time:            clockTime,
		DurationMin:     e.duration(req.NumPeople),
		NumPeople:       req.NumPeople,
		CustomerName:    name,
		Phone:           phone,
		Preferences:     strings.TrimSpace(req.Preferences),
		SpecialOccasion: strings.TrimSpace(req.SpecialOccasion),
		Status:          model.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	alloc, err := e.FindTable(ctx, FindRequest{
		Date:       r.Date,
		Time:       r.Time,
		People:     r.NumPeople,
		Preference: r.Preferences,
		Duration:   r.DurationMin,
	})
	if err != nil {
		if errors.Is(err, ErrNoAvailability) {
			e.logger.Printf("No availability for %s %s party=%d", r.Date, r.Time, r.NumPeople)
		}
		return nil, err
	}
	r.TableID = alloc.Table.ID
	r.TableZone = alloc.Table.Zone

	err = e.store.WithTx(ctx, func(tx store.Store) error {
		if err := e.acquire(ctx, tx, r, alloc); err != nil {
			return err
		}
		if err := tx.InsertReservation(ctx, r); err != nil {
			if errors.Is(err, store.ErrConditionFailed) {
				return ErrConflict
			}
			return err
		}
		return tx.PutCustomerEntry(ctx, store.CustomerEntryOf(r))
	})
	if err != nil {
		return nil, storageErr("create reservation", err)
	}

	e.logger.Printf("Reservation %s created: table=%s zone=%s date=%s time=%s people=%d",
		r.ID, r.TableID, r.TableZone, r.Date, r.Time, r.NumPeople)
	return &r, nil
}

// Update merges changes onto the reservation and moves its slot holdings to
// match. New slots are secured before old ones are released, so a failed
// update leaves the previous assignment intact.
func (e *Engine) Update(ctx context.Context, id string, changes Changes) (*model.Reservation, error) {
	changes, err := changes.normalize()
	if err != nil {
		return nil, err
	}
	current, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := changes.Apply(*current)
	merged.UpdatedAt = current.UpdatedAt
	if merged == *current {
		return current, nil
	}
	if !current.Active() {
		return nil, ErrReservationCancelled
	}

	slotMoved := merged.Date != current.Date || merged.Time != current.Time
	if slotMoved || merged.Active() {
		if err := e.validateSlot(merged.Date, merged.Time); err != nil {
			return nil, err
		}
	}
	if merged.NumPeople != current.NumPeople {
		if err := e.validateParty(merged.NumPeople); err != nil {
			return nil, err
		}
	}

	placementChanged := slotMoved ||
		merged.NumPeople != current.NumPeople ||
		merged.Preferences != current.Preferences
	statusChanged := merged.Status != current.Status
	merged.UpdatedAt = e.clock.Now()

	var alloc *Allocation
	if merged.Active() && placementChanged {
		merged.DurationMin = e.duration(merged.NumPeople)
		alloc, err = e.FindTable(ctx, FindRequest{
			Date:        merged.Date,
			Time:        merged.Time,
			People:      merged.NumPeople,
			Preference:  merged.Preferences,
			Duration:    merged.DurationMin,
			ExcludingID: id,
		})
		if err != nil {
			if errors.Is(err, ErrNoAvailability) {
				e.logger.Printf("No availability to move reservation %s to %s %s party=%d", id, merged.Date, merged.Time, merged.NumPeople)
			}
			return nil, err
		}
		merged.TableID = alloc.Table.ID
		merged.TableZone = alloc.Table.Zone
	}

	err = e.store.WithTx(ctx, func(tx store.Store) error {
		held, err := tx.SlotsForReservation(ctx, id)
		if err != nil {
			return err
		}

		switch {
		case !merged.Active():
			if err := e.release(ctx, tx, id, held, nil); err != nil {
				return err
			}
		case alloc != nil:
			if err := e.acquire(ctx, tx, merged, alloc); err != nil {
				return err
			}
			if err := e.release(ctx, tx, id, held, keySet(alloc.Table.ID, alloc.SlotKeys)); err != nil {
				return err
			}
		case statusChanged:
			// pending <-> confirmed: same table and span, refresh the status mirrors.
			for _, s := range held {
				if err := tx.PutSlot(ctx, slotOf(s.TableID, s.SlotKey, id, merged.Status, merged.UpdatedAt)); err != nil {
					if errors.Is(err, store.ErrConditionFailed) {
						return ErrConflict
					}
					return err
				}
			}
		}

		if err := tx.PutReservation(ctx, merged); err != nil {
			return err
		}
		oldKey, newKey := store.CustomerKeyOf(*current), store.CustomerKeyOf(merged)
		if oldKey != newKey {
			if err := tx.DeleteCustomerEntry(ctx, oldKey); err != nil {
				return err
			}
		}
		return tx.PutCustomerEntry(ctx, store.CustomerEntryOf(merged))
	})
	if err != nil {
		return nil, storageErr("update reservation", err)
	}

	e.logger.Printf("Reservation %s updated: status=%s table=%s date=%s time=%s people=%d",
		merged.ID, merged.Status, merged.TableID, merged.Date, merged.Time, merged.NumPeople)
	return &merged, nil
}

// CancelResult is the outcome of Cancel.
type CancelResult struct {
	Reservation      *model.Reservation `json:"reservation"`
	AlreadyCancelled bool               `json:"already_cancelled"`
}

// Cancel releases every slot the reservation holds. Cancelling twice
// succeeds and reports AlreadyCancelled.
func (e *Engine) Cancel(ctx context.Context, id, reason string) (*CancelResult, error) {
	current, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == model.StatusCancelled {
		return &CancelResult{Reservation: current, AlreadyCancelled: true}, nil
	}

	changes := Changes{Status: ptr(model.StatusCancelled)}
	if reason = strings.TrimSpace(reason); reason != "" {
		changes.CancelReason = &reason
	}
	r, err := e.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	return &CancelResult{Reservation: r}, nil
}

// Confirm marks a pending reservation as confirmed by staff.
func (e *Engine) Confirm(ctx context.Context, id string) (*model.Reservation, error) {
	return e.Update(ctx, id, Changes{Status: ptr(model.StatusConfirmed)})
}
