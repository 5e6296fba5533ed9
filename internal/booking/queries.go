package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"table-booking-backend/internal/calendar"
	"table-booking-backend/internal/model"
	"table-booking-backend/internal/parse"
	"table-booking-backend/internal/store"
)

// Get returns one reservation.
func (e *Engine) Get(ctx context.Context, id string) (*model.Reservation, error) {
	r, err := e.store.GetReservation(ctx, strings.TrimSpace(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get reservation", err)
	}
	return r, nil
}

// ListFilter narrows List. Empty fields do not filter.
type ListFilter struct {
	Date         string
	Status       string
	CustomerName string
	Phone        string
}

// List returns reservations ordered by date, time and id.
func (e *Engine) List(ctx context.Context, f ListFilter) ([]model.Reservation, error) {
	q := store.ReservationQuery{
		Date:         strings.TrimSpace(f.Date),
		Status:       strings.ToLower(strings.TrimSpace(f.Status)),
		CustomerName: f.CustomerName,
		Phone:        strings.TrimSpace(f.Phone),
		Limit:        e.opts.MaxListResults,
	}
	if q.Date != "" {
		if _, err := time.Parse(calendar.DateLayout, q.Date); err != nil {
			return nil, invalid("date", calendar.ReasonBadDate, "invalid date format, use YYYY-MM-DD")
		}
	}
	if q.Status != "" && !model.IsValidStatus(q.Status) {
		return nil, invalid("status", "unknown", "status must be pending, confirmed or cancelled")
	}
	if q.Phone != "" {
		if phone, err := parse.NormalizePhone(q.Phone); err == nil {
			q.Phone = phone
		}
	}

	out, err := e.store.QueryReservations(ctx, q)
	if err != nil {
		return nil, storageErr("list reservations", err)
	}
	return out, nil
}

// ByPhone resolves a customer's reservations through the customer index.
func (e *Engine) ByPhone(ctx context.Context, rawPhone string) ([]model.Reservation, error) {
	phone, err := parse.NormalizePhone(rawPhone)
	if err != nil {
		return nil, invalid("phone", "malformed", err.Error())
	}
	entries, err := e.store.CustomerEntries(ctx, phone)
	if err != nil {
		return nil, storageErr("lookup by phone", err)
	}

	out := make([]model.Reservation, 0, len(entries))
	for _, entry := range entries {
		r, err := e.store.GetReservation(ctx, entry.ReservationID)
		if errors.Is(err, store.ErrNotFound) {
			e.logger.Printf("Customer index for %s points at missing reservation %s", phone, entry.ReservationID)
			continue
		}
		if err != nil {
			return nil, storageErr("lookup by phone", err)
		}
		out = append(out, *r)
	}
	return out, nil
}

// AvailableTime is one bookable start time and the table it would get.
type AvailableTime struct {
	Time    string `json:"time"`
	TableID string `json:"table_id"`
	Zone    string `json:"zone"`
}

// AvailableTimes runs the same feasibility check as Create for every
// bookable start time of date. A closed day yields an empty list.
func (e *Engine) AvailableTimes(ctx context.Context, date string, people int, preferredZone string) ([]AvailableTime, error) {
	date = strings.TrimSpace(date)
	day, err := time.Parse(calendar.DateLayout, date)
	if err != nil {
		return nil, invalid("date", calendar.ReasonBadDate, "invalid date format, use YYYY-MM-DD")
	}
	if err := e.validateParty(people); err != nil {
		return nil, err
	}

	out := []AvailableTime{}
	for _, t := range calendar.Times(day.Weekday()) {
		if e.validateSlot(date, t) != nil {
			continue
		}
		alloc, err := e.FindTable(ctx, FindRequest{
			Date:       date,
			Time:       t,
			People:     people,
			Preference: preferredZone,
			Duration:   e.duration(people),
		})
		if errors.Is(err, ErrNoAvailability) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, AvailableTime{Time: t, TableID: alloc.Table.ID, Zone: alloc.Table.Zone})
	}
	return out, nil
}

// Stats summarises reservations by status.
type Stats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// Stats counts every reservation ever made, grouped by status.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	counts, err := e.store.CountReservationsByStatus(ctx)
	if err != nil {
		return nil, storageErr("stats", err)
	}
	s := &Stats{ByStatus: map[string]int64{
		model.StatusPending:   0,
		model.StatusConfirmed: 0,
		model.StatusCancelled: 0,
	}}
	for status, n := range counts {
		s.ByStatus[status] = n
		s.Total += n
	}
	return s, nil
}

// Occupancy compares held slots against slot capacity over a date range.
type Occupancy struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	UsedSlots int64   `json:"used_slots"`
	Capacity  int64   `json:"capacity"`
	Ratio     float64 `json:"ratio"`
}

const maxOccupancyDays = 366

// Occupancy reports held slots in [from, to] against capacity, defined as
// bookable start times times active tables.
func (e *Engine) Occupancy(ctx context.Context, from, to string) (*Occupancy, error) {
	start, err := time.Parse(calendar.DateLayout, strings.TrimSpace(from))
	if err != nil {
		return nil, invalid("from", calendar.ReasonBadDate, "invalid date format, use YYYY-MM-DD")
	}
	end, err := time.Parse(calendar.DateLayout, strings.TrimSpace(to))
	if err != nil {
		return nil, invalid("to", calendar.ReasonBadDate, "invalid date format, use YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, invalid("to", "range", "to must not be before from")
	}
	if end.Sub(start) > maxOccupancyDays*24*time.Hour {
		return nil, invalid("to", "range", fmt.Sprintf("range must not exceed %d days", maxOccupancyDays))
	}

	tables, err := e.tables.ActiveTables(ctx)
	if err != nil {
		return nil, storageErr("occupancy", err)
	}
	var startTimes int64
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		startTimes += int64(len(calendar.Times(d.Weekday())))
	}

	used, err := e.store.CountSlots(ctx, start.Format(calendar.DateLayout), end.Format(calendar.DateLayout))
	if err != nil {
		return nil, storageErr("occupancy", err)
	}

	o := &Occupancy{
		From:      start.Format(calendar.DateLayout),
		To:        end.Format(calendar.DateLayout),
		UsedSlots: used,
		Capacity:  startTimes * int64(len(tables)),
	}
	if o.Capacity > 0 {
		o.Ratio = float64(o.UsedSlots) / float64(o.Capacity)
	}
	return o, nil
}
