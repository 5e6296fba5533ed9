package store

import (
	"errors"

	"table-booking-backend/internal/model"
)

var (
	// ErrNotFound is returned when a keyed record does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrConditionFailed is returned when a conditional write loses to an
	// existing record, e.g. a slot already held by another reservation.
	ErrConditionFailed = errors.New("store: condition failed")
)

// ReservationQuery filters reservation listings. Empty fields do not filter.
type ReservationQuery struct {
	Date         string
	Status       string
	CustomerName string // case-insensitive substring
	Phone        string // exact
	Limit        int
}

// CustomerKey identifies one customer index entry.
type CustomerKey struct {
	Phone         string
	Date          string
	Time          string
	ReservationID string
}

// CustomerKeyOf returns the index key of a reservation.
func CustomerKeyOf(r model.Reservation) CustomerKey {
	return CustomerKey{Phone: r.Phone, Date: r.Date, Time: r.Time, ReservationID: r.ID}
}

// CustomerEntryOf builds the index entry mirroring r.
func CustomerEntryOf(r model.Reservation) model.CustomerReservation {
	return model.CustomerReservation{
		Phone:         r.Phone,
		Date:          r.Date,
		Time:          r.Time,
		ReservationID: r.ID,
		Status:        r.Status,
		UpdatedAt:     r.UpdatedAt,
	}
}
