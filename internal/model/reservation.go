package model

import "time"

// Reservation statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// IsActiveStatus reports whether a reservation in this status holds slots.
func IsActiveStatus(status string) bool {
	return status == StatusPending || status == StatusConfirmed
}

// IsValidStatus reports whether status is one of the known statuses.
func IsValidStatus(status string) bool {
	return IsActiveStatus(status) || status == StatusCancelled
}

// Reservation is the canonical booking record. It is never deleted;
// cancellation is a status transition.
type Reservation struct {
	ID              string    `gorm:"primaryKey;size:64" json:"id"`
	Date            string    `gorm:"size:10;not null;index:idx_reservation_date_time,priority:1" json:"date"`
	Time            string    `gorm:"size:5;not null;index:idx_reservation_date_time,priority:2" json:"time"`
	DurationMin     int       `gorm:"not null" json:"duration_min"`
	NumPeople       int       `gorm:"not null" json:"num_people"`
	CustomerName    string    `gorm:"size:128;not null" json:"customer_name"`
	Phone           string    `gorm:"size:32;not null;index" json:"phone"`
	Preferences     string    `gorm:"size:512" json:"preferences"`
	SpecialOccasion string    `gorm:"size:256" json:"special_occasion"`
	Status          string    `gorm:"size:16;not null;index" json:"status"`
	TableID         string    `gorm:"size:32" json:"table_id"`
	TableZone       string    `gorm:"size:32" json:"table_zone"`
	CancelReason    string    `gorm:"size:512" json:"cancel_reason,omitempty"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

// Active reports whether the reservation currently holds slots.
func (r Reservation) Active() bool {
	return IsActiveStatus(r.Status)
}

// CustomerReservation is the customer lookup index entry, kept in lockstep
// with the reservation's (phone, date, time).
type CustomerReservation struct {
	Phone         string    `gorm:"primaryKey;size:32"`
	Date          string    `gorm:"primaryKey;size:10"`
	Time          string    `gorm:"primaryKey;size:5"`
	ReservationID string    `gorm:"primaryKey;size:64"`
	Status        string    `gorm:"size:16;not null"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName implements the GORM tabler interface.
func (CustomerReservation) TableName() string { return "customer_reservations" }
