package model

import "time"

// Slot is one 30-minute unit of one table held by a reservation.
// A row exists only while an active reservation owns the unit.
type Slot struct {
	TableID       string    `gorm:"primaryKey;size:32"`
	SlotKey       string    `gorm:"primaryKey;size:32"` // "2006-01-02#15:04"
	Date          string    `gorm:"size:10;not null;index"`
	Time          string    `gorm:"size:5;not null"`
	Status        string    `gorm:"size:16;not null"`
	ReservationID string    `gorm:"size:64;not null;index"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName implements the GORM tabler interface.
func (Slot) TableName() string { return "table_slots" }
