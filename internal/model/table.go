package model

import "time"

// Table is a physical dining table. Only Active changes after seeding.
type Table struct {
	ID          string    `gorm:"primaryKey;size:32" json:"id"`
	Zone        string    `gorm:"size:32;not null;index" json:"zone"`
	CapacityMin int       `gorm:"not null" json:"capacity_min"`
	CapacityMax int       `gorm:"not null" json:"capacity_max"`
	Priority    int       `gorm:"not null" json:"priority"`
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
}

// TableName keeps clear of the SQL keyword "table".
func (Table) TableName() string { return "dining_tables" }

// Fits reports whether a party of n people fits the table's capacity range.
func (t Table) Fits(n int) bool {
	return t.CapacityMin <= n && n <= t.CapacityMax
}
