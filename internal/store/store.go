package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"table-booking-backend/internal/model"
)

// Store defines the interface for all booking persistence. Conditional
// writes report ErrConditionFailed when their condition does not hold.
type Store interface {
	// WithTx runs fn against a transactional Store; every write made through
	// it commits or rolls back together.
	WithTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error

	InsertTableIfAbsent(ctx context.Context, t model.Table) (bool, error)
	ListTables(ctx context.Context, activeOnly bool) ([]model.Table, error)
	SetTableActive(ctx context.Context, tableID string, active bool) error

	GetSlot(ctx context.Context, tableID, slotKey string) (*model.Slot, error)
	PutSlot(ctx context.Context, slot model.Slot) error
	DeleteSlot(ctx context.Context, tableID, slotKey, ownerID string) error
	SlotsForReservation(ctx context.Context, reservationID string) ([]model.Slot, error)
	CountSlots(ctx context.Context, fromDate, toDate string) (int64, error)

	GetReservation(ctx context.Context, id string) (*model.Reservation, error)
	InsertReservation(ctx context.Context, r model.Reservation) error
	PutReservation(ctx context.Context, r model.Reservation) error
	QueryReservations(ctx context.Context, q ReservationQuery) ([]model.Reservation, error)
	CountReservationsByStatus(ctx context.Context) (map[string]int64, error)

	PutCustomerEntry(ctx context.Context, e model.CustomerReservation) error
	DeleteCustomerEntry(ctx context.Context, key CustomerKey) error
	CustomerEntries(ctx context.Context, phone string) ([]model.CustomerReservation, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// --- Tables ---

func (s *gormStore) InsertTableIfAbsent(ctx context.Context, t model.Table) (bool, error) {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&t)
	if res.Error != nil {
		return false, fmt.Errorf("failed to insert table %s: %w", t.ID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *gormStore) ListTables(ctx context.Context, activeOnly bool) ([]model.Table, error) {
	var tables []model.Table
	q := s.db.WithContext(ctx).Order("capacity_max, priority, id")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (s *gormStore) SetTableActive(ctx context.Context, tableID string, active bool) error {
	res := s.db.WithContext(ctx).Model(&model.Table{}).Where("id = ?", tableID).Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("failed to update table %s: %w", tableID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Slots ---

func (s *gormStore) GetSlot(ctx context.Context, tableID, slotKey string) (*model.Slot, error) {
	var slot model.Slot
	err := s.db.WithContext(ctx).
		Where("table_id = ? AND slot_key = ?", tableID, slotKey).
		Take(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s/%s: %w", tableID, slotKey, err)
	}
	return &slot, nil
}

// PutSlot inserts the slot if absent, or overwrites it if it is already owned
// by slot.ReservationID. A slot owned by any other reservation is left
// untouched and ErrConditionFailed is returned.
func (s *gormStore) PutSlot(ctx context.Context, slot model.Slot) error {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&slot)
	if res.Error != nil {
		return fmt.Errorf("failed to insert slot %s/%s: %w", slot.TableID, slot.SlotKey, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	res = s.db.WithContext(ctx).Model(&model.Slot{}).
		Where("table_id = ? AND slot_key = ? AND reservation_id = ?", slot.TableID, slot.SlotKey, slot.ReservationID).
		Updates(map[string]any{"status": slot.Status, "updated_at": slot.UpdatedAt})
	if res.Error != nil {
		return fmt.Errorf("failed to overwrite slot %s/%s: %w", slot.TableID, slot.SlotKey, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConditionFailed
	}
	return nil
}

// DeleteSlot removes the slot only if ownerID holds it. Deleting an absent
// slot succeeds; a slot held by another reservation yields ErrConditionFailed.
func (s *gormStore) DeleteSlot(ctx context.Context, tableID, slotKey, ownerID string) error {
	res := s.db.WithContext(ctx).
		Where("table_id = ? AND slot_key = ? AND reservation_id = ?", tableID, slotKey, ownerID).
		Delete(&model.Slot{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete slot %s/%s: %w", tableID, slotKey, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	existing, err := s.GetSlot(ctx, tableID, slotKey)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrConditionFailed
	}
	return nil
}

func (s *gormStore) SlotsForReservation(ctx context.Context, reservationID string) ([]model.Slot, error) {
	var slots []model.Slot
	if err := s.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("table_id, slot_key").
		Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to list slots for %s: %w", reservationID, err)
	}
	return slots, nil
}

// CountSlots counts held slots whose date lies in [fromDate, toDate].
func (s *gormStore) CountSlots(ctx context.Context, fromDate, toDate string) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Slot{}).
		Where("date >= ? AND date <= ? AND status IN ?", fromDate, toDate, []string{model.StatusPending, model.StatusConfirmed}).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count slots: %w", err)
	}
	return n, nil
}

// --- Reservations ---

func (s *gormStore) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
	var r model.Reservation
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reservation %s: %w", id, err)
	}
	return &r, nil
}

// InsertReservation writes r only if no reservation with the same id exists.
func (s *gormStore) InsertReservation(ctx context.Context, r model.Reservation) error {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&r)
	if res.Error != nil {
		return fmt.Errorf("failed to insert reservation %s: %w", r.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConditionFailed
	}
	return nil
}

func (s *gormStore) PutReservation(ctx context.Context, r model.Reservation) error {
	if err := s.db.WithContext(ctx).Save(&r).Error; err != nil {
		return fmt.Errorf("failed to save reservation %s: %w", r.ID, err)
	}
	return nil
}

func (s *gormStore) QueryReservations(ctx context.Context, q ReservationQuery) ([]model.Reservation, error) {
	tx := s.db.WithContext(ctx).Model(&model.Reservation{})
	if q.Date != "" {
		tx = tx.Where("date = ?", q.Date)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Phone != "" {
		tx = tx.Where("phone = ?", q.Phone)
	}
	if name := strings.ToLower(strings.TrimSpace(q.CustomerName)); name != "" {
		tx = tx.Where("LOWER(customer_name) LIKE ?", "%"+name+"%")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var out []model.Reservation
	if err := tx.Order("date, time, id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	return out, nil
}

func (s *gormStore) CountReservationsByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).Model(&model.Reservation{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate reservations: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// --- Customer index ---

func (s *gormStore) PutCustomerEntry(ctx context.Context, e model.CustomerReservation) error {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}, {Name: "date"}, {Name: "time"}, {Name: "reservation_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&e).Error; err != nil {
		return fmt.Errorf("failed to save customer index for %s: %w", e.ReservationID, err)
	}
	return nil
}

func (s *gormStore) DeleteCustomerEntry(ctx context.Context, key CustomerKey) error {
	if err := s.db.WithContext(ctx).
		Where("phone = ? AND date = ? AND time = ? AND reservation_id = ?", key.Phone, key.Date, key.Time, key.ReservationID).
		Delete(&model.CustomerReservation{}).Error; err != nil {
		return fmt.Errorf("failed to delete customer index for %s: %w", key.ReservationID, err)
	}
	return nil
}

func (s *gormStore) CustomerEntries(ctx context.Context, phone string) ([]model.CustomerReservation, error) {
	var entries []model.CustomerReservation
	if err := s.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("date, time, reservation_id").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to query customer index for %s: %w", phone, err)
	}
	return entries, nil
}
