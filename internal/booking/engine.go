// Package booking allocates tables to reservations and keeps the slot index,
// the reservation records and the customer index consistent.
package booking

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"table-booking-backend/config"
	"table-booking-backend/internal/calendar"
	"table-booking-backend/internal/clock"
	"table-booking-backend/internal/model"
	"table-booking-backend/internal/store"
)

// SlotKeyLayout formats one slot key, e.g. "2025-06-10#20:30".
const SlotKeyLayout = "2006-01-02#15:04"

// DefaultDurationMinutes is the stay used by the fixed duration policy.
const DefaultDurationMinutes = 90

// TableSource provides the active tables in allocation order.
type TableSource interface {
	ActiveTables(ctx context.Context) ([]model.Table, error)
}

// Options tunes an Engine.
type Options struct {
	DurationPolicy string // config.DurationPolicyFixed or config.DurationPolicyPartySize
	MaxPartySize   int
	MaxListResults int
	Location       *time.Location
}

// Engine is the reservation scheduling and allocation engine.
type Engine struct {
	store  store.Store
	tables TableSource
	clock  clock.Clock
	logger *log.Logger
	opts   Options
}

// NewEngine creates an Engine. It panics when store or tables is nil.
func NewEngine(s store.Store, tables TableSource, clk clock.Clock, logger *log.Logger, opts Options) *Engine {
	if s == nil {
		panic("booking: nil store")
	}
	if tables == nil {
		panic("booking: nil table source")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = log.Default()
	}
	if opts.DurationPolicy == "" {
		opts.DurationPolicy = config.DurationPolicyFixed
	}
	if opts.MaxPartySize <= 0 {
		opts.MaxPartySize = 12
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Engine{store: s, tables: tables, clock: clk, logger: logger, opts: opts}
}

// NewEngineFromConfig wires an Engine from the booking section of the config.
func NewEngineFromConfig(s store.Store, tables TableSource, clk clock.Clock, logger *log.Logger, cfg *config.BookingConfig) *Engine {
	return NewEngine(s, tables, clk, logger, Options{
		DurationPolicy: cfg.DurationPolicy,
		MaxPartySize:   cfg.MaxPartySize,
		MaxListResults: cfg.MaxListResults,
		Location:       cfg.Location,
	})
}

// Duration returns the stay in minutes for a party under policy.
func Duration(policy string, people int) int {
	if policy != config.DurationPolicyPartySize {
		return DefaultDurationMinutes
	}
	switch {
	case people <= 2:
		return 90
	case people <= 6:
		return 120
	default:
		return 150
	}
}

func (e *Engine) duration(people int) int {
	return Duration(e.opts.DurationPolicy, people)
}

// SlotKeys returns the ceil(duration/30) consecutive slot keys starting at
// date and time. The span may run past midnight into the next date.
func SlotKeys(date, clockTime string, durationMin int) ([]string, error) {
	start, err := time.Parse("2006-01-02 15:04", date+" "+clockTime)
	if err != nil {
		return nil, fmt.Errorf("invalid date/time %q %q: %w", date, clockTime, err)
	}
	n := (durationMin + calendar.SlotMinutes - 1) / calendar.SlotMinutes
	if n < 1 {
		n = 1
	}
	keys := make([]string, n)
	for i := range keys {
		keys[i] = start.Add(time.Duration(i*calendar.SlotMinutes) * time.Minute).Format(SlotKeyLayout)
	}
	return keys, nil
}

func slotOf(tableID, key, reservationID, status string, now time.Time) model.Slot {
	return model.Slot{
		TableID:       tableID,
		SlotKey:       key,
		Date:          key[:10],
		Time:          key[11:],
		Status:        status,
		ReservationID: reservationID,
		UpdatedAt:     now,
	}
}

// newReservationID returns an id such as "RES-20250610-1A2B3C".
func newReservationID(date string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("RES-%s-%s", strings.ReplaceAll(date, "-", ""), suffix)
}

// validateSlot checks a start date/time against the opening hours.
func (e *Engine) validateSlot(date, clockTime string) error {
	if rej := calendar.Validate(date, clockTime, e.clock.Now(), e.opts.Location); rej != nil {
		return invalid(rej.Field, rej.Code, rej.Message)
	}
	return nil
}

func (e *Engine) validateParty(people int) error {
	if people < 1 || people > e.opts.MaxPartySize {
		return invalid("num_people", "out_of_range", fmt.Sprintf("party size must be between 1 and %d", e.opts.MaxPartySize))
	}
	return nil
}
