// Package seeder fills the booking book with random reservations until a
// target slot occupancy is reached. It goes through the booking engine, so
// every seeded reservation obeys the same rules as a real one.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"table-booking-backend/internal/booking"
	"table-booking-backend/internal/calendar"
	"table-booking-backend/internal/model"
)

// batchSize is how many attempts run between occupancy checks.
const batchSize = 20

// Booker is the subset of the booking engine the seeder drives.
type Booker interface {
	Create(ctx context.Context, req booking.CreateRequest) (*model.Reservation, error)
	Confirm(ctx context.Context, id string) (*model.Reservation, error)
	Occupancy(ctx context.Context, from, to string) (*booking.Occupancy, error)
}

// Options controls one seeding run.
type Options struct {
	Start        time.Time // first day to fill
	Days         int
	TargetRatio  float64
	MaxAttempts  int
	Seed         int64
	ConfirmRatio float64
	DryRun       bool
}

// Result summarises a run.
type Result struct {
	Attempts       int
	Created        int
	Confirmed      int
	NoAvailability int
	Conflicts      int
	Rejected       int
	Before         *booking.Occupancy
	After          *booking.Occupancy
}

type job struct {
	req     booking.CreateRequest
	confirm bool
}

type outcome struct {
	created   bool
	confirmed bool
	err       error
}

// WorkerPool runs create attempts concurrently.
type WorkerPool struct {
	size    int
	jobs    chan job
	results chan outcome
	booker  Booker
	logger  *log.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, booker Booker, logger *log.Logger) *WorkerPool {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan job, batchSize),
		results: make(chan outcome, batchSize),
		booker:  booker,
		logger:  logger,
	}
}

// start launches the worker goroutines; they exit when jobs is closed.
func (wp *WorkerPool) start(ctx context.Context, wg *sync.WaitGroup) {
	for i := 0; i < wp.size; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			wp.worker(ctx, id)
		}(i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.logger.Printf("Seeder worker %d started", id)
	for j := range wp.jobs {
		wp.results <- wp.attempt(ctx, j)
	}
}

func (wp *WorkerPool) attempt(ctx context.Context, j job) outcome {
	r, err := wp.booker.Create(ctx, j.req)
	if err != nil {
		return outcome{err: err}
	}
	out := outcome{created: true}
	if j.confirm {
		if _, err := wp.booker.Confirm(ctx, r.ID); err != nil {
			wp.logger.Printf("Could not confirm seeded reservation %s: %v", r.ID, err)
		} else {
			out.confirmed = true
		}
	}
	return out
}

// Run seeds until the occupancy of [Start, Start+Days) reaches TargetRatio,
// MaxAttempts is spent or ctx is cancelled. A pool runs only once.
func (wp *WorkerPool) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Days < 1 {
		return nil, fmt.Errorf("days must be at least 1")
	}
	if opts.TargetRatio <= 0 || opts.TargetRatio > 1 {
		return nil, fmt.Errorf("target ratio must be in (0, 1], got %v", opts.TargetRatio)
	}
	from := opts.Start.Format(calendar.DateLayout)
	to := opts.Start.AddDate(0, 0, opts.Days-1).Format(calendar.DateLayout)

	days := openDays(opts.Start, opts.Days)
	if len(days) == 0 {
		return nil, fmt.Errorf("no bookable day between %s and %s", from, to)
	}

	before, err := wp.booker.Occupancy(ctx, from, to)
	if err != nil {
		return nil, err
	}
	res := &Result{Before: before, After: before}
	wp.logger.Printf("Occupancy %s..%s: %d/%d slots (%.1f%%), target %.1f%%",
		from, to, before.UsedSlots, before.Capacity, before.Ratio*100, opts.TargetRatio*100)
	if opts.DryRun || before.Ratio >= opts.TargetRatio {
		return res, nil
	}

	gen := newGenerator(opts.Seed, days, opts.ConfirmRatio)

	var wg sync.WaitGroup
	wp.start(ctx, &wg)
	defer func() {
		close(wp.jobs)
		wg.Wait()
	}()

	for res.Attempts < opts.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		n := batchSize
		if left := opts.MaxAttempts - res.Attempts; left < n {
			n = left
		}
		go func(n int) {
			for i := 0; i < n; i++ {
				wp.jobs <- gen.next()
			}
		}(n)
		for i := 0; i < n; i++ {
			res.record(<-wp.results)
		}

		after, err := wp.booker.Occupancy(ctx, from, to)
		if err != nil {
			return res, err
		}
		res.After = after
		wp.logger.Printf("Seeded %d/%d attempts: created=%d occupancy=%.1f%%",
			res.Attempts, opts.MaxAttempts, res.Created, after.Ratio*100)
		if after.Ratio >= opts.TargetRatio {
			break
		}
	}
	return res, nil
}

func (r *Result) record(o outcome) {
	r.Attempts++
	switch {
	case o.err == nil:
		r.Created++
		if o.confirmed {
			r.Confirmed++
		}
	case errors.Is(o.err, booking.ErrNoAvailability):
		r.NoAvailability++
	case errors.Is(o.err, booking.ErrConflict):
		r.Conflicts++
	default:
		r.Rejected++
	}
}

type openDay struct {
	date  string
	times []string
}

func openDays(start time.Time, n int) []openDay {
	var out []openDay
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		if times := calendar.Times(d.Weekday()); len(times) > 0 {
			out = append(out, openDay{date: d.Format(calendar.DateLayout), times: times})
		}
	}
	return out
}

var (
	firstNames  = []string{"Lucía", "Martín", "Sofía", "Hugo", "Julia", "Pablo", "Carmen", "Diego", "Elena", "Jorge", "Marta", "Álvaro"}
	lastNames   = []string{"García", "Romero", "Navarro", "Torres", "Ruiz", "Castro", "Ortega", "Molina", "Vidal", "Iglesias"}
	preferences = []string{"", "", "terraza", "salón", "interior", "cerca de la ventana", "trona para bebé"}
	occasions   = []string{"", "", "", "cumpleaños", "aniversario", "cena de empresa"}

	partySizes   = []int{2, 3, 4, 5, 6, 7, 8}
	partyWeights = []int{25, 20, 18, 14, 10, 8, 5}
)

// generator produces a reproducible stream of random requests. It is only
// used from one goroutine at a time.
type generator struct {
	rng          *rand.Rand
	days         []openDay
	confirmRatio float64
	weightSum    int
}

func newGenerator(seed int64, days []openDay, confirmRatio float64) *generator {
	sum := 0
	for _, w := range partyWeights {
		sum += w
	}
	return &generator{rng: rand.New(rand.NewSource(seed)), days: days, confirmRatio: confirmRatio, weightSum: sum}
}

func (g *generator) next() job {
	day := g.days[g.rng.Intn(len(g.days))]
	return job{
		req: booking.CreateRequest{
			Date:            day.date,
			Time:            day.times[g.rng.Intn(len(day.times))],
			NumPeople:       g.partySize(),
			CustomerName:    firstNames[g.rng.Intn(len(firstNames))] + " " + lastNames[g.rng.Intn(len(lastNames))],
			Phone:           fmt.Sprintf("34%d", 600000000+g.rng.Intn(200000000)),
			Preferences:     preferences[g.rng.Intn(len(preferences))],
			SpecialOccasion: occasions[g.rng.Intn(len(occasions))],
		},
		confirm: g.rng.Float64() < g.confirmRatio,
	}
}

func (g *generator) partySize() int {
	n := g.rng.Intn(g.weightSum)
	for i, w := range partyWeights {
		if n < w {
			return partySizes[i]
		}
		n -= w
	}
	return partySizes[len(partySizes)-1]
}
