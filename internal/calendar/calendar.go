// Package calendar decides whether a (date, time) falls inside the
// restaurant's bookable opening hours.
package calendar

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// SlotMinutes is the booking granularity.
	SlotMinutes = 30
)

// Window is an inclusive range of bookable start times, in minutes after midnight.
type Window struct {
	From int
	To   int
}

func hm(h, m int) int { return h*60 + m }

// Opening hours per weekday. A weekday without windows is closed.
var weeklyWindows = map[time.Weekday][]Window{
	time.Monday:    nil,
	time.Tuesday:   {{hm(13, 0), hm(16, 0)}, {hm(20, 0), hm(23, 30)}},
	time.Wednesday: {{hm(13, 0), hm(16, 0)}, {hm(20, 0), hm(23, 30)}},
	time.Thursday:  {{hm(13, 0), hm(16, 0)}, {hm(20, 0), hm(23, 30)}},
	time.Friday:    {{hm(13, 0), hm(23, 30)}},
	time.Saturday:  {{hm(13, 0), hm(23, 30)}},
	time.Sunday:    {{hm(13, 0), hm(17, 0)}},
}

// Reason codes carried by a Rejection.
const (
	ReasonBadDate     = "invalid_date"
	ReasonBadTime     = "invalid_time"
	ReasonGranularity = "granularity"
	ReasonClosed      = "closed"
	ReasonOutOfHours  = "out_of_hours"
	ReasonPast        = "past"
)

// Rejection explains why a (date, time) is not bookable.
type Rejection struct {
	Field   string // "date" or "time"
	Code    string
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

// Windows returns the opening windows of a weekday. The result must not be modified.
func Windows(day time.Weekday) []Window {
	return weeklyWindows[day]
}

// IsClosed reports whether the restaurant takes no bookings on day.
func IsClosed(day time.Weekday) bool {
	return len(weeklyWindows[day]) == 0
}

// Times enumerates every bookable start time ("15:04") for day, in order.
func Times(day time.Weekday) []string {
	var out []string
	for _, w := range weeklyWindows[day] {
		for m := w.From; m <= w.To; m += SlotMinutes {
			out = append(out, fmt.Sprintf("%02d:%02d", m/60, m%60))
		}
	}
	return out
}

// Validate checks date ("2006-01-02") and clock time ("15:04") against the
// opening hours. Times are interpreted in loc and compared against now.
// It returns nil when the slot is bookable.
func Validate(date, clockTime string, now time.Time, loc *time.Location) *Rejection {
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return &Rejection{Field: "date", Code: ReasonBadDate, Message: "invalid date format, use YYYY-MM-DD"}
	}
	tod, err := time.Parse(TimeLayout, clockTime)
	if err != nil {
		return &Rejection{Field: "time", Code: ReasonBadTime, Message: "invalid time format, use HH:MM"}
	}
	if tod.Minute()%SlotMinutes != 0 {
		return &Rejection{Field: "time", Code: ReasonGranularity, Message: "bookings start every 30 minutes (e.g. 20:00 or 20:30)"}
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, loc)
	if start.Before(now) {
		return &Rejection{Field: "date", Code: ReasonPast, Message: "cannot book a date/time in the past"}
	}

	weekday := day.Weekday()
	if IsClosed(weekday) {
		return &Rejection{Field: "date", Code: ReasonClosed, Message: fmt.Sprintf("the restaurant is closed on %ss", weekday)}
	}
	minutes := hm(tod.Hour(), tod.Minute())
	for _, w := range weeklyWindows[weekday] {
		if minutes >= w.From && minutes <= w.To {
			return nil
		}
	}
	return &Rejection{Field: "time", Code: ReasonOutOfHours, Message: fmt.Sprintf("%s opening hours: %s", weekday, describe(weeklyWindows[weekday]))}
}

func describe(windows []Window) string {
	s := ""
	for i, w := range windows {
		if i > 0 {
			s += " and "
		}
		s += fmt.Sprintf("%02d:%02d-%02d:%02d", w.From/60, w.From%60, w.To/60, w.To%60)
	}
	return s
}
