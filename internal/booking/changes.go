package booking

import (
	"strings"

	"table-booking-backend/internal/model"
	"table-booking-backend/internal/parse"
)

// Changes is a partial update. Nil fields keep their current value.
type Changes struct {
	Date            *string `json:"date,omitempty"`
	Time            *string `json:"time,omitempty"`
	NumPeople       *int    `json:"num_people,omitempty"`
	CustomerName    *string `json:"customer_name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Preferences     *string `json:"preferences,omitempty"`
	SpecialOccasion *string `json:"special_occasion,omitempty"`
	Status          *string `json:"status,omitempty"`
	CancelReason    *string `json:"cancel_reason,omitempty"`
}

// normalize validates the field values that can be checked without the
// current record and returns a cleaned copy.
func (c Changes) normalize() (Changes, error) {
	out := c
	if c.Date != nil {
		out.Date = ptr(strings.TrimSpace(*c.Date))
	}
	if c.Time != nil {
		out.Time = ptr(strings.TrimSpace(*c.Time))
	}
	if c.CustomerName != nil {
		name := strings.TrimSpace(*c.CustomerName)
		if name == "" {
			return Changes{}, invalid("customer_name", "required", "customer name must not be empty")
		}
		out.CustomerName = &name
	}
	if c.Phone != nil {
		phone, err := parse.NormalizePhone(*c.Phone)
		if err != nil {
			return Changes{}, invalid("phone", "malformed", err.Error())
		}
		out.Phone = &phone
	}
	if c.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*c.Status))
		if !model.IsValidStatus(status) {
			return Changes{}, invalid("status", "unknown", "status must be pending, confirmed or cancelled")
		}
		out.Status = &status
	}
	return out, nil
}

// Apply returns r with the changes merged in. r is not modified.
func (c Changes) Apply(r model.Reservation) model.Reservation {
	merged := r
	if c.Date != nil {
		merged.Date = *c.Date
	}
	if c.Time != nil {
		merged.Time = *c.Time
	}
	if c.NumPeople != nil {
		merged.NumPeople = *c.NumPeople
	}
	if c.CustomerName != nil {
		merged.CustomerName = *c.CustomerName
	}
	if c.Phone != nil {
		merged.Phone = *c.Phone
	}
	if c.Preferences != nil {
		merged.Preferences = *c.Preferences
	}
	if c.SpecialOccasion != nil {
		merged.SpecialOccasion = *c.SpecialOccasion
	}
	if c.Status != nil {
		merged.Status = *c.Status
	}
	if c.CancelReason != nil {
		merged.CancelReason = *c.CancelReason
	}
	return merged
}

func ptr[T any](v T) *T { return &v }
