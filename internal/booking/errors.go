package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAvailability means no active table fits the party for the whole span.
	ErrNoAvailability = errors.New("no table available for the requested time")
	// ErrConflict means a concurrent booking took a slot during commit.
	// Nothing was written; the caller may retry the whole operation.
	ErrConflict = errors.New("slot taken by a concurrent reservation")
	// ErrNotFound means the reservation id is unknown.
	ErrNotFound = errors.New("reservation not found")
	// ErrReservationCancelled means the change would modify or re-activate a
	// cancelled reservation.
	ErrReservationCancelled = errors.New("reservation is cancelled")
)

// ValidationError reports a bad input value. It is never retryable.
type ValidationError struct {
	Field  string
	Code   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, code, reason string) *ValidationError {
	return &ValidationError{Field: field, Code: code, Reason: reason}
}

// StorageError wraps a backend failure. Any partial write of the failed
// operation has been rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsRetryable reports whether repeating the same call may succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// storageErr wraps err as a StorageError unless it already belongs to the
// booking error taxonomy.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var se *StorageError
	switch {
	case errors.As(err, &ve), errors.As(err, &se),
		errors.Is(err, ErrConflict), errors.Is(err, ErrNoAvailability),
		errors.Is(err, ErrNotFound), errors.Is(err, ErrReservationCancelled):
		return err
	}
	return &StorageError{Op: op, Err: err}
}
