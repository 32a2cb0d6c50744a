package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports that a requested slot overlaps an active booking, or
// that a booking already has an active payment. For slot conflicts it carries
// the clashing booking so callers can report a precise failure.
type ConflictError struct {
	Msg       string
	BookingID int64
	StartHour int
	EndHour   int
	Status    BookingStatus
}

func (e *ConflictError) Error() string { return e.Msg }

func SlotConflict(b *Booking) *ConflictError {
	return &ConflictError{
		Msg:       fmt.Sprintf("slot overlaps booking %d (%02d:00-%02d:00, %s)", b.ID, b.StartHour, b.EndHour(), b.Status),
		BookingID: b.ID,
		StartHour: b.StartHour,
		EndHour:   b.EndHour(),
		Status:    b.Status,
	}
}

// StateError reports an illegal lifecycle transition.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string { return e.Msg }

func Statef(format string, args ...any) *StateError {
	return &StateError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsState(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}
