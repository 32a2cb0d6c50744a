package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingExpired   BookingStatus = "expired"
)

type PaymentProgress string

const (
	PaymentNone                PaymentProgress = "no_payment"
	PaymentPendingVerification PaymentProgress = "pending_verification"
	PaymentDPConfirmed         PaymentProgress = "dp_confirmed"
	PaymentFullyPaid           PaymentProgress = "fully_paid"
	PaymentExpired             PaymentProgress = "expired"
	PaymentRefunded            PaymentProgress = "refunded"
)

// validBookingTransitions is the booking lifecycle state machine.
// Terminal states map to an empty slice.
var validBookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled, BookingExpired},
	BookingConfirmed: {BookingCancelled, BookingCompleted},
	BookingCancelled: {},
	BookingCompleted: {},
	BookingExpired:   {},
}

// CanTransitionTo reports whether a transition from s to target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validBookingTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible from s.
func (s BookingStatus) IsTerminal() bool {
	return len(validBookingTransitions[s]) == 0
}

func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Booking is a reservation of a field for [StartHour, StartHour+DurationHours)
// on Date. Date is normalized to midnight UTC; hours are integral.
type Booking struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customer_id"`
	FieldID         int64           `json:"field_id"`
	Date            time.Time       `json:"date"`
	StartHour       int             `json:"start_hour"`
	DurationHours   int             `json:"duration_hours"`
	Price           float64         `json:"price"`
	Status          BookingStatus   `json:"status"`
	PaymentStatus   PaymentProgress `json:"payment_status"`
	CashierID       *int64          `json:"cashier_id,omitempty"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	PaymentDeadline time.Time       `json:"payment_deadline"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// EndHour is the exclusive end of the booked interval.
func (b *Booking) EndHour() int {
	return b.StartHour + b.DurationHours
}

// StartsAt returns the scheduled kick-off instant.
func (b *Booking) StartsAt() time.Time {
	return time.Date(b.Date.Year(), b.Date.Month(), b.Date.Day(), b.StartHour, 0, 0, 0, time.UTC)
}

// Overlaps tests half-open interval overlap with another booked range on the
// same field and date. Exact adjacency is not an overlap.
func (b *Booking) Overlaps(startHour, endHour int) bool {
	return startHour < b.EndHour() && endHour > b.StartHour
}
