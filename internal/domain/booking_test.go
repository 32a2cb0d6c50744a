package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	all := []BookingStatus{
		BookingPending, BookingConfirmed, BookingCancelled,
		BookingCompleted, BookingExpired,
	}

	allowed := map[BookingStatus]map[BookingStatus]bool{
		BookingPending: {
			BookingConfirmed: true,
			BookingCancelled: true,
			BookingExpired:   true,
		},
		BookingConfirmed: {
			BookingCancelled: true,
			BookingCompleted: true,
		},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.False(t, BookingPending.IsTerminal())
	assert.False(t, BookingConfirmed.IsTerminal())
	assert.True(t, BookingCancelled.IsTerminal())
	assert.True(t, BookingCompleted.IsTerminal())
	assert.True(t, BookingExpired.IsTerminal())
}

func TestBookingStatusActive(t *testing.T) {
	assert.True(t, BookingPending.IsActive())
	assert.True(t, BookingConfirmed.IsActive())
	assert.False(t, BookingCancelled.IsActive())
	assert.False(t, BookingCompleted.IsActive())
	assert.False(t, BookingExpired.IsActive())
}

func TestBookingOverlaps(t *testing.T) {
	b := &Booking{StartHour: 10, DurationHours: 2} // occupies [10, 12)

	cases := []struct {
		name     string
		start    int
		end      int
		overlaps bool
	}{
		{"identical", 10, 12, true},
		{"contained", 10, 11, true},
		{"straddles start", 9, 11, true},
		{"straddles end", 11, 13, true},
		{"covers", 9, 13, true},
		{"adjacent before", 8, 10, false},
		{"adjacent after", 12, 14, false},
		{"disjoint before", 6, 8, false},
		{"disjoint after", 14, 16, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, b.Overlaps(tc.start, tc.end))
		})
	}
}

func TestBookingStartsAt(t *testing.T) {
	b := &Booking{
		Date:          time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		StartHour:     10,
		DurationHours: 2,
	}
	assert.Equal(t, time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC), b.StartsAt())
	assert.Equal(t, 12, b.EndHour())
}

func TestPaymentTypeValid(t *testing.T) {
	assert.True(t, PaymentTypeFull.Valid())
	assert.True(t, PaymentTypeDP.Valid())
	assert.False(t, PaymentType("installment").Valid())
	assert.False(t, PaymentType("").Valid())
}

func TestPaymentStateActive(t *testing.T) {
	assert.True(t, PaymentStatePending.IsActive())
	assert.True(t, PaymentStateVerified.IsActive())
	assert.False(t, PaymentStateRejected.IsActive())
	assert.False(t, PaymentStateReplaced.IsActive())
}
