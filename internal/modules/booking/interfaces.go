package booking

import (
	"context"
	"time"

	"fieldbook/internal/domain"
)

// BookingRepository is the persistence port for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	FindActiveByFieldDate(ctx context.Context, fieldID int64, date time.Time, excludeID int64) ([]domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	Delete(ctx context.Context, id int64) error
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error)
	FindDeadlinePassed(ctx context.Context, now time.Time) ([]domain.Booking, error)
	FindConfirmedStarting(ctx context.Context, date time.Time, fromHour, toHour int) ([]domain.Booking, error)
}

// FieldReader reads the externally owned field catalog.
type FieldReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
}

// SlotChecker decides whether a slot is free. nil means available.
type SlotChecker interface {
	CheckSlot(ctx context.Context, fieldID int64, date time.Time, startHour, durationHours int, excludeBookingID int64) error
}

// PaymentReader tells the lifecycle manager whether a booking has payment
// history, which decides hard-delete vs soft-cancel.
type PaymentReader interface {
	GetLatestByBooking(ctx context.Context, bookingID int64) (*domain.Payment, error)
}

// CacheInvalidator drops stale read-side cache entries. Best-effort: it never
// returns an error and must never abort the mutation that triggered it.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

// NotificationSender fans booking lifecycle events out to interested parties.
// All calls are fire-and-forget.
type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, b *domain.Booking) error
	NotifyBookingCancelled(ctx context.Context, b *domain.Booking) error
	NotifyPreparationReminder(ctx context.Context, b *domain.Booking) error
}
