package payment

import (
	"context"
	"time"

	"fieldbook/internal/domain"
)

// PaymentRepository is the persistence port for payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) error
	FindActiveByBooking(ctx context.Context, bookingID int64) (*domain.Payment, error)
	MarkRejectedReplaced(ctx context.Context, bookingID int64, now time.Time) error
	FindPending(ctx context.Context) ([]domain.Payment, error)
	FindByCustomer(ctx context.Context, customerID int64) ([]domain.Payment, error)
}

// BookingStore reads and writes the booking a payment belongs to. Writes only
// happen inside the approve/reject transaction.
type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
}

// TxRunner executes fn atomically: the payment and booking writes inside
// approve/reject must never be observed half-applied.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheInvalidator drops stale read-side cache entries, best-effort.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

// NotificationSender fans verification outcomes out. Fire-and-forget.
type NotificationSender interface {
	NotifyBookingConfirmed(ctx context.Context, b *domain.Booking) error
	NotifyPaymentRejected(ctx context.Context, p *domain.Payment) error
}
