package booking

import (
	"context"
	"time"

	"fieldbook/internal/domain"
)

// SweepExpiredBookings expires pending bookings whose payment deadline has
// passed without any payment submission. Bookings with a proof under
// verification are left for the cashier. The caller (a cron-driven binary)
// owns scheduling; this is a plain entry point.
func (s *Service) SweepExpiredBookings(ctx context.Context, now time.Time) (int, error) {
	rows, err := s.bookings.FindDeadlinePassed(ctx, now)
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range rows {
		b := &rows[i]
		b.Status = domain.BookingExpired
		b.PaymentStatus = domain.PaymentExpired
		if err := s.bookings.Update(ctx, b); err != nil {
			return swept, err
		}
		swept++
		s.invalidate(ctx,
			availabilityKey(b.FieldID, b.Date),
			bookingKey(b.ID),
			customerBookingsKey(b.CustomerID))
	}
	return swept, nil
}

// CollectPreparationReminders returns confirmed bookings kicking off inside
// the hour that starts lead from now. Dispatching the reminders is the
// caller's job.
func (s *Service) CollectPreparationReminders(ctx context.Context, now time.Time, lead time.Duration) ([]domain.Booking, error) {
	target := now.UTC().Add(lead)
	date := normalizeDate(target)
	return s.bookings.FindConfirmedStarting(ctx, date, target.Hour(), target.Hour()+1)
}
