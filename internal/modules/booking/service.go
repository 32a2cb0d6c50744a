package booking

import (
	"fmt"
	"time"

	"context"

	"fieldbook/internal/domain"
	"fieldbook/internal/modules/status"

	"github.com/jackc/pgx/v5/pgconn"
)

// UpdatePatch carries the fields a customer may change while a booking is
// still pending. Nil means "keep the current value".
type UpdatePatch struct {
	Date          *time.Time
	StartHour     *int
	DurationHours *int
}

type Service struct {
	bookings BookingRepository
	fields   FieldReader
	payments PaymentReader
	checker  SlotChecker
	cache    CacheInvalidator
	notifs   NotificationSender

	paymentWindow time.Duration
	cancelCutoff  time.Duration

	slots *slotLocks
}

func NewService(
	bookings BookingRepository,
	fields FieldReader,
	payments PaymentReader,
	checker SlotChecker,
	cache CacheInvalidator,
	notifs NotificationSender,
	paymentWindow time.Duration,
	cancelCutoff time.Duration,
) *Service {
	return &Service{
		bookings:      bookings,
		fields:        fields,
		payments:      payments,
		checker:       checker,
		cache:         cache,
		notifs:        notifs,
		paymentWindow: paymentWindow,
		cancelCutoff:  cancelCutoff,
		slots:         newSlotLocks(),
	}
}

// CreateBooking reserves a slot and persists the booking in
// {pending, no_payment} with a payment deadline. The per-(field,date) lock is
// held across the availability check and the insert so two concurrent
// requests for overlapping ranges cannot both pass the check.
func (s *Service) CreateBooking(ctx context.Context, customerID, fieldID int64, date time.Time, startHour, durationHours int) (*domain.Booking, error) {
	date = normalizeDate(date)

	now := time.Now().UTC()
	start := time.Date(date.Year(), date.Month(), date.Day(), startHour, 0, 0, 0, time.UTC)
	if start.Before(now) {
		return nil, domain.Validationf("booking start is in the past")
	}

	unlock := s.slots.lock(fieldID, date)
	defer unlock()

	if err := s.checker.CheckSlot(ctx, fieldID, date, startHour, durationHours, 0); err != nil {
		return nil, err
	}

	field, err := s.fields.GetByID(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		CustomerID:      customerID,
		FieldID:         fieldID,
		Date:            date,
		StartHour:       startHour,
		DurationHours:   durationHours,
		Price:           field.PricePerHour * float64(durationHours),
		Status:          domain.BookingPending,
		PaymentStatus:   domain.PaymentNone,
		PaymentDeadline: now.Add(s.paymentWindow),
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23505" && pgErr.ConstraintName == "idx_active_slot" {
				return nil, &domain.ConflictError{Msg: "slot was taken by a concurrent booking"}
			}
		}
		return nil, err
	}

	s.invalidate(ctx, availabilityKey(fieldID, date), customerBookingsKey(customerID))
	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCreated(ctx, b)
	}

	return b, nil
}

// UpdateBooking patches date/time/duration while the booking is still
// pending. A slot change re-runs the availability check excluding the booking
// itself; a duration change reprices.
func (s *Service) UpdateBooking(ctx context.Context, bookingID, requesterID int64, patch UpdatePatch) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != requesterID {
		return nil, domain.ErrForbidden
	}
	if b.Status != domain.BookingPending {
		return nil, domain.Statef("only pending bookings can be updated, booking %d is %s", b.ID, b.Status)
	}

	newDate := b.Date
	if patch.Date != nil {
		newDate = normalizeDate(*patch.Date)
	}
	newStart := b.StartHour
	if patch.StartHour != nil {
		newStart = *patch.StartHour
	}
	newDuration := b.DurationHours
	if patch.DurationHours != nil {
		newDuration = *patch.DurationHours
	}

	slotChanged := !newDate.Equal(b.Date) || newStart != b.StartHour || newDuration != b.DurationHours
	if slotChanged {
		unlock := s.slots.lock(b.FieldID, newDate)
		defer unlock()

		if err := s.checker.CheckSlot(ctx, b.FieldID, newDate, newStart, newDuration, b.ID); err != nil {
			return nil, err
		}
	}

	if newDuration != b.DurationHours {
		field, err := s.fields.GetByID(ctx, b.FieldID)
		if err != nil {
			return nil, err
		}
		b.Price = field.PricePerHour * float64(newDuration)
	}

	oldDate := b.Date
	b.Date = newDate
	b.StartHour = newStart
	b.DurationHours = newDuration

	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.invalidate(ctx,
		availabilityKey(b.FieldID, oldDate),
		availabilityKey(b.FieldID, newDate),
		bookingKey(b.ID),
		customerBookingsKey(b.CustomerID))

	return b, nil
}

// CancelBooking cancels a pending booking unconditionally; a confirmed one
// only while kick-off is at least the cutoff away. Bookings without payment
// history are hard-deleted, the rest are soft-cancelled for audit.
func (s *Service) CancelBooking(ctx context.Context, bookingID, requesterID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != requesterID {
		return nil, domain.ErrForbidden
	}

	switch b.Status {
	case domain.BookingPending:
		// always cancellable
	case domain.BookingConfirmed:
		if time.Until(b.StartsAt()) < s.cancelCutoff {
			return nil, domain.Statef("confirmed booking %d starts within %s and can no longer be cancelled", b.ID, s.cancelCutoff)
		}
	default:
		return nil, domain.Statef("booking %d is %s and cannot be cancelled", b.ID, b.Status)
	}

	latest, err := s.payments.GetLatestByBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b.Status = domain.BookingCancelled
	b.CancelledAt = &now

	if latest == nil {
		if err := s.bookings.Delete(ctx, bookingID); err != nil {
			return nil, err
		}
	} else {
		if err := s.bookings.Update(ctx, b); err != nil {
			return nil, err
		}
	}

	s.invalidate(ctx,
		availabilityKey(b.FieldID, b.Date),
		bookingKey(b.ID),
		customerBookingsKey(b.CustomerID))
	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCancelled(ctx, b)
	}

	return b, nil
}

// CheckAvailability is the read-only slot probe exposed to callers.
func (s *Service) CheckAvailability(ctx context.Context, fieldID int64, date time.Time, startHour, durationHours int) error {
	return s.checker.CheckSlot(ctx, fieldID, normalizeDate(date), startHour, durationHours, 0)
}

func (s *Service) GetBooking(ctx context.Context, bookingID, requesterID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != requesterID {
		return nil, domain.ErrForbidden
	}
	return b, nil
}

func (s *Service) ListMyBookings(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID, limit, offset)
}

// GetBookingStatus projects the progress timeline for a booking from its
// current state plus its latest payment. Nothing is persisted.
func (s *Service) GetBookingStatus(ctx context.Context, bookingID, requesterID int64) (*status.View, error) {
	b, err := s.GetBooking(ctx, bookingID, requesterID)
	if err != nil {
		return nil, err
	}
	latest, err := s.payments.GetLatestByBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	view := status.Project(b, latest)
	return &view, nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, keys...)
	}
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func availabilityKey(fieldID int64, date time.Time) string {
	return fmt.Sprintf("availability:%d:%s", fieldID, date.Format("2006-01-02"))
}

func bookingKey(id int64) string {
	return fmt.Sprintf("booking:%d", id)
}

func customerBookingsKey(customerID int64) string {
	return fmt.Sprintf("bookings:customer:%d", customerID)
}
