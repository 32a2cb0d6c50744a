package availability

import (
	"context"
	"time"

	"fieldbook/internal/domain"
)

// FieldReader is the read port onto the externally owned field catalog.
type FieldReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
}

type BookingFinder interface {
	FindActiveByFieldDate(ctx context.Context, fieldID int64, date time.Time, excludeID int64) ([]domain.Booking, error)
}

type Service struct {
	fields   FieldReader
	bookings BookingFinder

	minDuration int
	maxDuration int
}

func NewService(fields FieldReader, bookings BookingFinder, minDuration, maxDuration int) *Service {
	return &Service{
		fields:      fields,
		bookings:    bookings,
		minDuration: minDuration,
		maxDuration: maxDuration,
	}
}

// CheckSlot reports whether [startHour, startHour+durationHours) on the given
// field and date is free. It returns nil when the slot is available,
// *domain.ValidationError for bad input or a slot outside operating hours,
// and *domain.ConflictError carrying the clashing booking when the interval
// overlaps an active one. Intervals are half-open: a slot ending exactly when
// another begins does not conflict.
//
// excludeBookingID skips one booking in the conflict search, so reschedules
// do not collide with themselves. Pass 0 to exclude nothing.
func (s *Service) CheckSlot(ctx context.Context, fieldID int64, date time.Time, startHour, durationHours int, excludeBookingID int64) error {
	if durationHours < s.minDuration || durationHours > s.maxDuration {
		return domain.Validationf("duration must be between %d and %d hours, got %d", s.minDuration, s.maxDuration, durationHours)
	}

	field, err := s.fields.GetByID(ctx, fieldID)
	if err != nil {
		return err
	}
	if field.Status != domain.FieldAvailable {
		return domain.Validationf("field %d is not available for booking", fieldID)
	}

	start := startHour
	end := startHour + durationHours
	if start < field.OpenHour || end > field.CloseHour {
		return domain.Validationf("slot %02d:00-%02d:00 is outside operating hours %02d:00-%02d:00",
			start, end, field.OpenHour, field.CloseHour)
	}

	existing, err := s.bookings.FindActiveByFieldDate(ctx, fieldID, date, excludeBookingID)
	if err != nil {
		return err
	}
	for i := range existing {
		if existing[i].Overlaps(start, end) {
			return domain.SlotConflict(&existing[i])
		}
	}
	return nil
}
