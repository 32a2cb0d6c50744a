package repository

import (
	"context"
	"errors"
	"time"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID              int64      `gorm:"column:id;primaryKey"`
	CustomerID      int64      `gorm:"column:customer_id;index"`
	FieldID         int64      `gorm:"column:field_id;index:idx_field_date"`
	Date            time.Time  `gorm:"column:date;index:idx_field_date"`
	StartHour       int        `gorm:"column:start_hour"`
	DurationHours   int        `gorm:"column:duration_hours"`
	Price           float64    `gorm:"column:price"`
	Status          string     `gorm:"column:status"`
	PaymentStatus   string     `gorm:"column:payment_status"`
	CashierID       *int64     `gorm:"column:cashier_id"`
	ConfirmedAt     *time.Time `gorm:"column:confirmed_at"`
	PaymentDeadline time.Time  `gorm:"column:payment_deadline"`
	CancelledAt     *time.Time `gorm:"column:cancelled_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:              m.ID,
		CustomerID:      m.CustomerID,
		FieldID:         m.FieldID,
		Date:            m.Date,
		StartHour:       m.StartHour,
		DurationHours:   m.DurationHours,
		Price:           m.Price,
		Status:          domain.BookingStatus(m.Status),
		PaymentStatus:   domain.PaymentProgress(m.PaymentStatus),
		CashierID:       m.CashierID,
		ConfirmedAt:     m.ConfirmedAt,
		PaymentDeadline: m.PaymentDeadline,
		CancelledAt:     m.CancelledAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		FieldID:         b.FieldID,
		Date:            b.Date,
		StartHour:       b.StartHour,
		DurationHours:   b.DurationHours,
		Price:           b.Price,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		CashierID:       b.CashierID,
		ConfirmedAt:     b.ConfirmedAt,
		PaymentDeadline: b.PaymentDeadline,
		CancelledAt:     b.CancelledAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := conn(ctx, r.db).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := conn(ctx, r.db).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// FindActiveByFieldDate returns bookings occupying slots on the given field
// and date whose status is still slot-holding (pending or confirmed),
// excluding excludeID when it is non-zero.
func (r *BookingRepository) FindActiveByFieldDate(ctx context.Context, fieldID int64, date time.Time, excludeID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	q := conn(ctx, r.db).
		Where("field_id = ? AND date = ? AND status IN ?", fieldID, date,
			[]string{string(domain.BookingPending), string(domain.BookingConfirmed)})
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Order("start_hour ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := conn(ctx, r.db).Model(&bookingModel{ID: b.ID}).
		Select("date", "start_hour", "duration_hours", "price", "status",
			"payment_status", "cashier_id", "confirmed_at", "payment_deadline", "cancelled_at").
		Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete hard-removes a booking. Only unpaid pending bookings are ever
// deleted; paid ones are soft-cancelled to preserve audit history.
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	tx := conn(ctx, r.db).Delete(&bookingModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error) {
	var rows []bookingModel
	err := conn(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("date DESC, start_hour DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// FindDeadlinePassed returns pending bookings whose payment deadline has
// passed and that still have no payment under verification.
func (r *BookingRepository) FindDeadlinePassed(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	var rows []bookingModel
	err := conn(ctx, r.db).
		Where("status = ? AND payment_status = ? AND payment_deadline < ?",
			string(domain.BookingPending), string(domain.PaymentNone), now).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// FindConfirmedStarting returns confirmed bookings on date with a start hour
// in [fromHour, toHour).
func (r *BookingRepository) FindConfirmedStarting(ctx context.Context, date time.Time, fromHour, toHour int) ([]domain.Booking, error) {
	var rows []bookingModel
	err := conn(ctx, r.db).
		Where("status = ? AND date = ? AND start_hour >= ? AND start_hour < ?",
			string(domain.BookingConfirmed), date, fromHour, toHour).
		Order("start_hour ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}
