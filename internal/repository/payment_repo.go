package repository

import (
	"context"
	"errors"
	"time"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type paymentModel struct {
	ID                      int64      `gorm:"column:id;primaryKey"`
	BookingID               int64      `gorm:"column:booking_id;index"`
	CustomerID              int64      `gorm:"column:customer_id;index"`
	Type                    string     `gorm:"column:type"`
	Amount                  float64    `gorm:"column:amount"`
	ProofRef                string     `gorm:"column:proof_ref"`
	TransferDetails         string     `gorm:"column:transfer_details"`
	Status                  string     `gorm:"column:status;index"`
	VerifierID              *int64     `gorm:"column:verifier_id"`
	VerifiedAt              *time.Time `gorm:"column:verified_at"`
	VerificationNotes       string     `gorm:"column:verification_notes"`
	RejectionReason         string     `gorm:"column:rejection_reason"`
	PreviousRejectionReason string     `gorm:"column:previous_rejection_reason"`
	ReplacedAt              *time.Time `gorm:"column:replaced_at"`
	CreatedAt               time.Time  `gorm:"column:created_at"`
	UpdatedAt               time.Time  `gorm:"column:updated_at"`
}

func (paymentModel) TableName() string { return "payments" }

func toDomainPayment(m paymentModel) *domain.Payment {
	return &domain.Payment{
		ID:                      m.ID,
		BookingID:               m.BookingID,
		CustomerID:              m.CustomerID,
		Type:                    domain.PaymentType(m.Type),
		Amount:                  m.Amount,
		ProofRef:                m.ProofRef,
		TransferDetails:         m.TransferDetails,
		Status:                  domain.PaymentState(m.Status),
		VerifierID:              m.VerifierID,
		VerifiedAt:              m.VerifiedAt,
		VerificationNotes:       m.VerificationNotes,
		RejectionReason:         m.RejectionReason,
		PreviousRejectionReason: m.PreviousRejectionReason,
		ReplacedAt:              m.ReplacedAt,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

func toPaymentModel(p *domain.Payment) paymentModel {
	return paymentModel{
		ID:                      p.ID,
		BookingID:               p.BookingID,
		CustomerID:              p.CustomerID,
		Type:                    string(p.Type),
		Amount:                  p.Amount,
		ProofRef:                p.ProofRef,
		TransferDetails:         p.TransferDetails,
		Status:                  string(p.Status),
		VerifierID:              p.VerifierID,
		VerifiedAt:              p.VerifiedAt,
		VerificationNotes:       p.VerificationNotes,
		RejectionReason:         p.RejectionReason,
		PreviousRejectionReason: p.PreviousRejectionReason,
		ReplacedAt:              p.ReplacedAt,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	m := toPaymentModel(p)
	tx := conn(ctx, r.db).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainPayment(m)
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var m paymentModel
	tx := conn(ctx, r.db).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	m := toPaymentModel(p)
	tx := conn(ctx, r.db).Model(&paymentModel{ID: p.ID}).
		Select("status", "verifier_id", "verified_at", "verification_notes",
			"rejection_reason", "previous_rejection_reason", "replaced_at").
		Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindActiveByBooking returns the booking's payment in {pending, verified},
// or domain.ErrNotFound. At most one such payment exists at a time.
func (r *PaymentRepository) FindActiveByBooking(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	var m paymentModel
	tx := conn(ctx, r.db).
		Where("booking_id = ? AND status IN ?", bookingID,
			[]string{string(domain.PaymentStatePending), string(domain.PaymentStateVerified)}).
		First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

// GetLatestByBooking returns the most recent payment for the booking, or
// (nil, nil) when none has ever been submitted.
func (r *PaymentRepository) GetLatestByBooking(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	var m paymentModel
	tx := conn(ctx, r.db).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC, id DESC").
		First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

// MarkRejectedReplaced supersedes every rejected payment of the booking.
func (r *PaymentRepository) MarkRejectedReplaced(ctx context.Context, bookingID int64, now time.Time) error {
	return conn(ctx, r.db).Model(&paymentModel{}).
		Where("booking_id = ? AND status = ?", bookingID, string(domain.PaymentStateRejected)).
		Updates(map[string]any{
			"status":      string(domain.PaymentStateReplaced),
			"replaced_at": now,
		}).Error
}

func (r *PaymentRepository) FindPending(ctx context.Context) ([]domain.Payment, error) {
	var rows []paymentModel
	err := conn(ctx, r.db).
		Where("status = ?", string(domain.PaymentStatePending)).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPayment(m))
	}
	return out, nil
}

func (r *PaymentRepository) FindByCustomer(ctx context.Context, customerID int64) ([]domain.Payment, error) {
	var rows []paymentModel
	err := conn(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPayment(m))
	}
	return out, nil
}
