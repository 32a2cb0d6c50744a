package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fieldbook/internal/domain"
)

const minRejectionReasonLen = 5

// SubmitInput is a customer's proof-of-transfer submission.
type SubmitInput struct {
	BookingID       int64
	CustomerID      int64
	Type            domain.PaymentType
	Amount          float64
	ProofRef        string
	TransferDetails string
}

type Service struct {
	payments PaymentRepository
	bookings BookingStore
	tx       TxRunner
	cache    CacheInvalidator
	notifs   NotificationSender

	dpAmount float64
}

func NewService(
	payments PaymentRepository,
	bookings BookingStore,
	tx TxRunner,
	cache CacheInvalidator,
	notifs NotificationSender,
	dpAmount float64,
) *Service {
	return &Service{
		payments: payments,
		bookings: bookings,
		tx:       tx,
		cache:    cache,
		notifs:   notifs,
		dpAmount: dpAmount,
	}
}

// Submit records a payment for a pending booking. The amount must match
// exactly: the configured DP amount for dp, the booking price for full. Any
// previously rejected payments are superseded to "replaced" in the same
// write, and the booking moves to pending_verification.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*domain.Payment, error) {
	if !in.Type.Valid() {
		return nil, domain.Validationf("unknown payment type %q", in.Type)
	}
	if strings.TrimSpace(in.ProofRef) == "" {
		return nil, domain.Validationf("payment proof is required")
	}

	b, err := s.bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != in.CustomerID {
		return nil, domain.ErrForbidden
	}
	if b.Status != domain.BookingPending {
		return nil, domain.Statef("booking %d is %s, payments are only accepted while pending", b.ID, b.Status)
	}

	switch in.Type {
	case domain.PaymentTypeDP:
		if in.Amount != s.dpAmount {
			return nil, domain.Validationf("dp amount must be exactly %.0f, got %.0f", s.dpAmount, in.Amount)
		}
	case domain.PaymentTypeFull:
		if in.Amount != b.Price {
			return nil, domain.Validationf("full payment must be exactly %.0f, got %.0f", b.Price, in.Amount)
		}
	}

	active, err := s.payments.FindActiveByBooking(ctx, b.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if active != nil {
		return nil, &domain.ConflictError{
			Msg:       fmt.Sprintf("booking %d already has a payment under verification", b.ID),
			BookingID: b.ID,
		}
	}

	now := time.Now().UTC()
	p := &domain.Payment{
		BookingID:       b.ID,
		CustomerID:      in.CustomerID,
		Type:            in.Type,
		Amount:          in.Amount,
		ProofRef:        in.ProofRef,
		TransferDetails: in.TransferDetails,
		Status:          domain.PaymentStatePending,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.payments.MarkRejectedReplaced(ctx, b.ID, now); err != nil {
			return err
		}
		if err := s.payments.Create(ctx, p); err != nil {
			return err
		}
		b.PaymentStatus = domain.PaymentPendingVerification
		return s.bookings.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, bookingKey(b.ID), pendingPaymentsKey)
	return p, nil
}

// Approve verifies a payment and confirms its booking in one transaction.
// A previously rejected payment may be approved; its old reason moves to
// PreviousRejectionReason. The payment and booking writes commit together or
// not at all.
func (s *Service) Approve(ctx context.Context, paymentID, verifierID int64, notes string) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PaymentStatePending && p.Status != domain.PaymentStateRejected {
		return nil, domain.Statef("payment %d is %s and cannot be approved", p.ID, p.Status)
	}

	b, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(domain.BookingConfirmed) {
		return nil, domain.Statef("booking %d is %s and cannot be confirmed", b.ID, b.Status)
	}

	now := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if p.Status == domain.PaymentStateRejected {
			p.PreviousRejectionReason = p.RejectionReason
		}
		p.Status = domain.PaymentStateVerified
		p.VerifierID = &verifierID
		p.VerifiedAt = &now
		p.VerificationNotes = notes
		p.RejectionReason = ""
		if err := s.payments.Update(ctx, p); err != nil {
			return err
		}

		b.Status = domain.BookingConfirmed
		if p.Type == domain.PaymentTypeFull {
			b.PaymentStatus = domain.PaymentFullyPaid
		} else {
			b.PaymentStatus = domain.PaymentDPConfirmed
		}
		b.CashierID = &verifierID
		b.ConfirmedAt = &now
		return s.bookings.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, bookingKey(b.ID), pendingPaymentsKey)
	if s.notifs != nil {
		_ = s.notifs.NotifyBookingConfirmed(ctx, b)
	}
	return p, nil
}

// Reject refuses a pending payment and resets its booking to
// {pending, no_payment}, clearing cashier and confirmation stamps. The reset
// is the same regardless of how many times the booking has been through a
// reject/resubmit cycle.
func (s *Service) Reject(ctx context.Context, paymentID, verifierID int64, reason string) (*domain.Payment, error) {
	if len(strings.TrimSpace(reason)) < minRejectionReasonLen {
		return nil, domain.Validationf("rejection reason must be at least %d characters", minRejectionReasonLen)
	}

	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PaymentStatePending {
		return nil, domain.Statef("payment %d is %s, only pending payments can be rejected", p.ID, p.Status)
	}

	b, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		p.Status = domain.PaymentStateRejected
		p.RejectionReason = reason
		p.VerifierID = &verifierID
		p.VerifiedAt = &now
		if err := s.payments.Update(ctx, p); err != nil {
			return err
		}

		b.Status = domain.BookingPending
		b.PaymentStatus = domain.PaymentNone
		b.CashierID = nil
		b.ConfirmedAt = nil
		return s.bookings.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, bookingKey(b.ID), pendingPaymentsKey)
	if s.notifs != nil {
		_ = s.notifs.NotifyPaymentRejected(ctx, p)
	}
	return p, nil
}

// GetPendingPayments lists the cashier's verification queue.
func (s *Service) GetPendingPayments(ctx context.Context) ([]domain.Payment, error) {
	return s.payments.FindPending(ctx)
}

func (s *Service) GetUserPayments(ctx context.Context, customerID int64) ([]domain.Payment, error) {
	return s.payments.FindByCustomer(ctx, customerID)
}

// GetPaymentByID returns a payment to its owner or to any cashier.
func (s *Service) GetPaymentByID(ctx context.Context, id, requesterID int64, role string) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleCashier && p.CustomerID != requesterID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, keys...)
	}
}

const pendingPaymentsKey = "payments:pending"

func bookingKey(id int64) string {
	return fmt.Sprintf("booking:%d", id)
}
