package domain

import "time"

type PaymentType string

const (
	PaymentTypeFull PaymentType = "full"
	PaymentTypeDP   PaymentType = "dp"
)

func (t PaymentType) Valid() bool {
	return t == PaymentTypeFull || t == PaymentTypeDP
}

type PaymentState string

const (
	PaymentStatePending  PaymentState = "pending"
	PaymentStateVerified PaymentState = "verified"
	PaymentStateRejected PaymentState = "rejected"
	PaymentStateReplaced PaymentState = "replaced"
)

// IsActive reports whether the payment still occupies the booking's single
// active-payment slot.
func (s PaymentState) IsActive() bool {
	return s == PaymentStatePending || s == PaymentStateVerified
}

// Payment is a customer's proof-of-transfer submission for a booking.
// Payments are never deleted; a rejected one is superseded via "replaced".
type Payment struct {
	ID                      int64        `json:"id"`
	BookingID               int64        `json:"booking_id"`
	CustomerID              int64        `json:"customer_id"`
	Type                    PaymentType  `json:"type"`
	Amount                  float64      `json:"amount"`
	ProofRef                string       `json:"proof_ref"`
	TransferDetails         string       `json:"transfer_details,omitempty"`
	Status                  PaymentState `json:"status"`
	VerifierID              *int64       `json:"verifier_id,omitempty"`
	VerifiedAt              *time.Time   `json:"verified_at,omitempty"`
	VerificationNotes       string       `json:"verification_notes,omitempty"`
	RejectionReason         string       `json:"rejection_reason,omitempty"`
	PreviousRejectionReason string       `json:"previous_rejection_reason,omitempty"`
	ReplacedAt              *time.Time   `json:"replaced_at,omitempty"`
	CreatedAt               time.Time    `json:"created_at"`
	UpdatedAt               time.Time    `json:"updated_at"`
}
