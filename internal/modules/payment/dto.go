package payment

// TransferDetails is opaque to the state machine; it is persisted with the
// payment for the cashier's eyes only.
type TransferDetails struct {
	BankName      string `json:"bank_name" validate:"required"`
	AccountName   string `json:"account_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	TransferredAt string `json:"transferred_at,omitempty"`
}

type SubmitPaymentRequest struct {
	BookingID int64            `json:"booking_id" binding:"required"`
	Type      string           `json:"type" binding:"required,oneof=full dp"`
	Amount    float64          `json:"amount" binding:"required,gt=0"`
	ProofRef  string           `json:"proof_ref" binding:"required"`
	Transfer  *TransferDetails `json:"transfer_details"`
}

type ApprovePaymentRequest struct {
	Notes string `json:"notes"`
}

type RejectPaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}
