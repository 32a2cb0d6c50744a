package status

import (
	"math"
	"time"

	"fieldbook/internal/domain"
)

// Milestone labels, in timeline order.
const (
	MilestoneCreated         = "created"
	MilestonePaymentUploaded = "payment_uploaded"
	MilestonePaymentVerified = "payment_verified"
	MilestoneConfirmed       = "booking_confirmed"
)

// Next actions derived from booking + latest payment state.
const (
	ActionNone             = "none"
	ActionUploadPayment    = "upload_payment"
	ActionWaitVerification = "wait_verification"
	ActionReuploadPayment  = "reupload_payment"
	ActionWait             = "wait"
)

type Milestone struct {
	Label       string     `json:"label"`
	Completed   bool       `json:"completed"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	Description string     `json:"description"`
}

type Progress struct {
	CompletedSteps       int    `json:"completed_steps"`
	TotalSteps           int    `json:"total_steps"`
	CompletionPercentage int    `json:"completion_percentage"`
	NextAction           string `json:"next_action"`
}

type View struct {
	BookingID     int64                  `json:"booking_id"`
	BookingStatus domain.BookingStatus   `json:"booking_status"`
	PaymentStatus domain.PaymentProgress `json:"payment_status"`
	Timeline      []Milestone            `json:"timeline"`
	Progress      Progress               `json:"progress"`
}

// Project derives the progress view for a booking from its current state and
// its latest payment (nil when none was ever submitted). It is a pure
// function, recomputed on every read and never persisted.
func Project(b *domain.Booking, latest *domain.Payment) View {
	created := b.CreatedAt
	timeline := []Milestone{
		{
			Label:       MilestoneCreated,
			Completed:   true,
			Timestamp:   &created,
			Description: "Booking created",
		},
		{
			Label:       MilestonePaymentUploaded,
			Completed:   latest != nil,
			Description: "Payment proof uploaded",
		},
		{
			Label:       MilestonePaymentVerified,
			Completed:   latest != nil && latest.Status == domain.PaymentStateVerified,
			Description: "Payment verified by cashier",
		},
		{
			Label:       MilestoneConfirmed,
			Completed:   b.Status == domain.BookingConfirmed,
			Description: "Booking confirmed",
		},
	}

	if latest != nil {
		uploadedAt := latest.CreatedAt
		timeline[1].Timestamp = &uploadedAt
		if timeline[2].Completed {
			timeline[2].Timestamp = latest.VerifiedAt
		}
	}
	if timeline[3].Completed {
		timeline[3].Timestamp = b.ConfirmedAt
	}

	completed := 0
	for _, m := range timeline {
		if m.Completed {
			completed++
		}
	}

	return View{
		BookingID:     b.ID,
		BookingStatus: b.Status,
		PaymentStatus: b.PaymentStatus,
		Timeline:      timeline,
		Progress: Progress{
			CompletedSteps:       completed,
			TotalSteps:           len(timeline),
			CompletionPercentage: int(math.Round(100 * float64(completed) / float64(len(timeline)))),
			NextAction:           nextAction(b, latest),
		},
	}
}

func nextAction(b *domain.Booking, latest *domain.Payment) string {
	switch {
	case b.Status == domain.BookingCancelled:
		return ActionNone
	case b.Status == domain.BookingConfirmed:
		return ActionNone
	case latest == nil:
		return ActionUploadPayment
	case latest.Status == domain.PaymentStatePending:
		return ActionWaitVerification
	case latest.Status == domain.PaymentStateRejected:
		return ActionReuploadPayment
	default:
		return ActionWait
	}
}
