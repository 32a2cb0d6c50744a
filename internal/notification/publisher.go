package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fieldbook/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	ExchangeName = "fieldbook.events"
	ExchangeKind = "topic"
)

// Publisher fans booking lifecycle events out over RabbitMQ. Downstream
// consumers (SMS, push, back-office) live outside this service. Callers treat
// every publish as fire-and-forget.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *logrus.Logger
}

func NewPublisher(url string, log *logrus.Logger) (*Publisher, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, ExchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	return &Publisher{conn: conn, channel: ch, log: log}, nil
}

type bookingEvent struct {
	BookingID  int64     `json:"booking_id"`
	CustomerID int64     `json:"customer_id"`
	FieldID    int64     `json:"field_id"`
	Date       string    `json:"date"`
	StartHour  int       `json:"start_hour"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type paymentEvent struct {
	PaymentID  int64     `json:"payment_id"`
	BookingID  int64     `json:"booking_id"`
	CustomerID int64     `json:"customer_id"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (p *Publisher) NotifyBookingCreated(ctx context.Context, b *domain.Booking) error {
	return p.publish(ctx, "booking.created", newBookingEvent(b))
}

func (p *Publisher) NotifyBookingConfirmed(ctx context.Context, b *domain.Booking) error {
	return p.publish(ctx, "booking.confirmed", newBookingEvent(b))
}

func (p *Publisher) NotifyBookingCancelled(ctx context.Context, b *domain.Booking) error {
	return p.publish(ctx, "booking.cancelled", newBookingEvent(b))
}

func (p *Publisher) NotifyPreparationReminder(ctx context.Context, b *domain.Booking) error {
	return p.publish(ctx, "booking.reminder", newBookingEvent(b))
}

func (p *Publisher) NotifyPaymentRejected(ctx context.Context, pay *domain.Payment) error {
	return p.publish(ctx, "payment.rejected", paymentEvent{
		PaymentID:  pay.ID,
		BookingID:  pay.BookingID,
		CustomerID: pay.CustomerID,
		Status:     string(pay.Status),
		Reason:     pay.RejectionReason,
		OccurredAt: time.Now().UTC(),
	})
}

func newBookingEvent(b *domain.Booking) bookingEvent {
	return bookingEvent{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		FieldID:    b.FieldID,
		Date:       b.Date.Format("2006-01-02"),
		StartHour:  b.StartHour,
		Status:     string(b.Status),
		OccurredAt: time.Now().UTC(),
	}
}

func (p *Publisher) publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	if err := p.channel.PublishWithContext(
		ctx,
		ExchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		p.log.WithError(err).WithField("routing_key", routingKey).Warn("event publish failed")
		return fmt.Errorf("publish message: %w", err)
	}

	return nil
}

func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
