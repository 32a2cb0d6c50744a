package main

import (
	"context"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	"fieldbook/internal/cache"
	"fieldbook/internal/config"
	"fieldbook/internal/database"
	"fieldbook/internal/modules/availability"
	"fieldbook/internal/modules/booking"
	"fieldbook/internal/notification"
	"fieldbook/internal/repository"
)

// The sweeper is invoked by cron. It expires unpaid bookings whose payment
// deadline has passed and dispatches preparation reminders for bookings
// kicking off soon. Scheduling stays out of the core services on purpose.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	logger := logrus.StandardLogger()

	fieldRepo := repository.NewFieldRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	var inval booking.CacheInvalidator = cache.Noop{}
	if cfg.RedisAddr != "" {
		c := cache.NewInvalidator(cfg.RedisAddr, logger)
		defer c.Close()
		inval = c
	}

	var pub *notification.Publisher
	if cfg.RabbitURL != "" {
		pub, err = notification.NewPublisher(cfg.RabbitURL, logger)
		if err != nil {
			logger.WithError(err).Warn("notification publisher unavailable, reminders will only be logged")
			pub = nil
		} else {
			defer pub.Close()
		}
	}

	checker := availability.NewService(fieldRepo, bookingRepo, cfg.MinDurationHours, cfg.MaxDurationHours)
	svc := booking.NewService(
		bookingRepo, fieldRepo, paymentRepo, checker,
		inval, nil,
		cfg.PaymentWindow, cfg.CancelCutoff,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()

	swept, err := svc.SweepExpiredBookings(ctx, now)
	if err != nil {
		logger.WithError(err).Fatal("expiry sweep failed")
	}

	reminders, err := svc.CollectPreparationReminders(ctx, now, cfg.ReminderLead)
	if err != nil {
		logger.WithError(err).Fatal("reminder collection failed")
	}

	sent := 0
	for i := range reminders {
		b := &reminders[i]
		if pub != nil {
			if err := pub.NotifyPreparationReminder(ctx, b); err != nil {
				continue
			}
		}
		sent++
	}

	logger.WithFields(logrus.Fields{
		"expired":   swept,
		"reminders": len(reminders),
		"sent":      sent,
	}).Info("sweep completed")
}
