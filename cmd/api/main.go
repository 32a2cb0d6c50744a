package main

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fieldbook/internal/cache"
	"fieldbook/internal/config"
	"fieldbook/internal/database"
	"fieldbook/internal/middleware"
	"fieldbook/internal/modules/availability"
	"fieldbook/internal/modules/booking"
	"fieldbook/internal/modules/payment"
	"fieldbook/internal/notification"
	jwtsvc "fieldbook/internal/pkg/jwt"
	"fieldbook/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	// Postgres schemas are managed by SQL migrations (including the
	// active-booking exclusion index); sqlite dev databases self-migrate.
	if !strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		if err := repository.AutoMigrate(db); err != nil {
			log.Fatal(err)
		}
	}

	logger := logrus.StandardLogger()

	fieldRepo := repository.NewFieldRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	txm := repository.NewTxManager(db)

	var bookingCache booking.CacheInvalidator = cache.Noop{}
	var paymentCache payment.CacheInvalidator = cache.Noop{}
	if cfg.RedisAddr != "" {
		inval := cache.NewInvalidator(cfg.RedisAddr, logger)
		defer inval.Close()
		bookingCache = inval
		paymentCache = inval
	}

	var bookingNotifs booking.NotificationSender
	var paymentNotifs payment.NotificationSender
	if cfg.RabbitURL != "" {
		pub, err := notification.NewPublisher(cfg.RabbitURL, logger)
		if err != nil {
			// Notifications are fire-and-forget; a broken broker must not
			// keep bookings from being served.
			logger.WithError(err).Warn("notification publisher unavailable, events disabled")
		} else {
			defer pub.Close()
			bookingNotifs = pub
			paymentNotifs = pub
		}
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	checker := availability.NewService(fieldRepo, bookingRepo, cfg.MinDurationHours, cfg.MaxDurationHours)
	bookingService := booking.NewService(
		bookingRepo, fieldRepo, paymentRepo, checker,
		bookingCache, bookingNotifs,
		cfg.PaymentWindow, cfg.CancelCutoff,
	)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(
		paymentRepo, bookingRepo, txm,
		paymentCache, paymentNotifs,
		cfg.DPAmount,
	)
	paymentHandler := payment.NewHandler(paymentService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
