package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort          = "8080"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTTTL        = "24h"
	defaultDPAmount      = "50000"
	defaultPaymentWindow = "1h"
	defaultCancelCutoff  = "24h"
	defaultMinDuration   = "1"
	defaultMaxDuration   = "12"
	defaultReminderLead  = "1h"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisAddr   string
	RabbitURL   string

	JWTSecret string
	JWTTTL    time.Duration

	// DPAmount is the fixed down-payment amount a dp submission must match
	// exactly.
	DPAmount float64

	// PaymentWindow is how long a fresh booking may stay unpaid before the
	// expiry sweep claims it.
	PaymentWindow time.Duration

	// CancelCutoff is the minimum time before kick-off at which a confirmed
	// booking may still be cancelled.
	CancelCutoff time.Duration

	MinDurationHours int
	MaxDurationHours int

	// ReminderLead is how far ahead of kick-off the preparation reminder
	// sweep looks.
	ReminderLead time.Duration
}

func Load() (*Config, error) {
	// Missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:      strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", "dev"))),
		Port:        getEnv("PORT", defaultPort),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RabbitURL:   os.Getenv("RABBITMQ_URL"),
		JWTSecret:   strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.DPAmount, err = parseFloatEnv("DP_AMOUNT", defaultDPAmount); err != nil {
		return nil, err
	}
	if cfg.PaymentWindow, err = parseDurationEnv("PAYMENT_WINDOW", defaultPaymentWindow); err != nil {
		return nil, err
	}
	if cfg.CancelCutoff, err = parseDurationEnv("CANCEL_CUTOFF", defaultCancelCutoff); err != nil {
		return nil, err
	}
	if cfg.MinDurationHours, err = parseIntEnv("MIN_DURATION_HOURS", defaultMinDuration); err != nil {
		return nil, err
	}
	if cfg.MaxDurationHours, err = parseIntEnv("MAX_DURATION_HOURS", defaultMaxDuration); err != nil {
		return nil, err
	}
	if cfg.ReminderLead, err = parseDurationEnv("REMINDER_LEAD", defaultReminderLead); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DPAmount <= 0 {
		return fmt.Errorf("DP_AMOUNT must be > 0")
	}
	if cfg.PaymentWindow <= 0 {
		return fmt.Errorf("PAYMENT_WINDOW must be > 0")
	}
	if cfg.CancelCutoff <= 0 {
		return fmt.Errorf("CANCEL_CUTOFF must be > 0")
	}
	if cfg.MinDurationHours < 1 || cfg.MaxDurationHours < cfg.MinDurationHours {
		return fmt.Errorf("duration bounds are inconsistent: min=%d max=%d", cfg.MinDurationHours, cfg.MaxDurationHours)
	}
	if isProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseFloatEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
