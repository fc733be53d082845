package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config gathers every env-driven knob so that nothing downstream reads the
// environment directly.
type Config struct {
	Host string
	Port string

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBAutoMigrate bool

	// Pricing peg: points are sold at UnitSellCents per point and settled to
	// clubs at UnitSettleCents per point.
	UnitSellCents   int64
	UnitSettleCents int64
	PlatformFeeBps  int64

	WebhookSecret    string
	WebhookTolerance time.Duration

	AdminKey string

	ProviderBaseURL string
	ProviderAPIKey  string
	ProviderTimeout time.Duration

	RefundSweepEnabled  bool
	RefundSweepInterval time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Host: envString("HOST", "127.0.0.1"),
		Port: envString("PORT", "3000"),

		DBHost:        envString("DB_HOST", "127.0.0.1"),
		DBPort:        envString("DB_PORT", "5432"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBSSLMode:     envString("DB_SSLMODE", "disable"),
		DBAutoMigrate: envBool("DB_AUTO_MIGRATE", false),

		UnitSellCents:   envInt64("UNIT_SELL_CENTS", 1),
		UnitSettleCents: envInt64("UNIT_SETTLE_CENTS", 1),
		PlatformFeeBps:  envInt64("PLATFORM_FEE_BPS", 500),

		WebhookSecret:    os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		WebhookTolerance: envDuration("PAYMENT_WEBHOOK_TOLERANCE", 5*time.Minute),

		AdminKey: os.Getenv("ADMIN_API_KEY"),

		ProviderBaseURL: envString("PAYMENT_API_URL", "https://api.payments.example.com"),
		ProviderAPIKey:  os.Getenv("PAYMENT_API_KEY"),
		ProviderTimeout: envDuration("PAYMENT_API_TIMEOUT", 10*time.Second),

		RefundSweepEnabled:  envBool("REFUND_SWEEP_ENABLED", false),
		RefundSweepInterval: envDuration("REFUND_SWEEP_INTERVAL", 5*time.Minute),
	}

	if cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("PAYMENT_WEBHOOK_SECRET is required")
	}
	if cfg.AdminKey == "" {
		return nil, fmt.Errorf("ADMIN_API_KEY is required")
	}
	if cfg.UnitSellCents <= 0 || cfg.UnitSettleCents <= 0 {
		return nil, fmt.Errorf("pricing peg must be positive")
	}
	if cfg.PlatformFeeBps < 0 || cfg.PlatformFeeBps > 10000 {
		return nil, fmt.Errorf("PLATFORM_FEE_BPS must be within 0..10000")
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
