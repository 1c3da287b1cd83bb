package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultGatewayBaseURL  = "https://api.razorpay.com/v1"
	defaultCurrency        = "INR"
	defaultGatewayTimeout  = "15s"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTAccessTTL    = "24h"
	defaultWebhookDedupTTL = "72h"
)

// PaymentRuntimeConfig carries the gateway credentials and webhook secret.
// Both secrets are injected explicitly into the payment service; nothing in
// the codebase reads them from ambient globals after startup.
type PaymentRuntimeConfig struct {
	KeyID           string
	KeySecret       string
	WebhookSecret   string
	GatewayBaseURL  string
	DefaultCurrency string
	GatewayTimeout  time.Duration
	WebhookDedupTTL time.Duration
}

func LoadPaymentRuntimeConfig() (*PaymentRuntimeConfig, error) {
	cfg := &PaymentRuntimeConfig{
		KeyID:           strings.TrimSpace(os.Getenv("RAZORPAY_KEY_ID")),
		KeySecret:       strings.TrimSpace(os.Getenv("RAZORPAY_KEY_SECRET")),
		WebhookSecret:   strings.TrimSpace(os.Getenv("RAZORPAY_WEBHOOK_SECRET")),
		GatewayBaseURL:  strings.TrimSpace(getEnv("GATEWAY_BASE_URL", defaultGatewayBaseURL)),
		DefaultCurrency: strings.TrimSpace(getEnv("DEFAULT_CURRENCY", defaultCurrency)),
	}

	var err error
	cfg.GatewayTimeout, err = parseDurationEnv("GATEWAY_TIMEOUT", defaultGatewayTimeout)
	if err != nil {
		return nil, err
	}
	cfg.WebhookDedupTTL, err = parseDurationEnv("WEBHOOK_DEDUP_TTL", defaultWebhookDedupTTL)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *PaymentRuntimeConfig) validate() error {
	if cfg.KeyID == "" {
		return fmt.Errorf("RAZORPAY_KEY_ID must be set")
	}
	if cfg.KeySecret == "" {
		return fmt.Errorf("RAZORPAY_KEY_SECRET must be set")
	}
	if cfg.WebhookSecret == "" {
		return fmt.Errorf("RAZORPAY_WEBHOOK_SECRET must be set")
	}
	// Conflating the two secrets would let a leaked webhook secret forge
	// synchronous payment confirmations.
	if cfg.WebhookSecret == cfg.KeySecret {
		return fmt.Errorf("RAZORPAY_WEBHOOK_SECRET must differ from RAZORPAY_KEY_SECRET")
	}
	if cfg.GatewayTimeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be > 0")
	}
	return nil
}

// AuthRuntimeConfig holds the token-signing settings for the API.
type AuthRuntimeConfig struct {
	AppEnv       string
	JWTSecret    string
	JWTAccessTTL time.Duration
}

func LoadAuthRuntimeConfig() (*AuthRuntimeConfig, error) {
	cfg := &AuthRuntimeConfig{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	if cfg.JWTAccessTTL <= 0 {
		return nil, fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}

	if isProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return cfg, nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func getEnv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(name, def string) (time.Duration, error) {
	raw := getEnv(name, def)
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", name, raw, err)
	}
	return d, nil
}
