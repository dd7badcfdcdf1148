package config

import (
	"time"

	"github.com/arxeon/arxeon-api/internal/pkg/env"
)

// Config holds all startup configuration. It is built once in main and
// passed explicitly into every component constructor; components must not
// read the environment themselves.
type Config struct {
	AppHost string
	AppPort string

	FrontendURL string

	StripeSecretKey      string
	StripePublishableKey string
	StripeWebhookSecret  string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPSender   string

	OpenAIAPIKey string
	OpenAIModel  string

	CacheHost string
	CachePort string

	// ReportDeliveryDelay paces the second audit email after completion.
	ReportDeliveryDelay time.Duration

	GatewayTimeout time.Duration
	TextGenTimeout time.Duration
}

// Load reads configuration from the environment (after env.SetupEnvFile).
func Load() *Config {
	return &Config{
		AppHost: env.GetEnv("APP_HOST", "localhost"),
		AppPort: env.GetEnv("APP_PORT", "4000"),

		FrontendURL: env.GetEnv("FRONTEND_URL", "http://localhost:3000"),

		StripeSecretKey:      env.GetEnv("STRIPE_SECRET_KEY", ""),
		StripePublishableKey: env.GetEnv("STRIPE_PUBLISHABLE_KEY", ""),
		StripeWebhookSecret:  env.GetEnv("STRIPE_WEBHOOK_SECRET", ""),

		SMTPHost:     env.GetEnv("SMTP_HOST", ""),
		SMTPPort:     env.GetEnv("SMTP_PORT", "587"),
		SMTPUsername: env.GetEnv("SMTP_USERNAME", ""),
		SMTPPassword: env.GetEnv("SMTP_PASSWORD", ""),
		SMTPSender:   env.GetEnv("SMTP_SENDER", ""),

		OpenAIAPIKey: env.GetEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  env.GetEnv("OPENAI_MODEL", "gpt-4o-mini"),

		CacheHost: env.GetEnv("CACHE_HOST", "localhost"),
		CachePort: env.GetEnv("CACHE_PORT", "6379"),

		ReportDeliveryDelay: 5 * time.Minute,

		GatewayTimeout: 20 * time.Second,
		TextGenTimeout: 60 * time.Second,
	}
}
