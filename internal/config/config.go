package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv          string        `env:"APP_ENV" envDefault:"development"`
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	SupabaseURL            string `env:"SUPABASE_URL,required,notEmpty"`
	SupabaseServiceRoleKey string `env:"SUPABASE_SERVICE_ROLE_KEY,required,notEmpty"`
	SupabaseJWTSecret      string `env:"SUPABASE_JWT_SECRET,required,notEmpty"`

	StripeSecretKey     string `env:"STRIPE_SECRET_KEY,required,notEmpty"`
	StripeURL           string `env:"STRIPE_URL" envDefault:"https://api.stripe.com"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	BillingReturnURL    string `env:"BILLING_RETURN_URL"`

	AdminBootstrapEmail string `env:"ADMIN_BOOTSTRAP_EMAIL"`
	AdminNotifyEmail    string `env:"ADMIN_NOTIFY_EMAIL"`
	AdminReviewURL      string `env:"ADMIN_REVIEW_URL"`

	RabbitMQURL string `env:"RABBITMQ_URL"`
	RedisURL    string `env:"REDIS_URL"`

	MailHost string `env:"MAIL_HOST"`
	MailPort int    `env:"MAIL_PORT" envDefault:"587"`
	MailUser string `env:"MAIL_USER"`
	MailPass string `env:"MAIL_PASS"`
	MailFrom string `env:"MAIL_FROM"`

	CORSAllowedOrigins    []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AvailabilityRateLimit int      `env:"AVAILABILITY_RATE_LIMIT" envDefault:"30"`
	FollowupDefaultDays   int      `env:"FOLLOWUP_DEFAULT_DAYS" envDefault:"7"`
}

// Load reads an optional .env file and then the process environment.
// Missing required variables fail here, before any connection is opened.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports false only for an explicit development environment.
func (c Config) IsProduction() bool {
	return !strings.EqualFold(c.AppEnv, "development")
}

func (c Config) MailEnabled() bool {
	return c.MailHost != "" && c.AdminNotifyEmail != ""
}

func (c Config) validate() error {
	var errs []error
	if c.MailPort <= 0 {
		errs = append(errs, errors.New("MAIL_PORT must be positive"))
	}
	if c.FollowupDefaultDays < 0 || c.FollowupDefaultDays > 365 {
		errs = append(errs, errors.New("FOLLOWUP_DEFAULT_DAYS must be between 0 and 365"))
	}
	if c.AvailabilityRateLimit < 0 {
		errs = append(errs, errors.New("AVAILABILITY_RATE_LIMIT must not be negative"))
	}
	if c.RequestTimeout <= 0 || c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	return errors.Join(errs...)
}
