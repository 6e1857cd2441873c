package authcore

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Environment names recognized by Config.Environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config carries everything the service needs. Load fills it from
// AUTHCORE_* environment variables; callers can also build it by hand.
type Config struct {
	Environment string `env:"AUTHCORE_ENV" envDefault:"development"`

	AppName         string `env:"AUTHCORE_APP_NAME" envDefault:"authcore"`
	FrontendBaseURL string `env:"AUTHCORE_FRONTEND_BASE_URL"`

	JWTSecret       string        `env:"AUTHCORE_JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"AUTHCORE_ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"AUTHCORE_REFRESH_TOKEN_TTL" envDefault:"168h"`
	ResetTokenTTL   time.Duration `env:"AUTHCORE_RESET_TOKEN_TTL" envDefault:"1h"`
	VerifyTokenTTL  time.Duration `env:"AUTHCORE_VERIFY_TOKEN_TTL" envDefault:"24h"`
	RequireVerified bool          `env:"AUTHCORE_REQUIRE_VERIFIED_EMAIL" envDefault:"true"`

	DatabaseDSN string `env:"AUTHCORE_DATABASE_DSN"`
	RedisAddr   string `env:"AUTHCORE_REDIS_ADDR"`

	MailProvider  string `env:"AUTHCORE_MAIL_PROVIDER" envDefault:"log"`
	MailFrom      string `env:"AUTHCORE_MAIL_FROM"`
	MailgunDomain string `env:"AUTHCORE_MAILGUN_DOMAIN"`
	MailgunAPIKey string `env:"AUTHCORE_MAILGUN_API_KEY"`
	SMTPHost      string `env:"AUTHCORE_SMTP_HOST"`
	SMTPPort      string `env:"AUTHCORE_SMTP_PORT" envDefault:"587"`
	SMTPUsername  string `env:"AUTHCORE_SMTP_USERNAME"`
	SMTPPassword  string `env:"AUTHCORE_SMTP_PASSWORD"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that cannot work. Outside development
// the JWT secret and frontend base URL must be set explicitly.
func (c Config) Validate() error {
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("%w: unknown environment %q", ErrValidation, c.Environment)
	}

	if c.Environment == EnvProduction {
		if c.JWTSecret == "" {
			return fmt.Errorf("%w: jwt secret required outside development", ErrValidation)
		}
		if c.FrontendBaseURL == "" {
			return fmt.Errorf("%w: frontend base url required outside development", ErrValidation)
		}
	}

	if c.FrontendBaseURL != "" {
		u, err := url.Parse(c.FrontendBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: frontend base url must be absolute", ErrValidation)
		}
	}

	for name, ttl := range map[string]time.Duration{
		"access token ttl":       c.AccessTokenTTL,
		"refresh token ttl":      c.RefreshTokenTTL,
		"reset token ttl":        c.ResetTokenTTL,
		"verification token ttl": c.VerifyTokenTTL,
	} {
		if ttl <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrValidation, name)
		}
	}
	if c.RefreshTokenTTL < c.AccessTokenTTL {
		return fmt.Errorf("%w: refresh token ttl shorter than access token ttl", ErrValidation)
	}

	return nil
}

// ResetURL builds the frontend link a reset token is delivered in.
func (c Config) ResetURL(token string) string {
	return c.frontendURL("/reset-password", token)
}

// VerifyURL builds the frontend link a verification token is delivered in.
func (c Config) VerifyURL(token string) string {
	return c.frontendURL("/verify-email", token)
}

func (c Config) frontendURL(path, token string) string {
	base := c.FrontendBaseURL
	if base == "" {
		base = "http://localhost:3000"
	}
	return base + path + "?token=" + url.QueryEscape(token)
}
