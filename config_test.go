package authcore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Environment:     EnvProduction,
		AppName:         "Acme",
		FrontendBaseURL: "https://app.example.com",
		JWTSecret:       "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		ResetTokenTTL:   time.Hour,
		VerifyTokenTTL:  24 * time.Hour,
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid production", func(c *Config) {}, true},
		{"development needs no secret", func(c *Config) {
			c.Environment = EnvDevelopment
			c.JWTSecret = ""
			c.FrontendBaseURL = ""
		}, true},
		{"unknown environment", func(c *Config) { c.Environment = "staging" }, false},
		{"production without secret", func(c *Config) { c.JWTSecret = "" }, false},
		{"production without frontend url", func(c *Config) { c.FrontendBaseURL = "" }, false},
		{"relative frontend url", func(c *Config) { c.FrontendBaseURL = "/app" }, false},
		{"zero access ttl", func(c *Config) { c.AccessTokenTTL = 0 }, false},
		{"zero reset ttl", func(c *Config) { c.ResetTokenTTL = 0 }, false},
		{"refresh shorter than access", func(c *Config) {
			c.RefreshTokenTTL = time.Minute
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrValidation), "want ErrValidation, got %v", err)
			}
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("AUTHCORE_ENV", "production")
	t.Setenv("AUTHCORE_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("AUTHCORE_FRONTEND_BASE_URL", "https://app.example.com")
	t.Setenv("AUTHCORE_ACCESS_TOKEN_TTL", "10m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.Equal(t, 10*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.VerifyTokenTTL)
	assert.True(t, cfg.RequireVerified)
	assert.Equal(t, "log", cfg.MailProvider)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("AUTHCORE_ENV", "production")
	t.Setenv("AUTHCORE_JWT_SECRET", "")
	t.Setenv("AUTHCORE_FRONTEND_BASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestFrontendURLs(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, "https://app.example.com/reset-password?token=ab%2Fcd", cfg.ResetURL("ab/cd"))
	assert.Equal(t, "https://app.example.com/verify-email?token=tok", cfg.VerifyURL("tok"))

	cfg.FrontendBaseURL = ""
	assert.Equal(t, "http://localhost:3000/verify-email?token=tok", cfg.VerifyURL("tok"))
}
