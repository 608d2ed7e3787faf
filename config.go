package session

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig is the concrete Config used by cmd/sessiond, loaded from the
// environment.
type AppConfig struct {
	SigningKey      string
	TokenExpiration int
	Issuer          string
	Audience        []string
	ListenAddr      string
	DatabaseDSN     string
	AllowedOrigin   string
}

var _ Config = (*AppConfig)(nil)

// LoadConfig reads configuration from environment variables with
// development fallbacks where a default is safe.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		SigningKey:      os.Getenv("SESSION_SIGNING_KEY"),
		TokenExpiration: 72,
		Issuer:          getEnv("SESSION_ISSUER", "go-session"),
		ListenAddr:      getEnv("SESSION_ADDR", ":3000"),
		DatabaseDSN:     getEnv("SESSION_DB_DSN", "file:sessiond.db?cache=shared"),
		AllowedOrigin:   getEnv("SESSION_ALLOWED_ORIGIN", "http://localhost:5173"),
	}

	if aud := os.Getenv("SESSION_AUDIENCE"); aud != "" {
		cfg.Audience = strings.Split(aud, ",")
	}

	if raw := os.Getenv("SESSION_TOKEN_EXPIRATION_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("SESSION_TOKEN_EXPIRATION_HOURS must be an integer: %w", err)
		}
		cfg.TokenExpiration = hours
	}

	if cfg.SigningKey == "" {
		return nil, fmt.Errorf("SESSION_SIGNING_KEY is required")
	}

	return cfg, nil
}

func (c *AppConfig) GetSigningKey() string   { return c.SigningKey }
func (c *AppConfig) GetTokenExpiration() int { return c.TokenExpiration }
func (c *AppConfig) GetIssuer() string       { return c.Issuer }
func (c *AppConfig) GetAudience() []string   { return c.Audience }

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
