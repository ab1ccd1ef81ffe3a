// Package config handles server configuration: defaults, environment
// overlay, and command-line flags. Business logic never reads the
// environment directly; everything flows through the Config struct built
// once at startup.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// Storage driver names accepted by Config.StorageDriver.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Config holds runtime settings for the auth server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - Env: deployment environment ("development" or "production");
//     production turns on the Secure cookie flag.
//   - StorageDriver: account store backend, "sqlite" or "bolt".
//   - DatabasePath: database file path (":memory:" works for sqlite).
//   - JWTSecret: HMAC secret for signing session tokens (HS256).
//   - SessionTTL: session token and cookie lifetime.
//   - VerificationTTL: email verification code lifetime.
//   - ResetTTL: password reset token lifetime.
//   - AppURL: public base URL used to build reset links.
//   - MailEndpoint / MailToken: transactional mail API settings.
//   - MailSenderEmail / MailSenderName: From address of outbound mail.
type Config struct {
	Addr            string
	Env             string
	StorageDriver   string
	DatabasePath    string
	JWTSecret       string
	SessionTTL      time.Duration
	VerificationTTL time.Duration
	ResetTTL        time.Duration
	AppURL          string
	MailEndpoint    string
	MailToken       string
	MailSenderEmail string
	MailSenderName  string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the JWT secret default is insecure and must be overridden in
// production.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.Env = "development"
	c.StorageDriver = DriverSQLite
	c.DatabasePath = "authd.db"
	c.JWTSecret = "dev-secret"
	c.SessionTTL = 7 * 24 * time.Hour
	c.VerificationTTL = 24 * time.Hour
	c.ResetTTL = 30 * time.Minute
	c.AppURL = "http://localhost:3000"
	c.MailEndpoint = "https://send.api.mailtrap.io/api/send"
	c.MailSenderEmail = "hello@example.com"
	c.MailSenderName = "Authd"
}

// loadEnv overlays values from the environment.
func (c *Config) loadEnv() {
	env := map[string]*string{
		"AUTHD_ADDR":              &c.Addr,
		"AUTHD_ENV":               &c.Env,
		"AUTHD_STORAGE_DRIVER":    &c.StorageDriver,
		"AUTHD_DATABASE_PATH":     &c.DatabasePath,
		"AUTHD_JWT_SECRET":        &c.JWTSecret,
		"AUTHD_APP_URL":           &c.AppURL,
		"AUTHD_MAIL_ENDPOINT":     &c.MailEndpoint,
		"AUTHD_MAIL_TOKEN":        &c.MailToken,
		"AUTHD_MAIL_SENDER_EMAIL": &c.MailSenderEmail,
		"AUTHD_MAIL_SENDER_NAME":  &c.MailSenderName,
	}

	for name, target := range env {
		if v := os.Getenv(name); v != "" {
			*target = v
		}
	}
}

// parseFlags overlays values from command-line flags.
func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("authd", flag.ContinueOnError)

	fs.StringVar(&c.Addr, "addr", c.Addr, "address and port to listen on")
	fs.StringVar(&c.Env, "env", c.Env, "deployment environment (development|production)")
	fs.StringVar(&c.StorageDriver, "storage", c.StorageDriver, "storage driver (sqlite|bolt)")
	fs.StringVar(&c.DatabasePath, "db", c.DatabasePath, "database file path")
	fs.StringVar(&c.JWTSecret, "jwt-secret", c.JWTSecret, "JWT signing secret")
	fs.StringVar(&c.AppURL, "app-url", c.AppURL, "public base URL for reset links")
	fs.DurationVar(&c.SessionTTL, "session-ttl", c.SessionTTL, "session token lifetime")

	return fs.Parse(args)
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret must not be empty")
	}

	if c.StorageDriver != DriverSQLite && c.StorageDriver != DriverBolt {
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	if c.SessionTTL <= 0 || c.VerificationTTL <= 0 || c.ResetTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load builds a Config by applying defaults, then the environment, then
// command-line flags.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.loadEnv()

	if err := cfg.parseFlags(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
