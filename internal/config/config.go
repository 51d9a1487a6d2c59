package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters, loaded from the
// environment.
type Config struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	DatabasePath      string        `env:"DATABASE_PATH" envDefault:"regdesk.db"`
	ConnectRetryDelay time.Duration `env:"DB_CONNECT_RETRY_DELAY" envDefault:"5s"`
	Production        bool          `env:"PRODUCTION" envDefault:"false"`
	AccessLogPath     string        `env:"ACCESS_LOG_PATH" envDefault:"access.log"`

	Admin   Admin   `envPrefix:"ADMIN_"`
	Session Session `envPrefix:"SESSION_"`
	Email   Email   `envPrefix:"EMAIL_API_"`
}

// Admin holds the single shared admin credential.
type Admin struct {
	Username string `env:"USERNAME,notEmpty"`
	Password string `env:"PASSWORD,notEmpty"`
	// BcryptCost controls the cost of the startup hash of Password.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`
}

// Session holds session cookie parameters. The cookie's Secure attribute
// follows the Production flag.
type Session struct {
	Secret string        `env:"SECRET,notEmpty"`
	MaxAge time.Duration `env:"MAX_AGE" envDefault:"24h"`
}

// Email holds parameters for the external deliverability service.
type Email struct {
	URL string `env:"URL" envDefault:"https://emailvalidation.abstractapi.com/v1/"`
	Key string `env:"KEY"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Session.Secret) < 32 {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if cfg.Admin.BcryptCost < 4 || cfg.Admin.BcryptCost > 14 {
		return nil, fmt.Errorf("ADMIN_BCRYPT_COST must be between 4 and 14, got %d", cfg.Admin.BcryptCost)
	}
	return &cfg, nil
}
