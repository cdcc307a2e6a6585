package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port               string        `env:"PORT"                 envDefault:"3000"`
	DBDriver           string        `env:"DB_DRIVER"            envDefault:"sqlite"`
	DBDSN              string        `env:"DATABASE_URL"         envDefault:"marto.db"`
	JWTSecret          string        `env:"JWT_SECRET"`
	TokenTTL           time.Duration `env:"JWT_TTL"              envDefault:"168h"`
	BcryptCost         int           `env:"BCRYPT_COST"          envDefault:"10"`
	CORSOrigins        string        `env:"CORS_ORIGINS"         envDefault:"*"`
	LoginRateLimit     int           `env:"LOGIN_RATE_LIMIT"     envDefault:"10"`
	BodyLimit          int           `env:"BODY_LIMIT"           envDefault:"1048576"`
	LogFile            string        `env:"LOG_FILE"`
	ExposeErrorDetails bool          `env:"EXPOSE_ERROR_DETAILS" envDefault:"false"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT"      envDefault:"15s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT"     envDefault:"10s"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or mysql, got %q", c.DBDriver)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.TokenTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.LoginRateLimit < 1 {
		return errors.New("LOGIN_RATE_LIMIT must be at least 1")
	}
	if c.BodyLimit < 1 {
		return errors.New("BODY_LIMIT must be at least 1")
	}
	if c.RequestTimeout < 0 || c.ShutdownTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	return nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
