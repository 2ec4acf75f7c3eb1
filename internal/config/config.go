package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"tagview-api/pkg/engine"
)

type Config struct {
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTExpiry   time.Duration

	// UsersFile is the YAML file declaring API users and bcrypt hashes.
	UsersFile string

	// Alert rule thresholds, in whole days.
	LongCheckoutDays int
	StaleUpdateDays  int

	// MaxUploadBytes caps snapshot upload size.
	MaxUploadBytes int64
}

func Load() *Config {
	config := &Config{
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTIssuer:        getEnv("JWT_ISS", "tagview-api"),
		JWTAudience:      getEnv("JWT_AUD", "tagview-api"),
		JWTExpiry:        24 * time.Hour, // Default to 24 hours
		UsersFile:        getEnv("USERS_FILE", "configs/users.yaml"),
		LongCheckoutDays: getEnvInt("LONG_CHECKOUT_DAYS", 30),
		StaleUpdateDays:  getEnvInt("STALE_UPDATE_DAYS", 90),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_MB", 20)) << 20,
	}

	// Parse JWT expiry from environment if provided
	if expiryStr := os.Getenv("JWT_EXPIRY"); expiryStr != "" {
		if expiry, err := time.ParseDuration(expiryStr); err == nil {
			config.JWTExpiry = expiry
		}
	}

	return config
}

// Thresholds returns the engine rule configuration carried by this config.
func (c *Config) Thresholds() engine.Thresholds {
	return engine.Thresholds{
		LongCheckoutDays: c.LongCheckoutDays,
		StaleUpdateDays:  c.StaleUpdateDays,
	}
}

// Validate rejects unusable configuration at startup, before any snapshot is
// processed.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret must not be empty")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters, got %d", len(c.JWTSecret))
	}
	if os.Getenv("ENVIRONMENT") == "production" && c.JWTSecret == "your-secret-key-change-in-production" {
		return fmt.Errorf("default JWT secret must not be used in production")
	}
	if c.JWTIssuer == "" {
		return fmt.Errorf("JWT issuer must not be empty")
	}
	if c.JWTAudience == "" {
		return fmt.Errorf("JWT audience must not be empty")
	}
	if c.JWTExpiry < time.Minute {
		return fmt.Errorf("JWT expiry must be at least 1 minute, got %v", c.JWTExpiry)
	}
	if c.JWTExpiry > 30*24*time.Hour {
		return fmt.Errorf("JWT expiry must be at most 30 days, got %v", c.JWTExpiry)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.MaxUploadBytes)
	}
	if err := c.Thresholds().Validate(); err != nil {
		return err
	}
	return nil
}

// LoadAndValidate loads configuration from the environment and validates it.
func LoadAndValidate() (*Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
