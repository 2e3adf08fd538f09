// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // facility zones must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/codr1/courtside/internal/models"
)

const (
	DefaultSlotMinutes  = 60
	DefaultOpensAt      = "08:00"
	DefaultClosesAt     = "23:00"
	DefaultPendingTTL   = 15 * time.Minute
	DefaultExpiryCron   = "* * * * *"
	DefaultStoreTimeout = 5 * time.Second
	DefaultPhoneRegion  = "AR"
	DefaultTimezone     = "America/Argentina/Buenos_Aires"
	DefaultRateLimit    = 30
	DefaultWebhookLimit = 600
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type BookingConfig struct {
	Timezone     string        `yaml:"timezone"`
	SlotMinutes  int           `yaml:"slot_minutes"`
	OpensAt      string        `yaml:"opens_at"`
	ClosesAt     string        `yaml:"closes_at"`
	PendingTTL   time.Duration `yaml:"pending_ttl"`
	ExpiryCron   string        `yaml:"expiry_cron"`
	StoreTimeout time.Duration `yaml:"store_timeout"`
	PhoneRegion  string        `yaml:"phone_region"`
}

type PaymentsConfig struct {
	CheckoutURL   string `yaml:"checkout_url"`
	WebhookSecret string `yaml:"-"` // Loaded from environment
}

// RateLimitConfig bounds requests per client IP on the public notify and
// payment endpoints.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	// WebhookRequestsPerMinute applies to unsigned provider callbacks. Signed
	// callbacks are not limited.
	WebhookRequestsPerMinute int  `yaml:"webhook_requests_per_minute"`
	TrustProxy               bool `yaml:"trust_proxy"`
}

type EmailConfig struct {
	Region          string   `yaml:"region"`
	Sender          string   `yaml:"sender"`
	AdminRecipients []string `yaml:"admin_recipients"`
	AccessKeyID     string   `yaml:"-"` // Loaded from environment
	SecretAccessKey string   `yaml:"-"` // Loaded from environment
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
	} `yaml:"app"`

	Database  DatabaseConfig  `yaml:"database"`
	Booking   BookingConfig   `yaml:"booking"`
	Payments  PaymentsConfig  `yaml:"payments"`
	Email     EmailConfig     `yaml:"email"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Features struct {
		EnableMetrics bool `yaml:"enable_metrics"`
		EnableDebug   bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.Payments.WebhookSecret = os.Getenv("PAYMENTS_WEBHOOK_SECRET")
	cfg.Email.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Email.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and fills booking defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	b := &c.Booking
	if b.Timezone == "" {
		b.Timezone = DefaultTimezone
	}
	if b.SlotMinutes == 0 {
		b.SlotMinutes = DefaultSlotMinutes
	}
	if b.OpensAt == "" {
		b.OpensAt = DefaultOpensAt
	}
	if b.ClosesAt == "" {
		b.ClosesAt = DefaultClosesAt
	}
	if b.PendingTTL == 0 {
		b.PendingTTL = DefaultPendingTTL
	}
	if b.ExpiryCron == "" {
		b.ExpiryCron = DefaultExpiryCron
	}
	if b.StoreTimeout == 0 {
		b.StoreTimeout = DefaultStoreTimeout
	}
	if b.PhoneRegion == "" {
		b.PhoneRegion = DefaultPhoneRegion
	}
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = DefaultRateLimit
	}
	if c.RateLimit.WebhookRequestsPerMinute == 0 {
		c.RateLimit.WebhookRequestsPerMinute = DefaultWebhookLimit
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if err := c.Booking.Validate(); err != nil {
		return fmt.Errorf("booking: %w", err)
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit requests_per_minute must not be negative")
	}
	if c.RateLimit.WebhookRequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit webhook_requests_per_minute must not be negative")
	}

	if c.Email.Sender != "" && len(c.Email.AdminRecipients) == 0 {
		return fmt.Errorf("email admin_recipients is required when sender is set")
	}

	return nil
}

func (b BookingConfig) Validate() error {
	if _, err := time.LoadLocation(b.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", b.Timezone, err)
	}
	if b.SlotMinutes <= 0 || b.SlotMinutes%15 != 0 {
		return fmt.Errorf("slot_minutes must be a positive multiple of 15")
	}
	opens, closes, err := b.OpeningHours()
	if err != nil {
		return err
	}
	if closes <= opens {
		return fmt.Errorf("closes_at must be after opens_at")
	}
	if int(opens)%15 != 0 || int(closes)%15 != 0 {
		return fmt.Errorf("opening hours must align to 15 minutes")
	}
	if int(closes-opens) < b.SlotMinutes {
		return fmt.Errorf("opening hours shorter than one slot")
	}
	if b.PendingTTL <= 0 {
		return fmt.Errorf("pending_ttl must be positive")
	}
	if b.StoreTimeout <= 0 {
		return fmt.Errorf("store_timeout must be positive")
	}
	if _, err := cron.ParseStandard(b.ExpiryCron); err != nil {
		return fmt.Errorf("invalid expiry_cron %q: %w", b.ExpiryCron, err)
	}
	if len(strings.TrimSpace(b.PhoneRegion)) != 2 {
		return fmt.Errorf("phone_region must be a two-letter region code")
	}
	return nil
}

// OpeningHours parses opens_at and closes_at.
func (b BookingConfig) OpeningHours() (models.TimeOfDay, models.TimeOfDay, error) {
	opens, err := models.ParseTimeOfDay(b.OpensAt)
	if err != nil {
		return 0, 0, fmt.Errorf("opens_at: %w", err)
	}
	closes, err := models.ParseTimeOfDay(b.ClosesAt)
	if err != nil {
		return 0, 0, fmt.Errorf("closes_at: %w", err)
	}
	return opens, closes, nil
}

// Location returns the facility time zone, falling back to UTC.
func (b BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "" || c.App.Environment == "development"
}
