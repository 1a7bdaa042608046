package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Phone entry modes for visit registration.
const (
	PhoneModeSplit  = "split"
	PhoneModeSingle = "single"
)

type Config struct {
	API          APIConfig          `yaml:"api"`
	Poll         PollConfig         `yaml:"poll"`
	Server       ServerConfig       `yaml:"server"`
	Log          LogConfig          `yaml:"log"`
	Registration RegistrationConfig `yaml:"registration"`
	Persons      PersonsConfig      `yaml:"persons"`
	// TimeZone is an IANA name; empty means the host's local zone
	TimeZone string `yaml:"time_zone"`
}

// APIConfig holds configuration for the remote clinic REST API.
type APIConfig struct {
	// BaseURL is the API root, e.g. "http://localhost:3000/api/"
	BaseURL        string        `yaml:"base_url"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// RetryAttempts applies to connection failures on GET/PUT/DELETE only
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	// RequestsPerSecond throttles outbound calls; 0 disables throttling
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	UserAgent         string  `yaml:"user_agent"`
}

type PollConfig struct {
	Visits   time.Duration `yaml:"visits"`
	Waitlist time.Duration `yaml:"waitlist"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
	// File enables a rotating log file next to stderr output
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type RegistrationConfig struct {
	PhoneMode      string `yaml:"phone_mode"`
	InsuranceLabel string `yaml:"insurance_label"`
}

type PersonsConfig struct {
	PageSize int `yaml:"page_size"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:3000/api/",
			ConnectTimeout:    30 * time.Second,
			RequestTimeout:    30 * time.Second,
			RetryAttempts:     2,
			RetryDelay:        500 * time.Millisecond,
			RequestsPerSecond: 20,
			Burst:             10,
			UserAgent:         "martclinic-kiosk",
		},
		Poll: PollConfig{
			Visits:   5 * time.Second,
			Waitlist: 5 * time.Second,
		},
		Server: ServerConfig{
			Port: 8080,
			Env:  "development",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
		Registration: RegistrationConfig{
			PhoneMode:      PhoneModeSplit,
			InsuranceLabel: "요양",
		},
		Persons: PersonsConfig{
			PageSize: 10,
		},
	}
}

// Load reads configuration from the file named by KIOSK_CONFIG (if any)
// and then from KIOSK_* environment variables.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("KIOSK_CONFIG"))
}

// LoadFrom overlays the YAML file at path (skipped when empty) on the
// defaults, then applies environment overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.API.BaseURL = getEnv("KIOSK_API_URL", c.API.BaseURL)
	c.API.ConnectTimeout = getEnvDuration("KIOSK_API_CONNECT_TIMEOUT", c.API.ConnectTimeout)
	c.API.RequestTimeout = getEnvDuration("KIOSK_API_TIMEOUT", c.API.RequestTimeout)
	c.API.RetryAttempts = getEnvInt("KIOSK_API_RETRY_ATTEMPTS", c.API.RetryAttempts)
	c.API.RetryDelay = getEnvDuration("KIOSK_API_RETRY_DELAY", c.API.RetryDelay)
	c.API.RequestsPerSecond = getEnvFloat("KIOSK_API_RPS", c.API.RequestsPerSecond)
	c.API.Burst = getEnvInt("KIOSK_API_BURST", c.API.Burst)

	c.Poll.Visits = getEnvDuration("KIOSK_POLL_VISITS", c.Poll.Visits)
	c.Poll.Waitlist = getEnvDuration("KIOSK_POLL_WAITLIST", c.Poll.Waitlist)

	c.Server.Port = getEnvInt("KIOSK_PORT", c.Server.Port)
	c.Server.Env = getEnv("KIOSK_ENV", c.Server.Env)

	c.Log.Level = getEnv("KIOSK_LOG_LEVEL", c.Log.Level)
	c.Log.JSON = getEnvBool("KIOSK_LOG_JSON", c.Log.JSON)
	c.Log.File = getEnv("KIOSK_LOG_FILE", c.Log.File)

	c.Registration.PhoneMode = getEnv("KIOSK_PHONE_MODE", c.Registration.PhoneMode)
	c.Registration.InsuranceLabel = getEnv("KIOSK_INSURANCE_LABEL", c.Registration.InsuranceLabel)

	c.Persons.PageSize = getEnvInt("KIOSK_PAGE_SIZE", c.Persons.PageSize)
	c.TimeZone = getEnv("KIOSK_TZ", c.TimeZone)
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url %q", c.API.BaseURL)
	}
	if c.API.RequestTimeout <= 0 || c.API.ConnectTimeout <= 0 {
		return fmt.Errorf("api timeouts must be positive")
	}
	if c.Poll.Visits <= 0 || c.Poll.Waitlist <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	if c.Persons.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.Persons.PageSize)
	}
	switch c.Registration.PhoneMode {
	case PhoneModeSplit, PhoneModeSingle:
	default:
		return fmt.Errorf("unknown phone mode %q", c.Registration.PhoneMode)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TimeZone, falling back to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("5s") or bare seconds ("5").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
