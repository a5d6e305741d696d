package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file
const (
	EnvAPIURL   = "NOEMA_API_URL"
	EnvLogLevel = "NOEMA_LOG_LEVEL"
)

type Config struct {
	// Remote request API
	API APIConfig `yaml:"api"`

	// Financing request form rules
	Form FormConfig `yaml:"form"`

	// Reference table overrides
	Reference ReferenceConfig `yaml:"reference"`

	// Logging
	Log LogConfig `yaml:"log"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"` // Endpoint base; requests go to <base_url>/api/requests
	Timeout time.Duration `yaml:"timeout"`  // Transport timeout, 0 = none
}

type FormConfig struct {
	LeadDays     int    `yaml:"lead_days"`      // Earliest start date is today + lead_days
	MinTermYears int    `yaml:"min_term_years"` // End date lower bound after start
	MaxTermYears int    `yaml:"max_term_years"` // End date upper bound after start
	LockCurrency string `yaml:"lock_currency"`  // Currency forced for OPEC countries
}

type ReferenceConfig struct {
	CountriesFile  string `yaml:"countries_file"`  // Optional JSON replacing the built-in country list
	CurrenciesFile string `yaml:"currencies_file"` // Optional JSON replacing the built-in currency list
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
	File   string `yaml:"file"`   // Log file used while the TUI owns the terminal
}

// DefaultConfigPath returns ~/.config/noema/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "noema", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "noema", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		API: APIConfig{
			BaseURL: "http://test-noema-api.azurewebsites.net",
			Timeout: 30 * time.Second,
		},
		Form: FormConfig{
			LeadDays:     15,
			MinTermYears: 1,
			MaxTermYears: 3,
			LockCurrency: "USD",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			File:   filepath.Join(homeDir, ".config", "noema", "noema.log"),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads .env from the working directory if present, then the
// config from the default path
func LoadDefault() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return Load(DefaultConfigPath())
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate rejects configurations the form cannot work with
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout cannot be negative")
	}
	if c.Form.LeadDays < 0 {
		return fmt.Errorf("form.lead_days cannot be negative")
	}
	if c.Form.MinTermYears < 0 || c.Form.MaxTermYears < c.Form.MinTermYears {
		return fmt.Errorf("form term years must satisfy 0 <= min_term_years <= max_term_years")
	}
	if c.Form.LockCurrency == "" {
		return fmt.Errorf("form.lock_currency is required")
	}
	return nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := c.YAML()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// YAML renders the config as it would be saved
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// EnsureDirectories creates the log directory
func (c *Config) EnsureDirectories() error {
	if c.Log.File == "" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(c.Log.File), 0755)
}
