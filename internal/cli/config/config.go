package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fzdarsky/hirn-login/internal/logging"
	"github.com/fzdarsky/hirn-login/internal/portal"
)

const (
	configFileName = "config.yaml"
	envConfig      = "HIRN_LOGIN_CONFIG"
	envStatusURL   = "HIRN_LOGIN_STATUS_URL"
	envLoginURL    = "HIRN_LOGIN_LOGIN_URL"
	envUsername    = "HIRN_LOGIN_USERNAME"
	envPassword    = "HIRN_LOGIN_PASSWORD_FILE"
	envTimeout     = "HIRN_LOGIN_TIMEOUT"
	envLogLevel    = "HIRN_LOGIN_LOG_LEVEL"
	envLogFormat   = "HIRN_LOGIN_LOG_FORMAT"

	defaultLogLevel  = logging.LevelWarn
	defaultLogFormat = logging.FormatHuman
)

// Config holds the configuration for the hirn-login CLI tool.
type Config struct {
	StatusURL    string        `yaml:"status_url"`
	LoginURL     string        `yaml:"login_url"`
	Username     string        `yaml:"username"`
	PasswordFile string        `yaml:"password_file"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"`
}

// Flags carries command-line overrides. Empty strings leave the loaded value
// alone. Timeout applies when non-zero or when TimeoutSet is true, so an explicit
// zero can clear a configured timeout.
type Flags struct {
	LogLevel   string
	LogFormat  string
	Timeout    time.Duration
	TimeoutSet bool
}

// Load loads configuration from file, environment variables, and applies defaults.
// Precedence order (highest to lowest):
// 1. Environment variables
// 2. Config file
// 3. Defaults
//
// Note: Command-line flags are applied by the caller after calling Load().
func Load() (*Config, error) {
	cfg := Defaults()

	// Layer 1: Load from config file (lowest priority)
	path, err := FilePath()
	if err != nil {
		return nil, err
	}
	if err := cfg.loadFromFile(path); err != nil {
		// Config file is optional, so we only return error if file exists but is invalid
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Layer 2: Load from environment variables (medium priority)
	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	def := portal.DefaultConfig()
	return &Config{
		StatusURL: def.StatusURL,
		LoginURL:  def.LoginURL,
		UserAgent: def.UserAgent,
		LogLevel:  string(defaultLogLevel),
		LogFormat: string(defaultLogFormat),
	}
}

// FilePath returns the config file location: $HIRN_LOGIN_CONFIG if set,
// <UserConfigDir>/hirn-login/config.yaml otherwise.
func FilePath() (string, error) {
	if path := os.Getenv(envConfig); path != "" {
		return path, nil
	}

	configDir, err := UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, configFileName), nil
}

// loadFromFile loads configuration from the YAML config file.
func (c *Config) loadFromFile(configPath string) error {
	data, err := os.ReadFile(configPath) // #nosec G304 - configPath is user config directory
	if err != nil {
		return err
	}

	// yaml.v3 decodes durations from strings such as "30s".
	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	// Merge file config (only non-zero values)
	c.merge(&fileConfig)

	return nil
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() error {
	c.merge(&Config{
		StatusURL:    os.Getenv(envStatusURL),
		LoginURL:     os.Getenv(envLoginURL),
		Username:     os.Getenv(envUsername),
		PasswordFile: os.Getenv(envPassword),
		LogLevel:     os.Getenv(envLogLevel),
		LogFormat:    os.Getenv(envLogFormat),
	})

	if raw := os.Getenv(envTimeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envTimeout, err)
		}
		c.Timeout = timeout
	}

	return nil
}

func (c *Config) merge(other *Config) {
	if other.StatusURL != "" {
		c.StatusURL = other.StatusURL
	}
	if other.LoginURL != "" {
		c.LoginURL = other.LoginURL
	}
	if other.Username != "" {
		c.Username = other.Username
	}
	if other.PasswordFile != "" {
		c.PasswordFile = other.PasswordFile
	}
	if other.UserAgent != "" {
		c.UserAgent = other.UserAgent
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.Timeout != 0 {
		c.Timeout = other.Timeout
	}
}

// ApplyFlags applies command-line flag values to the configuration.
// This should be called after Load() to apply the highest priority values.
func (c *Config) ApplyFlags(flags Flags) error {
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.LogFormat != "" {
		c.LogFormat = flags.LogFormat
	}
	if flags.Timeout != 0 || flags.TimeoutSet {
		c.Timeout = flags.Timeout
	}
	return c.Validate()
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if err := validateURL("status_url", c.StatusURL); err != nil {
		return err
	}
	if err := validateURL("login_url", c.LoginURL); err != nil {
		return err
	}

	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %v: must not be negative", c.Timeout)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return err
	}

	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an absolute http or https url", name, raw)
	}
	return nil
}

// Portal returns the portal client configuration.
func (c *Config) Portal() portal.Config {
	return portal.Config{
		StatusURL: c.StatusURL,
		LoginURL:  c.LoginURL,
		UserAgent: c.UserAgent,
		Timeout:   c.Timeout,
	}
}

// Level returns the validated log level.
func (c *Config) Level() logging.LogLevel {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return defaultLogLevel
	}
	return level
}

// Format returns the validated log format.
func (c *Config) Format() logging.LogFormat {
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return defaultLogFormat
	}
	return format
}
