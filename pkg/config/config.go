// Package config loads pagefetch configuration from a YAML file and
// PAGEFETCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultPath             = "pagefetch.yaml"
	DefaultBaseURL          = "https://api.mrgrd56.ru/mock/ro"
	DefaultConcurrencyLimit = 30
	DefaultPageTimeout      = 15 * time.Second
	DefaultUserAgent        = "pagefetch/0.1.0"
)

// Environment variables. Env values override the file.
const (
	EnvPath             = "PAGEFETCH_CONFIG"
	EnvBaseURL          = "PAGEFETCH_BASE_URL"
	EnvConcurrencyLimit = "PAGEFETCH_CONCURRENCY_LIMIT"
	EnvPageTimeout      = "PAGEFETCH_PAGE_TIMEOUT"
	EnvUserAgent        = "PAGEFETCH_USER_AGENT"
	EnvLogLevel         = "PAGEFETCH_LOG_LEVEL"
	EnvLogPretty        = "PAGEFETCH_LOG_PRETTY"
	EnvPushgatewayURL   = "PAGEFETCH_PUSHGATEWAY_URL"
)

// Config is the pagefetch runtime configuration.
type Config struct {
	BaseURL          string        `yaml:"base_url" validate:"required,url"`
	ConcurrencyLimit int           `yaml:"concurrency_limit" validate:"min=1,max=1000"`
	PageTimeout      time.Duration `yaml:"page_timeout" validate:"gt=0"`
	UserAgent        string        `yaml:"user_agent" validate:"required"`
	Log              LogConfig     `yaml:"log"`
	PushgatewayURL   string        `yaml:"pushgateway_url" validate:"omitempty,url"`
}

// LogConfig controls the zerolog setup.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Pretty bool   `yaml:"pretty"`
}

// NewDefaultConfig returns the configuration used when no file or env override is set.
func NewDefaultConfig() Config {
	return Config{
		BaseURL:          DefaultBaseURL,
		ConcurrencyLimit: DefaultConcurrencyLimit,
		PageTimeout:      DefaultPageTimeout,
		UserAgent:        DefaultUserAgent,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the file named by PAGEFETCH_CONFIG, or DefaultPath.
func Load() (Config, error) {
	path := os.Getenv(EnvPath)
	if path == "" {
		path = DefaultPath
	}
	return LoadFromPath(path)
}

// LoadFromPath applies defaults, then the YAML file at path (a missing file
// is not an error), then environment overrides, and validates the result.
func LoadFromPath(path string) (Config, error) {
	cfg := NewDefaultConfig()

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("open config %s: %w", path, err)
	}

	if err := cfg.LoadEnv(); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// LoadEnv applies PAGEFETCH_* overrides. Unparseable values are errors.
func (c *Config) LoadEnv() error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvConcurrencyLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvConcurrencyLimit, err)
		}
		c.ConcurrencyLimit = n
	}
	if v := os.Getenv(EnvPageTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvPageTimeout, err)
		}
		c.PageTimeout = d
	}
	if v := os.Getenv(EnvUserAgent); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogPretty); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvLogPretty, err)
		}
		c.Log.Pretty = b
	}
	if v := os.Getenv(EnvPushgatewayURL); v != "" {
		c.PushgatewayURL = v
	}
	return nil
}

var validate = validator.New()

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}
