// Package config loads console settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-crudconsole/pkg/logging"
)

const (
	EnvConfigPath = "CRUDCONSOLE_CONFIG"
	EnvBaseURL    = "CRUDCONSOLE_BASE_URL"
	EnvLogLevel   = "CRUDCONSOLE_LOG_LEVEL"

	DefaultBaseURL = "http://localhost:8080/api"
	DefaultTimeout = 10 * time.Second
)

var (
	ErrFileNotFound = errors.New("config: file not found")
	ErrInvalidYAML  = errors.New("config: invalid YAML")
)

type Config struct {
	API       APIConfig     `yaml:"api"`
	Logging   LoggingConfig `yaml:"logging"`
	Console   ConsoleConfig `yaml:"console"`
	Resources []string      `yaml:"resources"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ConsoleConfig struct {
	Theme       string `yaml:"theme"`
	Variant     string `yaml:"variant"`
	ShowActions bool   `yaml:"show_actions"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: string(logging.FormatConsole),
		},
		Console: ConsoleConfig{
			Theme:       "default",
			ShowActions: true,
		},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path falls back to CRUDCONSOLE_CONFIG; with neither set only the
// defaults and environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidYAML, path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the base URL and timeout.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("config: api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: api.base_url %q is not an absolute URL", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return errors.New("config: api.timeout must not be negative")
	}
	return nil
}

// Logger builds the logger described by the logging section.
func (c *Config) Logger() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.Logging.Level)
	cfg.Format = logging.ParseFormat(c.Logging.Format)
	return cfg
}

// Wants reports whether the resource is enabled. An empty list enables all.
func (c *Config) Wants(resource string) bool {
	if len(c.Resources) == 0 {
		return true
	}
	for _, name := range c.Resources {
		if name == resource {
			return true
		}
	}
	return false
}
