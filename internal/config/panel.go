package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PanelConfig configures the product panel client
type PanelConfig struct {
	// BaseURL is the API root; the collection is served at {BaseURL}/products
	BaseURL string `yaml:"base_url"`

	// RequestTimeout bounds each Product Service call. Zero means no client timeout.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	LogFile  string `yaml:"log_file"`  // interactive mode logs here; empty disables
}

// DefaultPanelConfig returns the built-in defaults
func DefaultPanelConfig() *PanelConfig {
	return &PanelConfig{
		BaseURL:  "http://localhost:8080",
		LogLevel: "info",
	}
}

// LoadPanel reads the YAML file at path (if it exists) over the defaults and then
// applies environment overrides. A missing file is not an error.
func LoadPanel(path string) (*PanelConfig, error) {
	cfg := DefaultPanelConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML
func (c *PanelConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *PanelConfig) applyEnvOverrides() {
	c.BaseURL = getEnv("PRODUCT_API_URL", c.BaseURL)
	c.RequestTimeout = getEnvAsDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
}

// Validate checks if the configuration is valid
func (c *PanelConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	return validateLogLevel(c.LogLevel)
}
