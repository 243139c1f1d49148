// Package config loads the onboarding server configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFilename is the file looked up when no path is given.
const DefaultConfigFilename = "onboarding.yaml"

// Config is the process configuration.
type Config struct {
	Addr            string        `yaml:"addr"`
	OnboardingPath  string        `yaml:"onboarding_path"`
	CompaniesPath   string        `yaml:"companies_path"`
	CSRFHeader      string        `yaml:"csrf_header"`
	CSRFCookie      string        `yaml:"csrf_cookie"`
	SeedFile        string        `yaml:"seed_file"`
	LogLevel        string        `yaml:"log_level"`
	Development     bool          `yaml:"development"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	PulseDelay      time.Duration `yaml:"pulse_delay"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Addr:            ":8080",
		OnboardingPath:  "/onboarding/",
		CompaniesPath:   "/companies/",
		CSRFHeader:      "X-CSRFToken",
		CSRFCookie:      "csrftoken",
		LogLevel:        "info",
		ShutdownTimeout: 5 * time.Second,
		PulseDelay:      500 * time.Millisecond,
	}
}

// Load reads path over the defaults. A missing file is not an error when
// path is the default filename.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigFilename
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultConfigFilename {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot use.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	for name, path := range map[string]string{
		"onboarding_path": c.OnboardingPath,
		"companies_path":  c.CompaniesPath,
	} {
		if !strings.HasPrefix(path, "/") {
			errs = append(errs, fmt.Errorf("%s must start with /", name))
		}
	}
	if c.OnboardingPath == c.CompaniesPath {
		errs = append(errs, errors.New("onboarding_path and companies_path must differ"))
	}
	if strings.TrimSpace(c.CSRFHeader) == "" {
		errs = append(errs, errors.New("csrf_header is required"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	if c.ShutdownTimeout < 0 || c.PulseDelay < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	return errors.Join(errs...)
}
