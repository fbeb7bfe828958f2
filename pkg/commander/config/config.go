// Package config provides session configuration for the Excel Commander CLI.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the Excel Commander API address used when nothing else is configured.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultLanguage is the locale tag sent with formula requests.
	DefaultLanguage = "tr"
)

// Config holds everything a session needs: where the service lives and
// which workbook/selection the host bridge should open.
type Config struct {
	// BaseURL is the root address of the Excel Commander service.
	BaseURL string `yaml:"base_url"`
	// Language is the locale tag for formula generation and explanation (tr, en).
	Language string `yaml:"language"`
	// Timeout is the overall HTTP client timeout (e.g. "30s").
	// Empty means transport default.
	Timeout string `yaml:"timeout"`
	// Workbook is the path to the .xlsx file acting as the host.
	Workbook string `yaml:"workbook"`
	// Sheet is the worksheet holding the selection. Empty means the active sheet.
	Sheet string `yaml:"sheet"`
	// Selection is an A1-style cell or range reference (e.g. "B2" or "A1:C4").
	Selection string `yaml:"selection"`
}

// Default returns the configuration used when no file or environment is present.
func Default() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Language:  DefaultLanguage,
		Selection: "A1",
	}
}

// Load reads a YAML config file and fills unset fields with defaults.
// A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// ApplyEnv overrides configuration from EXCELCMD_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("EXCELCMD_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("EXCELCMD_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("EXCELCMD_WORKBOOK"); v != "" {
		c.Workbook = v
	}
}

// TimeoutDuration parses the configured timeout. Empty or unparsable
// values mean no explicit timeout.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.Selection == "" {
		c.Selection = "A1"
	}
}
