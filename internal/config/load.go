package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cyra/weblog/internal/export"
	"github.com/cyra/weblog/internal/parser"
	"github.com/cyra/weblog/internal/table"
)

const (
	defaultFormat = parser.FormatNginx
	defaultTop    = 10
)

// Load reads, parses, and validates configuration from the provided path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration for flag-driven runs; Input.Path must still be set.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Input:   InputConfig{Format: defaultFormat},
		Stats:   StatsConfig{Top: defaultTop},
		Export:  ExportConfig{Dir: "."},
	}
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}

	if c.Input.Format == "" {
		c.Input.Format = defaultFormat
	}
	if !parser.Supported(c.Input.Format) {
		return fmt.Errorf("input.format: %w", &parser.UnsupportedFormatError{Format: c.Input.Format})
	}

	if _, _, err := c.Filter.Range(); err != nil {
		return err
	}

	if c.Filter.StatusMin < 0 || c.Filter.StatusMax < 0 {
		return fmt.Errorf("filter.status_min and filter.status_max must be >= 0")
	}
	if c.Filter.StatusMax > 0 && c.Filter.StatusMin > c.Filter.StatusMax {
		return fmt.Errorf("filter.status_min %d is above filter.status_max %d", c.Filter.StatusMin, c.Filter.StatusMax)
	}

	known := make(map[string]bool)
	for _, col := range table.Columns() {
		known[col] = true
	}
	for col := range c.Filter.Match {
		if !known[col] {
			return fmt.Errorf("filter.match: %w: %q", table.ErrUnknownColumn, col)
		}
	}
	for _, col := range c.Stats.Columns {
		if !known[col] {
			return fmt.Errorf("stats.columns: %w: %q", table.ErrUnknownColumn, col)
		}
	}
	if c.Stats.Top < 0 {
		return fmt.Errorf("stats.top must be >= 0")
	}
	if c.Stats.Top == 0 {
		c.Stats.Top = defaultTop
	}

	if c.Export.Format != "" {
		f, err := export.ParseFormat(c.Export.Format)
		if err != nil {
			return fmt.Errorf("export.format: %w", err)
		}
		c.Export.Format = string(f)
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "."
	}

	// Default logging level if not provided.
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// Range parses the filter bounds; unset bounds are zero.
func (f FilterConfig) Range() (from, to time.Time, err error) {
	if f.From != "" {
		if from, err = time.Parse(parser.DateLayout, f.From); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("filter.from: %w", err)
		}
	}
	if f.To != "" {
		if to, err = time.Parse(parser.DateLayout, f.To); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("filter.to: %w", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("filter.to %s is before filter.from %s", f.To, f.From)
	}
	return from, to, nil
}
