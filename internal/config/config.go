package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// DefaultExclude lists the glob patterns never opened by a workspace scan
var DefaultExclude = []string{
	".git/**",
	"node_modules/**",
	".venv/**",
	"venv/**",
	"__pycache__/**",
	"bin/**",
	"obj/**",
	"dist/**",
	"out/**",
}

// Report formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents the inspector configuration
type Config struct {
	// Scan settings
	Exclude             []string `mapstructure:"exclude"`                // glob patterns never opened
	ShowNoResultMessage bool     `mapstructure:"show_no_result_message"` // surface "nothing found" outcomes
	Locale              string   `mapstructure:"locale"`                 // message language: en, ja

	// Report settings
	Report ReportConfig `mapstructure:"report"`
}

// ReportConfig holds report writer configuration
type ReportConfig struct {
	Enabled    bool   `mapstructure:"enabled"`     // write a report after a workspace scan
	OutputPath string `mapstructure:"output_path"` // relative to the scan root
	Format     string `mapstructure:"format"`      // text, json, yaml
}

// LoadConfig loads configuration from defaults, an optional .mojibake.yaml in
// dir, and MOJIBAKE_* environment variables
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("exclude", DefaultExclude)
	v.SetDefault("show_no_result_message", false)
	v.SetDefault("locale", "en")
	v.SetDefault("report.enabled", false)
	v.SetDefault("report.output_path", "mojibake-report.txt")
	v.SetDefault("report.format", FormatText)

	// Optional config file
	if dir != "" {
		v.SetConfigName(".mojibake")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	// Read environment variables
	v.SetEnvPrefix("MOJIBAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	if c.Report.Format != "" && !slices.Contains([]string{FormatText, FormatJSON, FormatYAML}, c.Report.Format) {
		return fmt.Errorf("report format must be one of: text, json, yaml (got: %s)", c.Report.Format)
	}
	if c.Report.Enabled && c.Report.OutputPath == "" {
		return errors.New("report output path is empty")
	}
	return nil
}

// Resolve returns an independent copy so a running operation never observes
// later changes
func (c *Config) Resolve() Config {
	resolved := *c
	resolved.Exclude = slices.Clone(c.Exclude)
	if resolved.Report.Format == "" {
		resolved.Report.Format = FormatText
	}
	return resolved
}

// ReportPath resolves the report destination against the scan root
func (c *Config) ReportPath(root string) string {
	if filepath.IsAbs(c.Report.OutputPath) {
		return c.Report.OutputPath
	}
	return filepath.Join(root, c.Report.OutputPath)
}
