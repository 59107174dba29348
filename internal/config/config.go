// Package config provides configuration management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"quote-engine/adapters/contact"
	"quote-engine/adapters/storage"
	"quote-engine/core/catalog"
	"quote-engine/core/pricing"
	"quote-engine/core/quote"
	"quote-engine/internal/errors"
	"quote-engine/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Calculator contains the calculator defaults and value bounds
	Calculator CalculatorConfig `json:"calculator" yaml:"calculator"`

	// Contact is where quote requests are sent
	Contact contact.Info `json:"contact" yaml:"contact"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server" yaml:"server"`

	// Storage selects the saved quotes backend
	Storage storage.Config `json:"storage" yaml:"storage"`

	// Metrics contains metrics configuration
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Output contains output configuration
	Output OutputConfig `json:"output" yaml:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// CalculatorConfig contains calculator settings
type CalculatorConfig struct {
	// Defaults is the initial selection
	Defaults quote.Selection `json:"defaults" yaml:"defaults"`

	// Bounds limits accepted project values
	Bounds quote.Bounds `json:"bounds" yaml:"bounds"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" yaml:"addr"`

	// ReadTimeoutSeconds bounds reading a request
	ReadTimeoutSeconds int `json:"read_timeout_seconds" yaml:"read_timeout_seconds"`

	// WriteTimeoutSeconds bounds writing a response
	WriteTimeoutSeconds int `json:"write_timeout_seconds" yaml:"write_timeout_seconds"`
}

// MetricsConfig contains metrics settings
type MetricsConfig struct {
	// Enabled exposes Prometheus metrics
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is where metrics are served
	Path string `json:"path" yaml:"path"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format" yaml:"default_format"`

	// Color enables ANSI colours in cli output
	Color bool `json:"color" yaml:"color"`

	// ShowComparison shows the billing cycle comparison
	ShowComparison bool `json:"show_comparison" yaml:"show_comparison"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".quote-engine", "quotes.db")

	return &Config{
		Version: "1.0",
		Calculator: CalculatorConfig{
			Defaults: quote.DefaultSelection(),
			Bounds:   quote.DefaultBounds,
		},
		Contact: contact.DefaultInfo(),
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 30,
		},
		Storage: storage.Config{
			Backend: storage.BackendSQLite,
			DSN:     dbPath,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Output: OutputConfig{
			DefaultFormat:  "cli",
			Color:          true,
			ShowComparison: true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. YAML is used for .yaml and .yml
// files, JSON otherwise. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("failed to read config", err)
	}

	config := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Config("failed to parse "+path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Validate reports every invalid setting in one CONFIG_ERROR
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	b := c.Calculator.Bounds
	if b.Min <= 0 || b.Min > b.Max {
		add("calculator.bounds: need 0 < min <= max, got %d..%d", b.Min, b.Max)
	}

	d := c.Calculator.Defaults
	if _, ok := catalog.Default.Lookup(d.PlanID); !ok {
		add("calculator.defaults.plan: unknown plan %q", d.PlanID)
	}
	if !b.Contains(d.ProjectValue) {
		add("calculator.defaults.value: %d outside bounds", d.ProjectValue)
	}
	if !d.BillingCycle.IsValid() {
		add("calculator.defaults.billing: unknown cycle %q", d.BillingCycle)
	}
	if !catalog.Complexity.Has(d.Complexity) {
		add("calculator.defaults.complexity: unknown level %q", d.Complexity)
	}
	if !catalog.Material.Has(d.Material) {
		add("calculator.defaults.material: unknown level %q", d.Material)
	}
	if !catalog.Brand.Has(d.Brand) {
		add("calculator.defaults.brand: unknown level %q", d.Brand)
	}
	if !catalog.Urgency.Has(d.Urgency) {
		add("calculator.defaults.urgency: unknown level %q", d.Urgency)
	}

	switch c.Storage.Backend {
	case storage.BackendMemory, storage.BackendSQLite, "":
	case storage.BackendPostgres:
		if c.Storage.DSN == "" {
			add("storage.dsn: required for postgres")
		}
	default:
		add("storage.backend: unsupported %q", c.Storage.Backend)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		add("metrics.path: must start with /, got %q", c.Metrics.Path)
	}

	switch c.Output.DefaultFormat {
	case "cli", "json", "markdown":
	default:
		add("output.default_format: unknown format %q", c.Output.DefaultFormat)
	}

	if len(problems) > 0 {
		return errors.New(errors.TypeConfig, "invalid configuration: "+strings.Join(problems, "; "))
	}
	return nil
}

// NewCalculator builds a calculator from the calculator section
func (c *Config) NewCalculator() *quote.Calculator {
	return quote.NewCalculator(pricing.Default, c.Calculator.Defaults, c.Calculator.Bounds)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
