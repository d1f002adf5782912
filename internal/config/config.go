// ABOUTME: Configuration loading and parsing for robot-admin
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete robot-admin configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Registry RegistryConfig `yaml:"registry"`
	Stream   StreamConfig   `yaml:"stream"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	GRPCAddr string `yaml:"grpc_addr"`
	HTTPAddr string `yaml:"http_addr"`
}

// DatabaseConfig holds the command audit database configuration.
// An empty path disables the audit log.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RegistryConfig holds liveness reaper timing configuration. TTL and sweep
// interval are independent knobs: a client must refresh within TTL, and the
// reaper checks every sweep interval.
type RegistryConfig struct {
	SweepInterval time.Duration `yaml:"-"`
	TTL           time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	SweepIntervalRaw string `yaml:"sweep_interval"`
	TTLRaw           string `yaml:"ttl"`
}

// StreamConfig holds push-mode status streaming configuration.
type StreamConfig struct {
	Interval time.Duration `yaml:"-"`

	// BufferSize is the bounded capacity of each subscriber channel. A
	// consumer that stays behind by a full buffer is treated as gone.
	BufferSize int `yaml:"buffer_size"`

	IntervalRaw string `yaml:"interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default timing values applied when the config leaves them unset.
const (
	DefaultSweepInterval    = 2 * time.Second
	DefaultTTL              = 6 * time.Second
	DefaultStreamInterval   = 1 * time.Second
	DefaultStreamBufferSize = 128
)

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded and
// duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.parseDurations(); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables become empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// parseDurations converts the raw duration strings into time.Duration values
func (c *Config) parseDurations() error {
	var err error

	if c.Registry.SweepIntervalRaw != "" {
		c.Registry.SweepInterval, err = time.ParseDuration(c.Registry.SweepIntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing registry.sweep_interval %q: %w", c.Registry.SweepIntervalRaw, err)
		}
	}

	if c.Registry.TTLRaw != "" {
		c.Registry.TTL, err = time.ParseDuration(c.Registry.TTLRaw)
		if err != nil {
			return fmt.Errorf("parsing registry.ttl %q: %w", c.Registry.TTLRaw, err)
		}
	}

	if c.Stream.IntervalRaw != "" {
		c.Stream.Interval, err = time.ParseDuration(c.Stream.IntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing stream.interval %q: %w", c.Stream.IntervalRaw, err)
		}
	}

	return nil
}

// applyDefaults fills timing knobs the file left unset.
func (c *Config) applyDefaults() {
	if c.Registry.SweepInterval == 0 {
		c.Registry.SweepInterval = DefaultSweepInterval
	}
	if c.Registry.TTL == 0 {
		c.Registry.TTL = DefaultTTL
	}
	if c.Stream.Interval == 0 {
		c.Stream.Interval = DefaultStreamInterval
	}
	if c.Stream.BufferSize == 0 {
		c.Stream.BufferSize = DefaultStreamBufferSize
	}
}

// Validate checks that all required configuration fields are present and
// valid. Returns an error describing the first validation failure.
func (c *Config) Validate() error {
	if c.Server.GRPCAddr == "" {
		return fmt.Errorf("server.grpc_addr is required")
	}
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}
	if c.Registry.SweepInterval < 0 {
		return fmt.Errorf("registry.sweep_interval must be positive")
	}
	if c.Registry.TTL < 0 {
		return fmt.Errorf("registry.ttl must be positive")
	}
	if c.Registry.TTL < c.Registry.SweepInterval {
		return fmt.Errorf("registry.ttl (%s) must not be shorter than registry.sweep_interval (%s)", c.Registry.TTL, c.Registry.SweepInterval)
	}
	if c.Stream.BufferSize < 0 {
		return fmt.Errorf("stream.buffer_size must be positive")
	}
	return nil
}
