package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raysh454/resultfetch/internal/fixtureserver"
	"github.com/raysh454/resultfetch/internal/webclient"
)

// Config holds the runtime configuration of the resultfetch command.
type Config struct {
	WebClient WebClientConfig      `yaml:"webclient"`
	Logging   LoggingConfig        `yaml:"logging"`
	Fixture   fixtureserver.Config `yaml:"fixture"`
}

// WebClientConfig selects the transport backend.
type WebClientConfig struct {
	Backend string `yaml:"backend"` // nethttp, fasthttp
	Timeout string `yaml:"timeout"` // Go duration, e.g. "30s"
}

// LoggingConfig configures the zap logger built by the CLI.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		WebClient: WebClientConfig{
			Backend: string(webclient.ClientNetHTTP),
			Timeout: webclient.DefaultTimeout.String(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Fixture: fixtureserver.DefaultConfig(),
	}
}

// Load reads a YAML config from path on top of the defaults, then applies
// environment overrides. An empty path yields the defaults; a path that
// cannot be read is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RESULTFETCH_BACKEND"); v != "" {
		c.WebClient.Backend = v
	}
	if v := os.Getenv("RESULTFETCH_TIMEOUT"); v != "" {
		c.WebClient.Timeout = v
	}
	if v := os.Getenv("RESULTFETCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch webclient.Client(strings.ToLower(strings.TrimSpace(c.WebClient.Backend))) {
	case webclient.ClientNetHTTP, webclient.ClientFastHTTP, "":
	default:
		return fmt.Errorf("unknown webclient backend %q", c.WebClient.Backend)
	}
	if _, err := c.timeout(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console", "":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	if c.Fixture.Addr == "" {
		return fmt.Errorf("fixture.addr is required")
	}
	return nil
}

func (c *Config) timeout() (time.Duration, error) {
	if c.WebClient.Timeout == "" {
		return webclient.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.WebClient.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid webclient.timeout %q: %w", c.WebClient.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("webclient.timeout must be positive, got %s", d)
	}
	return d, nil
}

// WebClientConfig converts the YAML section into a webclient.Config.
func (c *Config) WebClientConfig() (webclient.Config, error) {
	d, err := c.timeout()
	if err != nil {
		return webclient.Config{}, err
	}
	return webclient.Config{
		Client:  webclient.Client(c.WebClient.Backend),
		Timeout: d,
	}, nil
}
