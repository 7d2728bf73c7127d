// Package config loads and validates the telegram-mcp process configuration.
// The config path is always passed in explicitly; nothing in here consults
// ambient process state except the environment variables referenced by the
// file itself.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider types understood by the binary.
const (
	ProviderStatic  = "static"
	ProviderMTProto = "mtproto"
)

// Config is the full process configuration.
type Config struct {
	Telegram     TelegramConfig  `yaml:"telegram"`
	Search       SearchConfig    `yaml:"search"`
	RateLimiting RateLimitConfig `yaml:"rate_limiting"`
	Logging      LoggingConfig   `yaml:"logging"`
	Provider     ProviderConfig  `yaml:"provider"`
}

// TelegramConfig holds the MTProto credentials. Secret fields support
// ${VAR} environment references so the file itself stays free of secrets.
type TelegramConfig struct {
	APIID       int32  `yaml:"api_id"`
	APIHash     string `yaml:"api_hash"`
	PhoneNumber string `yaml:"phone_number"`
	SessionFile string `yaml:"session_file"`
}

// SearchConfig tunes search defaults and ceilings.
type SearchConfig struct {
	DefaultHoursBack  uint32 `yaml:"default_hours_back"`
	MaxResultsDefault uint32 `yaml:"max_results_default"`
	MaxResultsLimit   uint32 `yaml:"max_results_limit"`
}

// RateLimitConfig sizes the shared token bucket.
type RateLimitConfig struct {
	MaxTokens  float64 `yaml:"max_tokens"`
	RefillRate float64 `yaml:"refill_rate"`
}

// LoggingConfig selects log verbosity and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ProviderConfig selects the channel data source.
type ProviderConfig struct {
	Type     string `yaml:"type"`
	DataFile string `yaml:"data_file"`
}

// LoadDotEnv reads a .env file into the process environment before config
// expansion. A missing file is not an error; an unreadable one is.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads, expands, defaults and validates the config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Telegram.APIHash = expandEnvVars(cfg.Telegram.APIHash)
	cfg.Telegram.PhoneNumber = expandEnvVars(cfg.Telegram.PhoneNumber)

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Search.DefaultHoursBack == 0 {
		c.Search.DefaultHoursBack = 48
	}
	if c.Search.MaxResultsDefault == 0 {
		c.Search.MaxResultsDefault = 20
	}
	if c.Search.MaxResultsLimit == 0 {
		c.Search.MaxResultsLimit = 100
	}
	if c.RateLimiting.MaxTokens == 0 {
		c.RateLimiting.MaxTokens = 50
	}
	if c.RateLimiting.RefillRate == 0 {
		c.RateLimiting.RefillRate = 2.0
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "compact"
	}
	if c.Provider.Type == "" {
		c.Provider.Type = ProviderStatic
	}
}

func (c *Config) validate() error {
	switch c.Provider.Type {
	case ProviderStatic:
		if c.Provider.DataFile == "" {
			return errors.New("provider.data_file is required for the static provider")
		}
	case ProviderMTProto:
		if c.Telegram.APIID == 0 {
			return errors.New("telegram.api_id is required")
		}
		if c.Telegram.APIHash == "" {
			return errors.New("telegram.api_hash is required")
		}
		if c.Telegram.PhoneNumber == "" {
			return errors.New("telegram.phone_number is required")
		}
	default:
		return fmt.Errorf("unknown provider.type %q", c.Provider.Type)
	}

	if c.RateLimiting.MaxTokens < 0 {
		return errors.New("rate_limiting.max_tokens cannot be negative")
	}
	if c.RateLimiting.RefillRate < 0 {
		return errors.New("rate_limiting.refill_rate cannot be negative")
	}
	return nil
}

// expandEnvVars substitutes ${VAR} references with environment values.
// Unknown variables expand to the empty string; a dangling "${" without a
// closing brace is left as-is.
func expandEnvVars(value string) string {
	result := value
	for {
		start := strings.Index(result, "${")
		if start < 0 {
			break
		}
		endOffset := strings.Index(result[start:], "}")
		if endOffset < 0 {
			break
		}
		end := start + endOffset
		name := result[start+2 : end]
		result = result[:start] + os.Getenv(name) + result[end+1:]
	}
	return result
}
