package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/reflookup/internal/domain/tier"
)

// Config holds the reflookup configuration.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Database     DatabaseConfig     `yaml:"database"`
	Backend      BackendConfig      `yaml:"backend"`
	Autocomplete AutocompleteConfig `yaml:"autocomplete"`
	Search       SearchConfig       `yaml:"search"`
	History      HistoryConfig      `yaml:"history"`
	Tiers        []TierConfig       `yaml:"tiers"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the history store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, badger, memory (default: memory)
	Addrs            []string `yaml:"addrs"`
	Path             string   `yaml:"path"` // badger data directory
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// BackendConfig holds the catalog backend settings.
type BackendConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
	HealthPath string `yaml:"health_path"`
}

// AutocompleteConfig holds reference suggestion settings.
type AutocompleteConfig struct {
	MinLength int `yaml:"min_length"`
	PoolSize  int `yaml:"pool_size"`
}

// SearchConfig holds search execution settings.
type SearchConfig struct {
	ReplayDelayMs *int `yaml:"replay_delay_ms"` // 0 opens replayed results immediately
}

// HistoryConfig holds history storage settings.
type HistoryConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// TierConfig defines one subscription tier.
type TierConfig struct {
	ID                    string `yaml:"id"`
	Name                  string `yaml:"name"`
	AdvancedSearch        bool   `yaml:"advanced_search"`
	SearchHistoryLimit    int    `yaml:"search_history_limit"`
	AutocompleteReference bool   `yaml:"autocomplete_reference"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references, applying
// defaults and validating the result.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Backend.TimeoutSec <= 0 {
		c.Backend.TimeoutSec = 10
	}
	if c.Backend.HealthPath == "" {
		c.Backend.HealthPath = "/health"
	}
	if c.Autocomplete.MinLength <= 0 {
		c.Autocomplete.MinLength = 3
	}
	if c.Autocomplete.PoolSize <= 0 {
		c.Autocomplete.PoolSize = 16
	}
	if c.Search.ReplayDelayMs == nil {
		d := defaultReplayDelayMs
		c.Search.ReplayDelayMs = &d
	}
	if c.History.KeyPrefix == "" {
		c.History.KeyPrefix = "reflookup:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "memory":
	case "redis":
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	case "badger":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be \"redis\", \"badger\" or \"memory\", got %q", c.Database.Driver)
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Search.ReplayDelayMs != nil && *c.Search.ReplayDelayMs < 0 {
		return fmt.Errorf("search.replay_delay_ms must not be negative, got %d", *c.Search.ReplayDelayMs)
	}
	seen := make(map[string]struct{}, len(c.Tiers))
	for i, t := range c.Tiers {
		if t.ID == "" {
			return fmt.Errorf("tiers[%d].id is required", i)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("tiers[%d].id %q is duplicated", i, t.ID)
		}
		seen[t.ID] = struct{}{}
		if t.SearchHistoryLimit < 0 {
			return fmt.Errorf("tiers.%s.search_history_limit must not be negative, got %d", t.ID, t.SearchHistoryLimit)
		}
	}
	return nil
}

// Catalog converts the configured tiers into domain tier definitions.
func (c *Config) Catalog() tier.Catalog {
	out := make(tier.Catalog, len(c.Tiers))
	for i, t := range c.Tiers {
		out[i] = tier.Tier{
			ID:                    t.ID,
			Name:                  t.Name,
			AdvancedSearch:        t.AdvancedSearch,
			SearchHistoryLimit:    t.SearchHistoryLimit,
			AutocompleteReference: t.AutocompleteReference,
		}
	}
	return out
}

// defaultReplayDelayMs applies when search.replay_delay_ms is unset.
const defaultReplayDelayMs = 100

// ReplayDelay returns the cosmetic delay before replayed results are shown.
// Unset means the default; an explicit 0 shows them immediately.
func (c *Config) ReplayDelay() time.Duration {
	if c.Search.ReplayDelayMs == nil {
		return defaultReplayDelayMs * time.Millisecond
	}
	return time.Duration(*c.Search.ReplayDelayMs) * time.Millisecond
}

// BackendTimeout returns the catalog request timeout.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSec) * time.Second
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
