package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the devisd API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Generation GenerationConfig `yaml:"generation"`
	Matching   MatchingConfig   `yaml:"matching"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, memory (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// GenerationConfig holds the solution generator settings.
type GenerationConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// MatchingConfig holds the similarity scoring weights and thresholds.
// Zero values fall back to the reference defaults in ApplyDefaults.
type MatchingConfig struct {
	KeywordWeight    float64 `yaml:"keyword_weight"`
	TextWeight       float64 `yaml:"text_weight"`
	ProblemTypeBonus float64 `yaml:"problem_type_bonus"`
	MinScore         float64 `yaml:"min_score"`
	MaxResults       int     `yaml:"max_results"`
	HighMaxScore     float64 `yaml:"high_max_score"`
	HighAvgScore     float64 `yaml:"high_avg_score"`
	MediumMaxScore   float64 `yaml:"medium_max_score"`
	MediumAvgScore   float64 `yaml:"medium_avg_score"`
}

// CatalogConfig holds price catalog settings.
type CatalogConfig struct {
	CacheTTLSec int  `yaml:"cache_ttl_sec"`
	SeedOnStart bool `yaml:"seed_on_start"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Generation calls run inside the request, so the write timeout
		// must cover a full model round-trip.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "gpt-4o-mini"
	}
	if c.Generation.TimeoutSec <= 0 {
		c.Generation.TimeoutSec = 90
	}
	if c.Matching.KeywordWeight <= 0 {
		c.Matching.KeywordWeight = 0.5
	}
	if c.Matching.TextWeight <= 0 {
		c.Matching.TextWeight = 0.3
	}
	if c.Matching.ProblemTypeBonus <= 0 {
		c.Matching.ProblemTypeBonus = 0.2
	}
	if c.Matching.MinScore <= 0 {
		c.Matching.MinScore = 0.3
	}
	if c.Matching.MaxResults <= 0 {
		c.Matching.MaxResults = 5
	}
	if c.Matching.HighMaxScore <= 0 {
		c.Matching.HighMaxScore = 0.7
	}
	if c.Matching.HighAvgScore <= 0 {
		c.Matching.HighAvgScore = 0.5
	}
	if c.Matching.MediumMaxScore <= 0 {
		c.Matching.MediumMaxScore = 0.4
	}
	if c.Matching.MediumAvgScore <= 0 {
		c.Matching.MediumAvgScore = 0.3
	}
	if c.Catalog.CacheTTLSec <= 0 {
		c.Catalog.CacheTTLSec = 300
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "redis":
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the redis driver")
		}
	case "memory":
		// no connection settings
	default:
		return fmt.Errorf("database.driver must be \"redis\" or \"memory\", got %q", c.Database.Driver)
	}
	if c.Matching.MinScore > 1 {
		return fmt.Errorf("matching.min_score must not exceed 1, got %v", c.Matching.MinScore)
	}
	if c.Matching.HighMaxScore < c.Matching.MediumMaxScore {
		return fmt.Errorf("matching.high_max_score must be >= matching.medium_max_score")
	}
	return nil
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
