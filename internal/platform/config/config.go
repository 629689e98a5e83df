package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the legacy deployment: both authorities on localhost and a
// five second bound on every verification call.
const (
	DefaultAddr             = ":8080"
	DefaultCivilStatusURL   = "http://localhost:8001"
	DefaultEmploymentURL    = "http://localhost:8002"
	DefaultAuthorityTimeout = 5 * time.Second
	DefaultReversionShare   = 0.75
)

// Config is the process-wide configuration. It is built once in main and
// handed to constructors; nothing reads it from package state.
type Config struct {
	Addr        string `yaml:"addr"`
	DatabaseURL string `yaml:"database_url"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`

	Redis       RedisConfig     `yaml:"redis"`
	CivilStatus AuthorityConfig `yaml:"civil_status"`
	Employment  AuthorityConfig `yaml:"employment"`
	Policy      PolicyConfig    `yaml:"policy"`
}

// AuthorityConfig addresses one external verification authority.
type AuthorityConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// RedisConfig enables cross-replica audit locks when URL is set.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	LockTTL      time.Duration `yaml:"lock_ttl"`
}

// PolicyConfig externalizes the decision table constants. Empty strings keep
// the built-in narratives.
type PolicyConfig struct {
	ReversionShare  float64 `yaml:"reversion_share"`
	DeceasedStatus  string  `yaml:"deceased_status"`
	SuspendedStatus string  `yaml:"suspended_status"`
	CompliantStatus string  `yaml:"compliant_status"`
}

// FromEnv builds a Config from environment variables, then overlays the YAML
// file named by CNR_CONFIG_FILE when present.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:        envOr("CNR_ADDR", DefaultAddr),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		LogFormat:   envOr("LOG_FORMAT", "json"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			LockTTL:      30 * time.Second,
		},
		CivilStatus: AuthorityConfig{
			BaseURL: envOr("ETAT_CIVIL_URL", DefaultCivilStatusURL),
			Timeout: DefaultAuthorityTimeout,
		},
		Employment: AuthorityConfig{
			BaseURL: envOr("CNAS_URL", DefaultEmploymentURL),
			Timeout: DefaultAuthorityTimeout,
		},
		Policy: PolicyConfig{ReversionShare: DefaultReversionShare},
	}

	if raw := os.Getenv("AUTHORITY_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("AUTHORITY_TIMEOUT: %w", err)
		}
		cfg.CivilStatus.Timeout = d
		cfg.Employment.Timeout = d
	}

	if path := os.Getenv("CNR_CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}
	return cfg, cfg.Validate()
}

// Load reads a YAML file on top of the built-in defaults.
func Load(path string) (Config, error) {
	cfg := Config{
		Addr:        DefaultAddr,
		LogLevel:    "info",
		LogFormat:   "json",
		CivilStatus: AuthorityConfig{BaseURL: DefaultCivilStatusURL, Timeout: DefaultAuthorityTimeout},
		Employment:  AuthorityConfig{BaseURL: DefaultEmploymentURL, Timeout: DefaultAuthorityTimeout},
		Redis:       RedisConfig{LockTTL: 30 * time.Second},
		Policy:      PolicyConfig{ReversionShare: DefaultReversionShare},
	}
	if err := cfg.overlayFile(path); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) overlayFile(path string) error {
	// #nosec G304 -- path is operator-provided config path.
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(raw))
	expanded = strings.ReplaceAll(expanded, "\r\n", "\n")
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if err := c.CivilStatus.validate("civil_status"); err != nil {
		return err
	}
	if err := c.Employment.validate("employment"); err != nil {
		return err
	}
	if c.Policy.ReversionShare <= 0 || c.Policy.ReversionShare > 1 {
		return fmt.Errorf("policy.reversion_share must be in (0, 1], got %v", c.Policy.ReversionShare)
	}
	if c.Redis.URL != "" && c.Redis.LockTTL <= 0 {
		return fmt.Errorf("redis.lock_ttl must be positive when redis.url is set")
	}
	return nil
}

func (a AuthorityConfig) validate(name string) error {
	if a.BaseURL == "" {
		return fmt.Errorf("%s.base_url is required", name)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("%s.timeout must be positive", name)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
