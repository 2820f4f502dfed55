package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "DEEPAGENTS_"

// Config is the server configuration. It is loaded once at startup and
// passed down explicitly.
type Config struct {
	Server     ServerConfig     `yaml:"server" json:"server"`
	Database   DatabaseConfig   `yaml:"database" json:"database"`
	Auth       AuthConfig       `yaml:"auth" json:"auth"`
	Log        LogConfig        `yaml:"log" json:"log"`
	Metrics    MetricsConfig    `yaml:"metrics" json:"metrics"`
	Tracing    TracingConfig    `yaml:"tracing" json:"tracing"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit" json:"rate_limit"`
	Executions ExecutionsConfig `yaml:"executions" json:"executions"`
	Analytics  AnalyticsConfig  `yaml:"analytics" json:"analytics"`
	Secrets    SecretsConfig    `yaml:"secrets" json:"secrets"`
	Sentry     SentryConfig     `yaml:"sentry" json:"sentry"`
}

type ServerConfig struct {
	Address         string        `yaml:"address" json:"address" jsonschema:"description=Listen address of the HTTP server"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins" json:"cors_origins,omitempty"`
}

type DatabaseConfig struct {
	// Path of the SQLite database file. ":memory:" keeps everything in memory.
	Path         string `yaml:"path" json:"path"`
	PingAttempts uint   `yaml:"ping_attempts" json:"ping_attempts"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret" json:"jwt_secret"`
	Issuer     string        `yaml:"issuer" json:"issuer"`
	TokenTTL   time.Duration `yaml:"token_ttl" json:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost" json:"bcrypt_cost"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	Format string `yaml:"format" json:"format" jsonschema:"enum=text,enum=json"`
	// Output is stderr, stdout or a file path. Files are rotated.
	Output     string `yaml:"output" json:"output"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" json:"enabled"`
	Exporter    string  `yaml:"exporter" json:"exporter" jsonschema:"enum=stdout,enum=noop"`
	ServiceName string  `yaml:"service_name" json:"service_name"`
	SampleRate  float64 `yaml:"sample_rate" json:"sample_rate"`
}

type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled" json:"enabled"`
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int           `yaml:"burst" json:"burst"`
	ClientTTL         time.Duration `yaml:"client_ttl" json:"client_ttl"`
}

type ExecutionsConfig struct {
	Workers         int           `yaml:"workers" json:"workers"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	MaxRetries      int           `yaml:"max_retries" json:"max_retries"`
	CostPer1KTokens string        `yaml:"cost_per_1k_tokens" json:"cost_per_1k_tokens"`
	BreakerFailures uint32        `yaml:"breaker_failures" json:"breaker_failures"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout" json:"breaker_timeout"`
}

type AnalyticsConfig struct {
	PostHogAPIKey   string `yaml:"posthog_api_key" json:"posthog_api_key,omitempty"`
	PostHogEndpoint string `yaml:"posthog_endpoint" json:"posthog_endpoint,omitempty"`
}

type SecretsConfig struct {
	// Keyset is a cleartext tink keyset in JSON form.
	Keyset     string `yaml:"keyset" json:"keyset,omitempty"`
	KeysetFile string `yaml:"keyset_file" json:"keyset_file,omitempty"`
	// UseKeyring stores the generated keyset in the OS keyring.
	UseKeyring bool `yaml:"use_keyring" json:"use_keyring"`
}

type SentryConfig struct {
	DSN         string `yaml:"dsn" json:"dsn,omitempty"`
	Environment string `yaml:"environment" json:"environment,omitempty"`
}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         "127.0.0.1:8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:         DefaultDatabasePath(),
			PingAttempts: 5,
		},
		Auth: AuthConfig{
			Issuer:     "deepagents",
			TokenTTL:   30 * time.Minute,
			BcryptCost: 12,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			Exporter:    "stdout",
			ServiceName: "deepagents",
			SampleRate:  1,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
			ClientTTL:         10 * time.Minute,
		},
		Executions: ExecutionsConfig{
			Workers:         4,
			Timeout:         5 * time.Minute,
			MaxRetries:      3,
			CostPer1KTokens: "0.002",
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Analytics: AnalyticsConfig{
			PostHogEndpoint: "https://eu.i.posthog.com",
		},
	}
}

// DSN is the modernc sqlite connection string for the database. Write
// transactions take the lock at BEGIN so concurrent writers queue on the busy
// timeout instead of failing on upgrade.
func (d DatabaseConfig) DSN() string {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	if d.Path == ":memory:" {
		return "file:deepagents?mode=memory&cache=shared&" + pragmas
	}
	return "file:" + d.Path + "?" + pragmas + "&_pragma=journal_mode(WAL)"
}

// DefaultDatabasePath places the database under the XDG data directory.
func DefaultDatabasePath() string {
	return filepath.Join(xdg.DataHome, "deepagents", "deepagents.db")
}

// DefaultPath is where the server looks for its configuration file when no
// path is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "deepagents", "server.yaml")
}

// Load reads the YAML file at path on top of Defaults, applies environment
// overrides and validates the result. A missing file is not an error.
func Load(fs afero.Fs, path string) (*Config, error) {
	return LoadWithEnv(fs, path, os.LookupEnv)
}

func LoadWithEnv(fs afero.Fs, path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Defaults()

	data, err := afero.ReadFile(fs, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := ApplyEnvOverrides(cfg, lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides maps DEEPAGENTS_* variables onto cfg.
func ApplyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error
	env := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return v, ok && v != ""
	}
	str := func(name string, dst *string) {
		if v, ok := env(name); ok {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := env(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := env(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	duration := func(name string, dst *time.Duration) {
		if v, ok := env(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = d
		}
	}

	str("SERVER_ADDRESS", &cfg.Server.Address)
	duration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	str("DATABASE_PATH", &cfg.Database.Path)
	str("AUTH_JWT_SECRET", &cfg.Auth.JWTSecret)
	str("AUTH_ISSUER", &cfg.Auth.Issuer)
	duration("AUTH_TOKEN_TTL", &cfg.Auth.TokenTTL)
	integer("AUTH_BCRYPT_COST", &cfg.Auth.BcryptCost)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("LOG_OUTPUT", &cfg.Log.Output)
	boolean("METRICS_ENABLED", &cfg.Metrics.Enabled)
	boolean("TRACING_ENABLED", &cfg.Tracing.Enabled)
	str("TRACING_EXPORTER", &cfg.Tracing.Exporter)
	boolean("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled)
	integer("RATE_LIMIT_BURST", &cfg.RateLimit.Burst)
	integer("EXECUTIONS_WORKERS", &cfg.Executions.Workers)
	duration("EXECUTIONS_TIMEOUT", &cfg.Executions.Timeout)
	str("EXECUTIONS_COST_PER_1K_TOKENS", &cfg.Executions.CostPer1KTokens)
	str("ANALYTICS_POSTHOG_API_KEY", &cfg.Analytics.PostHogAPIKey)
	str("SECRETS_KEYSET", &cfg.Secrets.Keyset)
	str("SECRETS_KEYSET_FILE", &cfg.Secrets.KeysetFile)
	boolean("SECRETS_USE_KEYRING", &cfg.Secrets.UseKeyring)
	str("SENTRY_DSN", &cfg.Sentry.DSN)
	str("SENTRY_ENVIRONMENT", &cfg.Sentry.Environment)

	return errors.Join(errs...)
}

// ValidationError collects every problem found in a Config.
type ValidationError struct {
	Problems []string
}

func (v *ValidationError) Error() string {
	return "invalid configuration:\n  - " + strings.Join(v.Problems, "\n  - ")
}

func (v *ValidationError) add(format string, args ...any) {
	v.Problems = append(v.Problems, fmt.Sprintf(format, args...))
}

func (c *Config) Validate() error {
	ve := &ValidationError{}

	if c.Server.Address == "" {
		ve.add("server.address must not be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		ve.add("server.shutdown_timeout must be > 0")
	}
	if c.Database.Path == "" {
		ve.add("database.path must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		ve.add("auth.token_ttl must be > 0")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		ve.add("auth.bcrypt_cost must be between 4 and 31")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		ve.add("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		ve.add("metrics.path must start with /")
	}
	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case "stdout", "noop":
		default:
			ve.add("tracing.exporter must be stdout or noop, got %q", c.Tracing.Exporter)
		}
		if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
			ve.add("tracing.sample_rate must be between 0 and 1")
		}
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			ve.add("rate_limit.requests_per_second must be > 0")
		}
		if c.RateLimit.Burst <= 0 {
			ve.add("rate_limit.burst must be > 0")
		}
	}
	if c.Executions.Workers <= 0 {
		ve.add("executions.workers must be > 0")
	}
	if c.Executions.Timeout <= 0 {
		ve.add("executions.timeout must be > 0")
	}
	if c.Executions.MaxRetries < 0 {
		ve.add("executions.max_retries must be >= 0")
	}
	if _, err := strconv.ParseFloat(c.Executions.CostPer1KTokens, 64); err != nil {
		ve.add("executions.cost_per_1k_tokens must be a decimal number, got %q", c.Executions.CostPer1KTokens)
	}
	if c.Secrets.Keyset != "" && c.Secrets.KeysetFile != "" {
		ve.add("secrets.keyset and secrets.keyset_file are mutually exclusive")
	}

	if len(ve.Problems) > 0 {
		return ve
	}
	return nil
}

// Redacted returns a copy of c with credentials masked, suitable for display.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	c.Auth.JWTSecret = mask(c.Auth.JWTSecret)
	c.Analytics.PostHogAPIKey = mask(c.Analytics.PostHogAPIKey)
	c.Secrets.Keyset = mask(c.Secrets.Keyset)
	c.Sentry.DSN = mask(c.Sentry.DSN)
	return c
}
