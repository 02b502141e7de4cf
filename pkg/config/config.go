// Package config loads service configuration with viper.
//
// Priority: STOCKCARD_* environment variables, then config.yaml from
// ., ./config or /etc/stockcard, then defaults. Nested keys map to
// environment variables with "." replaced by "_" (source.rest.base_url is
// STOCKCARD_SOURCE_REST_BASE_URL).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "STOCKCARD"

// Source kinds.
const (
	SourceREST     = "rest"
	SourcePostgres = "postgres"
)

// Config groups the service configuration.
type Config struct {
	App    AppConfig
	Log    LogConfig
	HTTP   HTTPConfig
	Source SourceConfig
	Report ReportConfig
	Auth   AuthConfig
}

// AppConfig holds general settings.
type AppConfig struct {
	Env     string // development, production
	Version string
}

// IsDevelopment reports whether console logging should be used.
func (c AppConfig) IsDevelopment() bool { return c.Env == "development" }

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// HTTPConfig holds server settings.
type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr returns the listen address.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SourceConfig selects and configures the reference data store.
type SourceConfig struct {
	Kind string

	RESTBaseURL string
	RESTTimeout time.Duration
	RESTToken   string

	PostgresDSN              string
	PostgresMaxConns         int32
	PostgresStatementTimeout time.Duration
}

// ReportConfig tunes report computation.
type ReportConfig struct {
	Concurrency int
	Timezone    string
}

// Location resolves the configured time zone.
func (c ReportConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// AuthConfig enables JWT authentication when Secret is set.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// Enabled reports whether API requests must carry a token.
func (c AuthConfig) Enabled() bool { return c.JWTSecret != "" }

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.version", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("http.host", "")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "60s")
	v.SetDefault("source.kind", SourceREST)
	v.SetDefault("source.rest.base_url", "http://localhost:8081/api")
	v.SetDefault("source.rest.timeout", "30s")
	v.SetDefault("source.rest.token", "")
	v.SetDefault("source.postgres.dsn", "")
	v.SetDefault("source.postgres.max_conns", 16)
	v.SetDefault("source.postgres.statement_timeout", "30s")
	v.SetDefault("report.concurrency", 8)
	v.SetDefault("report.timezone", "UTC")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "stockcard")
}

// Load reads configuration. configFile, when non-empty, is read instead of
// searching for config.yaml; a missing explicit file is an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/stockcard")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		App: AppConfig{
			Env:     v.GetString("app.env"),
			Version: v.GetString("app.version"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		HTTP: HTTPConfig{
			Host:         v.GetString("http.host"),
			Port:         v.GetInt("http.port"),
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
		},
		Source: SourceConfig{
			Kind:                     strings.ToLower(v.GetString("source.kind")),
			RESTBaseURL:              v.GetString("source.rest.base_url"),
			RESTTimeout:              v.GetDuration("source.rest.timeout"),
			RESTToken:                v.GetString("source.rest.token"),
			PostgresDSN:              v.GetString("source.postgres.dsn"),
			PostgresMaxConns:         v.GetInt32("source.postgres.max_conns"),
			PostgresStatementTimeout: v.GetDuration("source.postgres.statement_timeout"),
		},
		Report: ReportConfig{
			Concurrency: v.GetInt("report.concurrency"),
			Timezone:    v.GetString("report.timezone"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			Issuer:    v.GetString("auth.issuer"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error

	switch c.Source.Kind {
	case SourceREST:
		u, err := url.Parse(c.Source.RESTBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("source.rest.base_url %q is not an absolute URL", c.Source.RESTBaseURL))
		}
	case SourcePostgres:
		if c.Source.PostgresDSN == "" {
			errs = append(errs, errors.New("source.postgres.dsn is required when source.kind is postgres"))
		}
		if c.Source.PostgresStatementTimeout < 0 {
			errs = append(errs, fmt.Errorf("source.postgres.statement_timeout must not be negative, got %s", c.Source.PostgresStatementTimeout))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind %q: want %q or %q", c.Source.Kind, SourceREST, SourcePostgres))
	}

	if c.Report.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("report.concurrency must be positive, got %d", c.Report.Concurrency))
	}
	if _, err := c.Report.Location(); err != nil {
		errs = append(errs, fmt.Errorf("report.timezone: %w", err))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port %d out of range", c.HTTP.Port))
	}

	return errors.Join(errs...)
}
