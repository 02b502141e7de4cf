package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, SourceREST, cfg.Source.Kind)
	assert.Equal(t, "http://localhost:8081/api", cfg.Source.RESTBaseURL)
	assert.Equal(t, 30*time.Second, cfg.Source.RESTTimeout)
	assert.Equal(t, 8, cfg.Report.Concurrency)
	assert.Equal(t, ":8080", cfg.HTTP.Addr())
	assert.True(t, cfg.App.IsDevelopment())
	assert.False(t, cfg.Auth.Enabled())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "stockcard.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
source:
  kind: postgres
  postgres:
    dsn: postgres://localhost/erp
    statement_timeout: 5s
report:
  concurrency: 4
  timezone: Europe/Paris
`), 0o600))

	t.Setenv("STOCKCARD_REPORT_CONCURRENCY", "12")
	t.Setenv("STOCKCARD_AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, SourcePostgres, cfg.Source.Kind)
	assert.Equal(t, "postgres://localhost/erp", cfg.Source.PostgresDSN)
	assert.Equal(t, 5*time.Second, cfg.Source.PostgresStatementTimeout)
	assert.Equal(t, 12, cfg.Report.Concurrency)
	assert.Equal(t, "Europe/Paris", cfg.Report.Timezone)
	assert.True(t, cfg.Auth.Enabled())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTP:   HTTPConfig{Port: 8080},
			Source: SourceConfig{Kind: SourceREST, RESTBaseURL: "http://x/api"},
			Report: ReportConfig{Concurrency: 1, Timezone: "UTC"},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown source", func(c *Config) { c.Source.Kind = "ftp" }},
		{"relative url", func(c *Config) { c.Source.RESTBaseURL = "/api" }},
		{"postgres without dsn", func(c *Config) { c.Source.Kind = SourcePostgres }},
		{"negative statement timeout", func(c *Config) {
			c.Source.Kind = SourcePostgres
			c.Source.PostgresDSN = "postgres://x/db"
			c.Source.PostgresStatementTimeout = -time.Second
		}},
		{"zero concurrency", func(c *Config) { c.Report.Concurrency = 0 }},
		{"bad timezone", func(c *Config) { c.Report.Timezone = "Mars/Olympus" }},
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
