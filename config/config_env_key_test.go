package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"twitch": map[string]any{
			"clientId":     "",
			"clientSecret": "",
		},
		"database": map[string]any{
			"postgres": map[string]any{
				"sslMode": "disable",
				"master": map[string]any{
					"userName": "user",
				},
			},
		},
		"translate": map[string]any{
			"apiKey": "",
		},
		"secretKey": map[string]any{
			"access": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "TWITCH_CLIENTID", want: "twitch.clientId"},
		{envKey: "TWITCH_CLIENTSECRET", want: "twitch.clientSecret"},
		{envKey: "DATABASE_POSTGRES_SSLMODE", want: "database.postgres.sslMode"},
		{envKey: "DATABASE_POSTGRES_MASTER_USERNAME", want: "database.postgres.master.userName"},
		{envKey: "TRANSLATE_APIKEY", want: "translate.apiKey"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestLoadWithEnv_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	yamlBody := []byte(`
twitch:
  clientId: ""
  clientSecret: ""
upstream:
  timeout: 3s
cache:
  gameMaxAge: 24h
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), yamlBody, 0o600))

	t.Setenv("TWITCH_CLIENTID", "client-from-env")
	t.Setenv("TWITCH_CLIENTSECRET", "secret-from-env")

	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, dir)
	require.NoError(t, err)

	cfg, err := LoadWithEnv[Config]("test", rel)
	require.NoError(t, err)

	assert.Equal(t, "client-from-env", cfg.Twitch.ClientID)
	assert.Equal(t, "secret-from-env", cfg.Twitch.ClientSecret)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Cache.GameMaxAge)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, DefaultGameMaxAge, cfg.Cache.GameMaxAge)
	assert.Equal(t, DefaultUpstreamTimeout, cfg.Upstream.Timeout)
	assert.Equal(t, DefaultCatalogPageSize, cfg.Upstream.PageSize)
	assert.Equal(t, DefaultTokenExpiryGrace, cfg.Twitch.ExpiryGrace)
	assert.Equal(t, 8, cfg.Upstream.StreamsLimit)
	assert.Zero(t, cfg.Facets.MaxAge)
	assert.Equal(t, "en", cfg.Translate.Source)
	assert.Equal(t, "pt", cfg.Translate.Target)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Database.Driver = DriverSQLite
	cfg.Database.SQLite.Path = "catalog.db"

	require.Error(t, cfg.Validate(), "missing twitch credentials")

	cfg.Twitch.ClientID = "id"
	cfg.Twitch.ClientSecret = "secret"
	require.NoError(t, cfg.Validate())

	cfg.Database.Driver = "mysql"
	require.Error(t, cfg.Validate())
}
