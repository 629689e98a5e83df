package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CNR_ADDR", "DATABASE_URL", "REDIS_URL", "ETAT_CIVIL_URL", "CNAS_URL",
		"AUTHORITY_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT", "CNR_CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultCivilStatusURL, cfg.CivilStatus.BaseURL)
	assert.Equal(t, DefaultEmploymentURL, cfg.Employment.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.CivilStatus.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Employment.Timeout)
	assert.Equal(t, 0.75, cfg.Policy.ReversionShare)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.Redis.URL)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ETAT_CIVIL_URL", "http://etat-civil:8001")
	t.Setenv("CNAS_URL", "http://cnas:8002")
	t.Setenv("AUTHORITY_TIMEOUT", "750ms")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://etat-civil:8001", cfg.CivilStatus.BaseURL)
	assert.Equal(t, "http://cnas:8002", cfg.Employment.BaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.CivilStatus.Timeout)
	assert.Equal(t, 750*time.Millisecond, cfg.Employment.Timeout)
}

func TestFromEnvRejectsBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTHORITY_TIMEOUT", "soon")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestLoadFileWithEnvExpansion(t *testing.T) {
	clearEnv(t)
	t.Setenv("CNAS_HOST", "cnas.internal")

	path := filepath.Join(t.TempDir(), "cnr.yaml")
	body := `
addr: ":9090"
civil_status:
  base_url: "http://etat-civil.internal"
  timeout: 2s
employment:
  base_url: "http://${CNAS_HOST}:8002"
  timeout: 3s
policy:
  reversion_share: 0.5
  deceased_status: "closed: deceased"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 2*time.Second, cfg.CivilStatus.Timeout)
	assert.Equal(t, "http://cnas.internal:8002", cfg.Employment.BaseURL)
	assert.Equal(t, 0.5, cfg.Policy.ReversionShare)
	assert.Equal(t, "closed: deceased", cfg.Policy.DeceasedStatus)
}

func TestValidate(t *testing.T) {
	base := Config{
		Addr:        ":8080",
		CivilStatus: AuthorityConfig{BaseURL: "http://a", Timeout: time.Second},
		Employment:  AuthorityConfig{BaseURL: "http://b", Timeout: time.Second},
		Policy:      PolicyConfig{ReversionShare: 0.75},
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing civil status url", func(c *Config) { c.CivilStatus.BaseURL = "" }},
		{"zero employment timeout", func(c *Config) { c.Employment.Timeout = 0 }},
		{"share above one", func(c *Config) { c.Policy.ReversionShare = 1.5 }},
		{"zero share", func(c *Config) { c.Policy.ReversionShare = 0 }},
		{"redis without lock ttl", func(c *Config) { c.Redis.URL = "redis://x"; c.Redis.LockTTL = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
