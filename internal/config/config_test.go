package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, Config{
		ServiceName:     "procurement",
		Env:             "dev",
		LogLevel:        "info",
		HTTPAddr:        ":8080",
		EmailDomain:     "@um6p.ma",
		ShutdownTimeout: 10 * time.Second,
	}, cfg)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(envOf(map[string]string{
		"SERVICE_NAME":      "portal",
		"HTTP_ADDR":         "127.0.0.1:9000",
		"DATA_DIR":          "/var/lib/portal",
		"SEED_FILE":         "/etc/portal/catalog.yaml",
		"AUTH_EMAIL_DOMAIN": "@example.org",
		"SHUTDOWN_TIMEOUT":  "3s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "portal", cfg.ServiceName)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, "/var/lib/portal", cfg.DataDir)
	assert.Equal(t, "/etc/portal/catalog.yaml", cfg.SeedFile)
	assert.Equal(t, "@example.org", cfg.EmailDomain)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	_, err := load(envOf(map[string]string{"SHUTDOWN_TIMEOUT": "soon"}))
	assert.Error(t, err)

	_, err = load(envOf(map[string]string{"SHUTDOWN_TIMEOUT": "-1s"}))
	assert.Error(t, err)
}

func TestLoadReadsProcessEnvironment(t *testing.T) {
	t.Setenv("ENV", "prod")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
}
