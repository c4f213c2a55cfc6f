package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, 5001, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.MockRegistrationEnabled())
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("ANDOLAN_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestConfig_InvalidPortEnvIgnored(t *testing.T) {
	t.Setenv("ANDOLAN_PORT", "not-a-port")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 5001, cfg.Server.Port)
}

func TestConfig_StorageEnvOverrides(t *testing.T) {
	t.Setenv("ANDOLAN_STORAGE_BACKEND", "SurrealDB")
	t.Setenv("ANDOLAN_SURREALDB_ADDRESS", "ws://db:8000/rpc")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "surrealdb", cfg.Storage.Backend)
	assert.Equal(t, "ws://db:8000/rpc", cfg.Storage.SurrealDB.Address)
}

func TestConfig_TimelineAPIURLTrimsSlash(t *testing.T) {
	t.Setenv("ANDOLAN_TIMELINE_API_URL", "https://api.example.org/")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "https://api.example.org", cfg.Clients.TimelineAPI.BaseURL)
}

func TestConfig_LoadLayeredFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	local := filepath.Join(dir, "local.toml")

	require.NoError(t, os.WriteFile(base, []byte(`
environment = "staging"

[server]
port = 7000

[registration]
endpoints = ["https://primary.example/api/members", "https://fallback.example/api/members"]
allow_mock = true
`), 0644))
	require.NoError(t, os.WriteFile(local, []byte(`
[server]
port = 7100
`), 0644))

	cfg, err := LoadConfig(base, local, filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 7100, cfg.Server.Port)
	assert.Len(t, cfg.Registration.Endpoints, 2)
	assert.True(t, cfg.MockRegistrationEnabled())
}

func TestConfig_LoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = "), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfig_MockRegistrationNeverInProduction(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Registration.AllowMock = true
	cfg.Environment = "production"
	assert.False(t, cfg.MockRegistrationEnabled())

	cfg.Environment = " Prod "
	assert.False(t, cfg.MockRegistrationEnabled())
}

func TestConfig_Timeouts(t *testing.T) {
	api := TimelineAPIConfig{Timeout: "5s"}
	assert.Equal(t, 5*time.Second, api.GetTimeout())

	api.Timeout = "garbage"
	assert.Equal(t, 30*time.Second, api.GetTimeout())

	auth := AuthConfig{}
	assert.Equal(t, 24*time.Hour, auth.GetTokenExpiry())
}

func TestConfig_FindAdmin(t *testing.T) {
	auth := AuthConfig{Admins: []AdminAccount{{Email: "Admin@Example.com", PasswordHash: "x"}}}

	a, ok := auth.FindAdmin(" admin@example.com ")
	require.True(t, ok)
	assert.Equal(t, "x", a.PasswordHash)

	_, ok = auth.FindAdmin("nobody@example.com")
	assert.False(t, ok)
}
