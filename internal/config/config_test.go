package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory so no stray .env or
// armazem.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "armazem.sqlite3", cfg.Database.DSN)
	assert.Equal(t, 168*time.Hour, cfg.Auth.TokenTTL)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, int64(32<<20), cfg.Uploads.MaxBytes)
	assert.Equal(t, "@hourly", cfg.Uploads.SweepSchedule)
	assert.Equal(t, time.Hour, cfg.Uploads.SweepGrace)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_FileEnvAndOverrides(t *testing.T) {
	dir := isolate(t)

	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  addr: ":9000"
database:
  driver: postgres
  dsn: postgres://localhost/armazem
auth:
  token_ttl: 2h
uploads:
  dir: /srv/uploads
`), 0o644))

	t.Setenv("ARMAZEM_SERVER_ADDR", ":9100")

	cfg, err := Load(file, map[string]any{"log.file": "/var/log/armazem.log"})
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Addr, "environment wins over file")
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "/srv/uploads", cfg.Uploads.Dir)
	assert.Equal(t, "/var/log/armazem.log", cfg.Log.File)
}

func TestLoad_OverridesWinOverEnv(t *testing.T) {
	isolate(t)
	t.Setenv("ARMAZEM_SERVER_ADDR", ":9100")

	cfg, err := Load("", map[string]any{"server.addr": ":7000"})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ARMAZEM_AUTH_JWT_SECRET=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("ARMAZEM_AUTH_JWT_SECRET") })

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Auth.JWTSecret)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load("does-not-exist.yaml", nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolate(t)

	cases := map[string]map[string]any{
		"empty addr":      {"server.addr": " "},
		"unknown driver":  {"database.driver": "oracle"},
		"zero ttl":        {"auth.token_ttl": "0s"},
		"zero upload cap": {"uploads.max_bytes": 0},
		"zero burst":      {"auth.login_burst": 0},
	}
	for name, overrides := range cases {
		_, err := Load("", overrides)
		assert.Error(t, err, name)
	}
}
