package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.GetStorageDriver())
	assert.Equal(t, filepath.Join(cfg.DataDir, "trainings.db"), cfg.GetStorageDSN())
	assert.Equal(t, int64(DefaultMaxMediaBytes), cfg.GetMaxMediaBytes())
	assert.Equal(t, 30*time.Second, cfg.Rewrite.GetTimeout())
	assert.False(t, cfg.Rewrite.RoleEnabled("admin"))
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
data_dir: /var/lib/trainings
log_mode: prod
storage:
  driver: postgres
  dsn: postgres://editor:{password}@db/trainings
  password_secret: storage.password
media:
  mode: disk
  base_url: https://cdn.example.com/media/
rewrite:
  enabled: true
  base_url: https://api.openai.com/v1
  model: gpt-4o-mini
  enabled_roles: [admin, instrutor]
  timeout: 5s
autosave:
  schedule: "@every 30s"
`)
	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.GetStorageDriver())
	assert.Equal(t, "disk", cfg.Media.Mode)
	assert.Equal(t, 5*time.Second, cfg.Rewrite.GetTimeout())
	assert.True(t, cfg.Rewrite.RoleEnabled("Instrutor"))
	assert.False(t, cfg.Rewrite.RoleEnabled("aluno"))
	assert.Equal(t, "@every 30s", cfg.Autosave.Schedule)
}

func TestLoad_EnvOverrides(t *testing.T) {
	envFile := writeFile(t, ".env", "TRAININGS_MEDIA_MAX_BYTES=1024\n")
	t.Setenv("TRAININGS_DATA_DIR", "/tmp/x")
	t.Setenv("TRAININGS_STORAGE_DRIVER", "mysql")
	t.Setenv("TRAININGS_COMPANY_ID", "acme")
	t.Setenv("TRAININGS_MEDIA_MAX_BYTES", "")
	os.Unsetenv("TRAININGS_MEDIA_MAX_BYTES")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", cfg.DataDir)
	assert.Equal(t, "mysql", cfg.GetStorageDriver())
	assert.Equal(t, int64(1024), cfg.GetMaxMediaBytes())
	assert.Equal(t, "acme", cfg.Principal.CompanyID)
	assert.Equal(t, "local", cfg.Principal.UserID)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"driver":  "storage:\n  driver: oracle\n",
		"mode":    "media:\n  mode: s3\n",
		"rewrite": "rewrite:\n  enabled: true\n",
		"yaml":    "data_dir: [\n",
		"company": "principal:\n  company_id: \"\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "c.yaml", content), "")
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.ErrorContains(t, err, "read config")
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("TRAININGS_REWRITE_ENABLED", "perhaps")
	_, err := Load("", "")
	assert.ErrorContains(t, err, "TRAININGS_REWRITE_ENABLED")
}
