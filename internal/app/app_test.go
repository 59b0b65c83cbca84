package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainings/internal/config"
	"trainings/internal/domain"
	"trainings/internal/logger"
	"trainings/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Media.Mode = "disk"
	cfg.Sync.ExportDir = filepath.Join(cfg.DataDir, "export")
	cfg.Autosave.Schedule = "@every 1h"
	return cfg
}

func TestApp_ShutdownSavesDirtySessions(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := New(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, a.Startup(ctx))
	require.NotNil(t, a.MCP())

	p := domain.Principal{UserID: "u1", CompanyID: cfg.Principal.CompanyID, Role: "admin"}
	sess, err := a.sessions.Open(ctx, "", p)
	require.NoError(t, err)
	assert.False(t, a.rewrite.Available(sess), "rewrite is off by default")
	require.True(t, sess.SetTitle(ctx, "Integração").Changed())

	require.NoError(t, a.Shutdown(ctx))

	db, err := storage.Open(storage.DriverSQLite, cfg.GetStorageDSN())
	require.NoError(t, err)
	store := storage.NewTrainingStore(db)
	defer store.Close()
	got, err := store.GetTraining(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Integração", got.Title)

	_, err = os.Stat(filepath.Join(cfg.Sync.ExportDir, sess.ID+".json"))
	assert.NoError(t, err, "saved documents are exported")
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t)
	cfg.Autosave.Schedule = "whenever"
	_, err := New(ctx, cfg, logger.Nop())
	assert.ErrorContains(t, err, "autosave schedule")

	cfg = testConfig(t)
	cfg.Storage.Driver = "oracle"
	_, err = New(ctx, cfg, logger.Nop())
	assert.Error(t, err)
}
