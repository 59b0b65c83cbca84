package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainings/internal/domain"
	"trainings/internal/logger"
	"trainings/internal/service"
)

func newFileSync(t *testing.T) (*service.FileSync, *service.SessionService, *service.Session) {
	t.Helper()
	svc, _, _ := newSessions(t, nil)
	sess := openSession(t, svc)
	fs, err := service.NewFileSync(t.TempDir(), svc, logger.Nop())
	require.NoError(t, err)
	svc.OnSave(fs.Export)
	t.Cleanup(func() { fs.Close() })
	return fs, svc, sess
}

func TestFileSync_ExportOnSave(t *testing.T) {
	fs, svc, sess := newFileSync(t)
	ctx := context.Background()
	require.NoError(t, svc.Save(ctx, "t1"))

	data, err := os.ReadFile(fs.Path("t1"))
	require.NoError(t, err)
	doc, err := domain.ParseDocument(data)
	require.NoError(t, err)
	assert.Equal(t, sess.Document(), doc)

	// The file still holds what was exported, so reloading is a no-op.
	before, _ := sess.Revision()
	require.NoError(t, fs.Reload(ctx, fs.Path("t1")))
	after, _ := sess.Revision()
	assert.Equal(t, before, after)
}

func TestFileSync_ReloadExternalEdit(t *testing.T) {
	fs, svc, sess := newFileSync(t)
	ctx := context.Background()
	require.NoError(t, svc.Save(ctx, "t1"))

	edited := []byte(`{"sections":[{"id":"s9","title":"Editado fora","blocks":[{"id":"b9","type":"divider"}]}]}`)
	require.NoError(t, os.WriteFile(fs.Path("t1"), edited, 0o644))
	require.NoError(t, fs.Reload(ctx, fs.Path("t1")))

	doc := sess.Document()
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Editado fora", doc.Sections[0].Title)
	_, dirty := sess.Revision()
	assert.True(t, dirty)

	require.NoError(t, os.WriteFile(fs.Path("t1"), []byte("{broken"), 0o644))
	assert.Error(t, fs.Reload(ctx, fs.Path("t1")))
	assert.Equal(t, "Editado fora", sess.Document().Sections[0].Title)
}

func TestFileSync_WatchPicksUpEdits(t *testing.T) {
	fs, svc, sess := newFileSync(t)
	ctx := context.Background()
	require.NoError(t, svc.Save(ctx, "t1"))
	require.NoError(t, fs.Watch())

	edited := []byte(`{"sections":[{"title":"Via watcher"}]}`)
	require.NoError(t, os.WriteFile(fs.Path("t1"), edited, 0o644))

	assert.Eventually(t, func() bool {
		return sess.Document().Sections[0].Title == "Via watcher"
	}, 3*time.Second, 50*time.Millisecond)
}

func TestFileSync_IgnoresClosedSessions(t *testing.T) {
	fs, svc, _ := newFileSync(t)
	require.NoError(t, os.WriteFile(fs.Path("other"), []byte(`{}`), 0o644))
	assert.NoError(t, fs.Reload(context.Background(), fs.Path("other")))
	_, err := svc.Get("other")
	assert.ErrorIs(t, err, service.ErrSessionNotOpen)
}
