package service_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainings/internal/domain"
	"trainings/internal/editor"
	"trainings/internal/logger"
	"trainings/internal/service"
	"trainings/internal/storage"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func addBlock(t *testing.T, sess *service.Session, bt domain.BlockType) string {
	t.Helper()
	var id string
	res := sess.Do(context.Background(), func(c *editor.Controller) domain.Result {
		var r domain.Result
		id, r = c.AddBlock(0, bt)
		return r
	})
	require.True(t, res.Changed())
	return id
}

func blockByID(sess *service.Session, id string) *domain.Block {
	var b *domain.Block
	sess.View(func(c *editor.Controller) { b, _ = c.Block(0, id) })
	return b
}

func newMedia(t *testing.T, maxBytes int64) (*service.MediaService, *service.Session, *service.MockEmitter) {
	t.Helper()
	svc, _, _ := newSessions(t, nil)
	em := &service.MockEmitter{}
	return service.NewMediaService(storage.InlineMediaStore{}, maxBytes, em, logger.Nop()), openSession(t, svc), em
}

func TestMediaService_IngestApplies(t *testing.T) {
	media, sess, em := newMedia(t, 1<<20)
	id := addBlock(t, sess, domain.BlockTypeImage)

	job, err := media.Ingest(context.Background(), sess, 0, id, bytes.NewReader(pngBytes), "diagrama.png")
	require.NoError(t, err)
	res, err := waitJob(t, job)
	require.NoError(t, err)
	assert.True(t, res.Changed())

	b := blockByID(sess, id)
	assert.True(t, strings.HasPrefix(b.MediaURL, "data:image/png;base64,"))
	assert.False(t, media.IsIngesting(sess, id))
	assert.Equal(t, []string{service.EventMediaStarted, service.EventMediaCompleted}, em.Names())
}

func TestMediaService_ValidatesTarget(t *testing.T) {
	media, sess, _ := newMedia(t, 1<<20)
	textID := sess.Document().Sections[0].Blocks[0].ID

	_, err := media.Ingest(context.Background(), sess, 0, textID, bytes.NewReader(pngBytes), "a.png")
	assert.ErrorIs(t, err, service.ErrNotMediaBlock)

	_, err = media.Ingest(context.Background(), sess, 0, "missing", bytes.NewReader(pngBytes), "a.png")
	assert.ErrorIs(t, err, service.ErrBlockNotFound)
}

func TestMediaService_Failures(t *testing.T) {
	tests := []struct {
		name  string
		typ   domain.BlockType
		data  []byte
		limit int64
		want  error
	}{
		{"too large", domain.BlockTypeImage, pngBytes, 8, service.ErrMediaTooLarge},
		{"image into video block", domain.BlockTypeVideo, pngBytes, 1 << 20, service.ErrMediaTypeMismatch},
		{"text into image block", domain.BlockTypeImage, []byte("hello world"), 1 << 20, service.ErrMediaTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media, sess, em := newMedia(t, tt.limit)
			id := addBlock(t, sess, tt.typ)
			doc := sess.Document()

			job, err := media.Ingest(context.Background(), sess, 0, id, bytes.NewReader(tt.data), "f")
			require.NoError(t, err)
			_, err = waitJob(t, job)
			assert.ErrorIs(t, err, tt.want)
			assert.Same(t, doc, sess.Document(), "failed ingestion leaves the document untouched")
			assert.Contains(t, em.Names(), service.EventMediaFailed)
		})
	}
}

func TestMediaService_LatestIngestionWins(t *testing.T) {
	media, sess, _ := newMedia(t, 1<<20)
	id := addBlock(t, sess, domain.BlockTypeImage)
	ctx := context.Background()

	slowR, slowW := io.Pipe()
	first, err := media.Ingest(ctx, sess, 0, id, slowR, "old.png")
	require.NoError(t, err)
	assert.True(t, media.IsIngesting(sess, id))

	second, err := media.Ingest(ctx, sess, 0, id, bytes.NewReader(pngBytes), "new.png")
	require.NoError(t, err)
	res, err := waitJob(t, second)
	require.NoError(t, err)
	require.True(t, res.Changed())
	applied := blockByID(sess, id).MediaURL

	go func() {
		slowW.Write(pngBytes)
		slowW.Close()
	}()
	res, err = waitJob(t, first)
	require.NoError(t, err)
	assert.Equal(t, domain.Rejected(domain.ReasonStaleRevision), res)
	assert.Equal(t, applied, blockByID(sess, id).MediaURL)
	assert.False(t, media.IsIngesting(sess, id))
}

func TestMediaService_ManualEditWinsOverPendingIngestion(t *testing.T) {
	media, sess, _ := newMedia(t, 1<<20)
	id := addBlock(t, sess, domain.BlockTypeImage)
	ctx := context.Background()

	r, w := io.Pipe()
	job, err := media.Ingest(ctx, sess, 0, id, r, "a.png")
	require.NoError(t, err)

	require.True(t, media.SetURL(ctx, sess, 0, id, "https://cdn.example.com/manual.png").Changed())
	go func() {
		w.Write(pngBytes)
		w.Close()
	}()
	res, err := waitJob(t, job)
	require.NoError(t, err)
	assert.Equal(t, domain.Rejected(domain.ReasonStaleRevision), res)
	assert.Equal(t, "https://cdn.example.com/manual.png", blockByID(sess, id).MediaURL)
}

func TestMediaService_SetURLAndClear(t *testing.T) {
	media, sess, _ := newMedia(t, 1<<20)
	id := addBlock(t, sess, domain.BlockTypeVideo)
	ctx := context.Background()

	assert.Equal(t, domain.Rejected(domain.ReasonInvalidValue), media.SetURL(ctx, sess, 0, id, "ftp://x/y.mp4"))
	assert.Equal(t, domain.Rejected(domain.ReasonInvalidValue), media.SetURL(ctx, sess, 0, id, "/relative.mp4"))
	require.True(t, media.SetURL(ctx, sess, 0, id, "https://videos.example.com/v.mp4").Changed())
	assert.Equal(t, domain.Unchanged(), media.SetURL(ctx, sess, 0, id, "https://videos.example.com/v.mp4"))

	require.True(t, media.Clear(ctx, sess, 0, id).Changed())
	assert.Empty(t, blockByID(sess, id).MediaURL)

	textID := sess.Document().Sections[0].Blocks[0].ID
	assert.Equal(t, domain.Rejected(domain.ReasonFieldNotApplicable), media.Clear(ctx, sess, 0, textID))

	media.Wait(ctx)
}
