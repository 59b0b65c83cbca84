package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainings/internal/domain"
	"trainings/internal/editor"
	"trainings/internal/logger"
	"trainings/internal/service"
)

// fakeRewriter returns out (or err) once release is closed.
type fakeRewriter struct {
	out     string
	err     error
	release chan struct{}
}

func (f *fakeRewriter) Rewrite(ctx context.Context, text string) (string, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.out, f.err
}

func newRewrite(t *testing.T, rw service.Rewriter, enabled bool) (*service.RewriteService, *service.Session) {
	t.Helper()
	svc, _, _ := newSessions(t, service.StaticCapability(enabled))
	sess := openSession(t, svc)
	return service.NewRewriteService(rw, time.Second, &service.MockEmitter{}, logger.Nop()), sess
}

func setContent(t *testing.T, sess *service.Session, id, text string) {
	t.Helper()
	res := sess.Do(context.Background(), func(c *editor.Controller) domain.Result {
		return c.UpdateBlock(0, id, domain.BlockPatch{Content: &text})
	})
	require.True(t, res.OK())
}

func TestRewriteService_Applies(t *testing.T) {
	rs, sess := newRewrite(t, &fakeRewriter{out: "Texto revisado."}, true)
	id := sess.Document().Sections[0].Blocks[0].ID
	setContent(t, sess, id, "texto rascunho")

	job, err := rs.Rewrite(context.Background(), sess, 0, id)
	require.NoError(t, err)
	res, err := waitJob(t, job)
	require.NoError(t, err)
	assert.True(t, res.Changed())
	assert.Equal(t, "Texto revisado.", blockByID(sess, id).Content)
}

func TestRewriteService_Disabled(t *testing.T) {
	rs, sess := newRewrite(t, &fakeRewriter{out: "x"}, false)
	id := sess.Document().Sections[0].Blocks[0].ID
	_, err := rs.Rewrite(context.Background(), sess, 0, id)
	assert.ErrorIs(t, err, service.ErrRewriteDisabled)

	rs, sess = newRewrite(t, nil, true)
	assert.False(t, rs.Available(sess))
}

func TestRewriteService_RejectsTargets(t *testing.T) {
	rs, sess := newRewrite(t, &fakeRewriter{out: "x"}, true)
	heading := addBlock(t, sess, domain.BlockTypeHeading)

	_, err := rs.Rewrite(context.Background(), sess, 0, heading)
	assert.ErrorIs(t, err, service.ErrNotRewritable)
	_, err = rs.Rewrite(context.Background(), sess, 0, "missing")
	assert.ErrorIs(t, err, service.ErrBlockNotFound)
}

func TestRewriteService_OnePerBlock(t *testing.T) {
	fr := &fakeRewriter{out: "novo", release: make(chan struct{})}
	rs, sess := newRewrite(t, fr, true)
	first := sess.Document().Sections[0].Blocks[0].ID
	other := addBlock(t, sess, domain.BlockTypeQuote)

	job, err := rs.Rewrite(context.Background(), sess, 0, first)
	require.NoError(t, err)
	assert.True(t, rs.IsPending(sess, first))

	_, err = rs.Rewrite(context.Background(), sess, 0, first)
	assert.ErrorIs(t, err, service.ErrRewritePending)

	otherJob, err := rs.Rewrite(context.Background(), sess, 0, other)
	require.NoError(t, err, "different blocks may rewrite concurrently")

	close(fr.release)
	_, err = waitJob(t, job)
	require.NoError(t, err)
	_, err = waitJob(t, otherJob)
	require.NoError(t, err)
	rs.Wait(context.Background())
	assert.False(t, rs.IsPending(sess, first))
}

func TestRewriteService_StaleResultDropped(t *testing.T) {
	fr := &fakeRewriter{out: "versão da IA", release: make(chan struct{})}
	rs, sess := newRewrite(t, fr, true)
	id := sess.Document().Sections[0].Blocks[0].ID

	job, err := rs.Rewrite(context.Background(), sess, 0, id)
	require.NoError(t, err)
	setContent(t, sess, id, "edição manual")
	close(fr.release)

	res, err := waitJob(t, job)
	require.NoError(t, err)
	assert.Equal(t, domain.Rejected(domain.ReasonStaleRevision), res)
	assert.Equal(t, "edição manual", blockByID(sess, id).Content)
}

func TestRewriteService_EmptyOrFailedLeavesBlock(t *testing.T) {
	for name, rw := range map[string]*fakeRewriter{
		"empty": {out: ""},
		"error": {err: errors.New("upstream down")},
	} {
		t.Run(name, func(t *testing.T) {
			rs, sess := newRewrite(t, rw, true)
			id := sess.Document().Sections[0].Blocks[0].ID
			setContent(t, sess, id, "original")
			doc := sess.Document()

			job, err := rs.Rewrite(context.Background(), sess, 0, id)
			require.NoError(t, err)
			res, err := waitJob(t, job)
			if rw.err != nil {
				assert.ErrorContains(t, err, "upstream down")
			} else {
				require.NoError(t, err)
				assert.Equal(t, domain.Unchanged(), res)
			}
			assert.Same(t, doc, sess.Document())
		})
	}
}
