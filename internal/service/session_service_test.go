package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainings/internal/domain"
	"trainings/internal/editor"
	"trainings/internal/service"
)

func TestSessionService_OpenNewTraining(t *testing.T) {
	svc, _, _ := newSessions(t, nil)
	sess := openSession(t, svc)

	doc := sess.Document()
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, domain.BootstrapSectionTitle, doc.Sections[0].Title)
	assert.False(t, sess.RewriteEnabled())

	again, err := svc.Open(context.Background(), "t1", acme)
	require.NoError(t, err)
	assert.Same(t, sess, again)

	fresh, err := svc.Open(context.Background(), "", acme)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.ID)
	assert.NotEqual(t, "t1", fresh.ID)
}

func TestSessionService_OpenExistingAndForbidden(t *testing.T) {
	svc, store, _ := newSessions(t, service.StaticCapability(true))
	doc := domain.NewDocument()
	doc.Sections[0].Title = "Boas-vindas"
	require.NoError(t, store.SaveTraining(context.Background(), &domain.Training{ID: "t1", CompanyID: "acme", Title: "Onboarding", Document: doc}))

	sess := openSession(t, svc)
	assert.Equal(t, "Boas-vindas", sess.Document().Sections[0].Title)
	assert.Equal(t, "Onboarding", sess.Title())
	assert.True(t, sess.RewriteEnabled())

	_, err := svc.Open(context.Background(), "t1", domain.Principal{CompanyID: "other"})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestSessionService_CapabilityErrorDisablesRewrite(t *testing.T) {
	failing := service.CapabilityFunc(func(context.Context, domain.Principal) (bool, error) {
		return true, errors.New("entitlements unavailable")
	})
	svc, _, _ := newSessions(t, failing)
	assert.False(t, openSession(t, svc).RewriteEnabled())
}

func TestSession_DoTracksRevisions(t *testing.T) {
	svc, _, em := newSessions(t, nil)
	sess := openSession(t, svc)
	ctx := context.Background()

	rev, dirty := sess.Revision()
	assert.Zero(t, rev)
	assert.False(t, dirty)

	res := sess.Do(ctx, func(c *editor.Controller) domain.Result {
		_, r := c.AddBlock(0, domain.BlockTypeHeading)
		return r
	})
	require.True(t, res.Changed())
	rev, dirty = sess.Revision()
	assert.Equal(t, uint64(1), rev)
	assert.True(t, dirty)
	assert.Equal(t, []string{service.EventDocumentChanged}, em.Names())

	// Unchanged and rejected commands do not bump the revision.
	sess.Do(ctx, func(c *editor.Controller) domain.Result { return c.DeleteSection(0) })
	sess.Do(ctx, func(c *editor.Controller) domain.Result { return c.SetActiveSection(0) })
	rev, _ = sess.Revision()
	assert.Equal(t, uint64(1), rev)
	assert.Len(t, em.Names(), 1)
}

func TestSessionService_SaveAndDirty(t *testing.T) {
	svc, store, em := newSessions(t, nil)
	sess := openSession(t, svc)
	ctx := context.Background()

	var hooked []string
	svc.OnSave(func(_ context.Context, tr *domain.Training) { hooked = append(hooked, tr.ID) })

	require.True(t, sess.SetTitle(ctx, "Segurança").Changed())
	assert.Equal(t, []string{"t1"}, svc.DirtySessions())

	require.NoError(t, svc.Save(ctx, "t1"))
	assert.Empty(t, svc.DirtySessions())
	assert.Equal(t, []string{"t1"}, hooked)
	assert.Contains(t, em.Names(), service.EventTrainingSaved)

	saved, err := store.GetTraining(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Segurança", saved.Title)
	assert.Equal(t, "acme", saved.CompanyID)

	list, err := svc.List(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSessionService_SaveFailureKeepsDirty(t *testing.T) {
	svc, store, _ := newSessions(t, nil)
	sess := openSession(t, svc)
	ctx := context.Background()
	sess.SetTitle(ctx, "x")

	store.err = errors.New("disk full")
	assert.ErrorContains(t, svc.Save(ctx, "t1"), "disk full")
	assert.Zero(t, svc.SaveDirty(ctx))
	assert.Equal(t, []string{"t1"}, svc.DirtySessions())

	store.err = nil
	assert.Equal(t, 1, svc.SaveDirty(ctx))
}

func TestSessionService_CloseAndImport(t *testing.T) {
	svc, _, _ := newSessions(t, nil)
	openSession(t, svc)
	ctx := context.Background()

	imported := &domain.Document{Sections: []*domain.Section{
		{Title: "A", Blocks: []*domain.Block{{Type: domain.BlockTypeQuote, Content: "citação"}}},
		{Title: "B"},
	}}
	require.NoError(t, svc.Import(ctx, "t1", imported))

	sess, err := svc.Get("t1")
	require.NoError(t, err)
	doc := sess.Document()
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "citação", doc.Sections[0].Blocks[0].Content)
	assert.Len(t, doc.Sections[1].Blocks, 1)

	bad := &domain.Document{Sections: []*domain.Section{{Blocks: []*domain.Block{{Type: "table"}}}}}
	assert.Error(t, svc.Import(ctx, "t1", bad))

	require.NoError(t, svc.Close("t1"))
	_, err = svc.Get("t1")
	assert.ErrorIs(t, err, service.ErrSessionNotOpen)
	assert.ErrorIs(t, svc.Close("t1"), service.ErrSessionNotOpen)
	assert.ErrorIs(t, svc.Import(ctx, "t1", imported), service.ErrSessionNotOpen)
}

func TestSession_Drag(t *testing.T) {
	svc, _, _ := newSessions(t, nil)
	sess := openSession(t, svc)
	ctx := context.Background()

	var first, second string
	sess.View(func(c *editor.Controller) { first = c.Document().Sections[0].ID })
	sess.Do(ctx, func(c *editor.Controller) domain.Result {
		var r domain.Result
		second, r = c.AddSection()
		return r
	})

	require.True(t, sess.Drag(ctx, func(r *editor.Reorderer) domain.Result { return r.BeginSectionDrag(second) }).OK())
	require.True(t, sess.Drag(ctx, func(r *editor.Reorderer) domain.Result { return r.End(first) }).Changed())
	assert.Equal(t, second, sess.Document().Sections[0].ID)
}
