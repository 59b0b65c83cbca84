package service

import (
	"context"
	"sync"

	"trainings/internal/domain"
	"trainings/internal/editor"
)

// Session is one open editing session over a training. Every command runs
// under the session lock, including completions of asynchronous jobs.
type Session struct {
	ID        string
	Principal domain.Principal

	mu             sync.Mutex
	companyID      string
	title          string
	ctrl           *editor.Controller
	reorder        *editor.Reorderer
	rewriteEnabled bool
	revision       uint64 // bumped whenever the document changes
	savedRevision  uint64
	emitter        EventEmitter
}

// DocumentChange is the payload of EventDocumentChanged.
type DocumentChange struct {
	TrainingID string `json:"trainingId"`
	Revision   uint64 `json:"revision"`
}

func newSession(t *domain.Training, p domain.Principal, ctrl *editor.Controller, rewrite bool, emitter EventEmitter) *Session {
	return &Session{
		ID:             t.ID,
		Principal:      p,
		companyID:      t.CompanyID,
		title:          t.Title,
		ctrl:           ctrl,
		reorder:        editor.NewReorderer(ctrl),
		rewriteEnabled: rewrite,
		emitter:        emitter,
	}
}

// Do runs a command against the controller.
func (s *Session) Do(ctx context.Context, fn func(c *editor.Controller) domain.Result) domain.Result {
	s.mu.Lock()
	before := s.ctrl.Document()
	res := fn(s.ctrl)
	changed := s.ctrl.Document() != before
	if changed {
		s.revision++
	}
	rev := s.revision
	s.mu.Unlock()

	if changed {
		s.emitter.Emit(ctx, EventDocumentChanged, DocumentChange{TrainingID: s.ID, Revision: rev})
	}
	return res
}

// Drag runs a reorder gesture step. The reorder layer keeps its gesture
// state between calls.
func (s *Session) Drag(ctx context.Context, fn func(r *editor.Reorderer) domain.Result) domain.Result {
	return s.Do(ctx, func(*editor.Controller) domain.Result {
		return fn(s.reorder)
	})
}

// View runs fn with read access to the controller.
func (s *Session) View(fn func(c *editor.Controller)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ctrl)
}

// Document returns the current immutable document.
func (s *Session) Document() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Document()
}

// Revision returns the document revision and whether it is unsaved.
func (s *Session) Revision() (rev uint64, dirty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision, s.revision != s.savedRevision
}

// RewriteEnabled reports the capability cached when the session was opened.
func (s *Session) RewriteEnabled() bool {
	return s.rewriteEnabled
}

// Title returns the training title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// SetTitle renames the training. It counts as a document change.
func (s *Session) SetTitle(ctx context.Context, title string) domain.Result {
	s.mu.Lock()
	if s.title == title {
		s.mu.Unlock()
		return domain.Unchanged()
	}
	s.title = title
	s.revision++
	rev := s.revision
	s.mu.Unlock()
	s.emitter.Emit(ctx, EventDocumentChanged, DocumentChange{TrainingID: s.ID, Revision: rev})
	return domain.Applied()
}

// replace swaps the whole document, as when a newer copy is imported.
func (s *Session) replace(ctx context.Context, doc *domain.Document) error {
	s.mu.Lock()
	if err := s.ctrl.Hydrate(doc); err != nil {
		s.mu.Unlock()
		return err
	}
	s.reorder.Cancel()
	s.revision++
	rev := s.revision
	s.mu.Unlock()
	s.emitter.Emit(ctx, EventDocumentChanged, DocumentChange{TrainingID: s.ID, Revision: rev})
	return nil
}

// snapshot returns the record to persist and the revision it holds.
func (s *Session) snapshot() (*domain.Training, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &domain.Training{
		ID:        s.ID,
		CompanyID: s.companyID,
		Title:     s.title,
		Document:  s.ctrl.Document(),
	}, s.revision
}

func (s *Session) markSaved(rev uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rev > s.savedRevision {
		s.savedRevision = rev
	}
}
