package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"trainings/internal/domain"
	"trainings/internal/editor"
	"trainings/internal/logger"
)

// SessionService opens, saves and closes editing sessions.
type SessionService struct {
	store   domain.TrainingStore
	caps    domain.CapabilityChecker
	emitter EventEmitter
	log     *logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	onSave   []func(ctx context.Context, t *domain.Training)
}

func NewSessionService(store domain.TrainingStore, caps domain.CapabilityChecker, emitter EventEmitter, log *logger.Logger) *SessionService {
	if caps == nil {
		caps = StaticCapability(false)
	}
	return &SessionService{
		store:    store,
		caps:     caps,
		emitter:  emitter,
		log:      log.With("service", "SessionService"),
		sessions: make(map[string]*Session),
	}
}

// OnSave registers a hook run after every successful save.
func (s *SessionService) OnSave(fn func(ctx context.Context, t *domain.Training)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSave = append(s.onSave, fn)
}

// Open starts a session over trainingID, creating the training when it does
// not exist yet. An empty id creates a new training. Opening an already open
// training returns the existing session.
func (s *SessionService) Open(ctx context.Context, trainingID string, p domain.Principal) (*Session, error) {
	if trainingID != "" {
		s.mu.Lock()
		existing, ok := s.sessions[trainingID]
		s.mu.Unlock()
		if ok {
			if existing.companyID != p.CompanyID {
				return nil, ErrForbidden
			}
			return existing, nil
		}
	}

	t, err := s.load(ctx, trainingID, p)
	if err != nil {
		return nil, err
	}
	ctrl, err := editor.Hydrate(t.Document)
	if err != nil {
		return nil, fmt.Errorf("open training %s: %w", t.ID, err)
	}

	rewrite, err := s.caps.RewriteEnabled(ctx, p)
	if err != nil {
		s.log.Warn("capability check failed, rewrite disabled", "training_id", t.ID, "error", err)
		rewrite = false
	}

	sess := newSession(t, p, ctrl, rewrite, s.emitter)
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[t.ID]; ok {
		return existing, nil
	}
	s.sessions[t.ID] = sess
	s.log.Info("session opened", "training_id", t.ID, "rewrite", rewrite, "sections", len(ctrl.Document().Sections))
	return sess, nil
}

func (s *SessionService) load(ctx context.Context, trainingID string, p domain.Principal) (*domain.Training, error) {
	if trainingID == "" {
		return &domain.Training{ID: domain.NewID(), CompanyID: p.CompanyID}, nil
	}
	t, err := s.store.GetTraining(ctx, trainingID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Training{ID: trainingID, CompanyID: p.CompanyID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load training %s: %w", trainingID, err)
	}
	if t.CompanyID != p.CompanyID {
		return nil, ErrForbidden
	}
	return t, nil
}

// Get returns an open session.
func (s *SessionService) Get(trainingID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[trainingID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", trainingID, ErrSessionNotOpen)
	}
	return sess, nil
}

// Save persists the current document of a session.
func (s *SessionService) Save(ctx context.Context, trainingID string) error {
	sess, err := s.Get(trainingID)
	if err != nil {
		return err
	}
	t, rev := sess.snapshot()
	if err := s.store.SaveTraining(ctx, t); err != nil {
		return fmt.Errorf("save training %s: %w", trainingID, err)
	}
	sess.markSaved(rev)
	s.emitter.Emit(ctx, EventTrainingSaved, DocumentChange{TrainingID: trainingID, Revision: rev})

	s.mu.Lock()
	hooks := append([]func(context.Context, *domain.Training){}, s.onSave...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn(ctx, t)
	}
	return nil
}

// Close ends a session without saving.
func (s *SessionService) Close(trainingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[trainingID]; !ok {
		return fmt.Errorf("%s: %w", trainingID, ErrSessionNotOpen)
	}
	delete(s.sessions, trainingID)
	s.log.Info("session closed", "training_id", trainingID)
	return nil
}

// Import replaces the whole document of an open session.
func (s *SessionService) Import(ctx context.Context, trainingID string, doc *domain.Document) error {
	sess, err := s.Get(trainingID)
	if err != nil {
		return err
	}
	if err := sess.replace(ctx, doc); err != nil {
		return fmt.Errorf("import into %s: %w", trainingID, err)
	}
	return nil
}

// DirtySessions lists the ids of sessions holding unsaved changes.
func (s *SessionService) DirtySessions() []string {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	var ids []string
	for _, sess := range sessions {
		if _, dirty := sess.Revision(); dirty {
			ids = append(ids, sess.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// SaveDirty saves every session with unsaved changes and returns how many were saved.
func (s *SessionService) SaveDirty(ctx context.Context) int {
	saved := 0
	for _, id := range s.DirtySessions() {
		if err := s.Save(ctx, id); err != nil {
			s.log.Error("save failed", "training_id", id, "error", err)
			continue
		}
		saved++
	}
	return saved
}

// List returns the trainings of a company.
func (s *SessionService) List(ctx context.Context, companyID string) ([]domain.TrainingSummary, error) {
	return s.store.ListTrainings(ctx, companyID)
}
