package service

import (
	"context"
	"fmt"
	"time"

	"trainings/internal/domain"
	"trainings/internal/editor"
	"trainings/internal/logger"
)

// Rewriter produces an improved version of a text. An empty result means
// there is nothing to change.
type Rewriter interface {
	Rewrite(ctx context.Context, text string) (string, error)
}

// RewriteEvent is the payload of the rewrite:* events.
type RewriteEvent struct {
	TrainingID string `json:"trainingId"`
	BlockID    string `json:"blockId"`
	Outcome    string `json:"outcome,omitempty"`
	Error      string `json:"error,omitempty"`
}

// RewriteService runs assisted rewrites of text and quote blocks. At most
// one rewrite per block runs at a time; different blocks run concurrently.
type RewriteService struct {
	rewriter Rewriter
	timeout  time.Duration
	emitter  EventEmitter
	log      *logger.Logger
	running  runningJobsGuard
}

// NewRewriteService returns a service using rewriter. A nil rewriter
// disables the feature for every session.
func NewRewriteService(rewriter Rewriter, timeout time.Duration, emitter EventEmitter, log *logger.Logger) *RewriteService {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &RewriteService{
		rewriter: rewriter,
		timeout:  timeout,
		emitter:  emitter,
		log:      log.With("service", "RewriteService"),
	}
}

// Available reports whether sess may request rewrites.
func (s *RewriteService) Available(sess *Session) bool {
	return s.rewriter != nil && sess.RewriteEnabled()
}

// Rewrite starts rewriting block blockID of section si.
func (s *RewriteService) Rewrite(ctx context.Context, sess *Session, si int, blockID string) (*Job, error) {
	if !s.Available(sess) {
		return nil, ErrRewriteDisabled
	}

	var (
		content string
		rev     uint64
		err     error
	)
	sess.View(func(c *editor.Controller) {
		b, ok := c.Block(si, blockID)
		if !ok {
			err = fmt.Errorf("%s: %w", blockID, ErrBlockNotFound)
			return
		}
		if b.Type != domain.BlockTypeText && b.Type != domain.BlockTypeQuote {
			err = ErrNotRewritable
			return
		}
		content = b.Content
		rev, _ = c.Revision(blockID)
	})
	if err != nil {
		return nil, err
	}

	key := blockKey(sess, blockID)
	if !s.running.TryLock(key) {
		return nil, ErrRewritePending
	}
	ev := RewriteEvent{TrainingID: sess.ID, BlockID: blockID}
	s.emitter.Emit(ctx, EventRewriteStarted, ev)

	job := newJob()
	bg := context.WithoutCancel(ctx)
	go func() {
		defer s.running.Unlock(key)
		res, err := s.run(bg, sess, blockID, content, rev)
		if err != nil {
			ev.Error = err.Error()
			s.log.Warn("rewrite failed", "training_id", sess.ID, "block_id", blockID, "error", err)
			s.emitter.Emit(bg, EventRewriteFailed, ev)
		} else {
			ev.Outcome = res.String()
			s.emitter.Emit(bg, EventRewriteDone, ev)
		}
		job.finish(res, err)
	}()
	return job, nil
}

func (s *RewriteService) run(ctx context.Context, sess *Session, blockID, content string, rev uint64) (domain.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	out, err := s.rewriter.Rewrite(ctx, content)
	if err != nil {
		return domain.Result{}, fmt.Errorf("rewrite: %w", err)
	}
	if out == "" {
		return domain.Unchanged(), nil
	}
	return sess.Do(ctx, func(c *editor.Controller) domain.Result {
		si, _, ok := c.Document().FindBlock(blockID)
		if !ok {
			return domain.Rejected(domain.ReasonUnknownBlock)
		}
		return c.UpdateBlockAt(si, blockID, domain.BlockPatch{Content: &out}, rev)
	}), nil
}

// IsPending reports whether a rewrite for the block is running.
func (s *RewriteService) IsPending(sess *Session, blockID string) bool {
	return s.running.IsRunning(blockKey(sess, blockID))
}

// Wait blocks until running rewrites finish or ctx ends.
func (s *RewriteService) Wait(ctx context.Context) {
	s.running.WaitAll(ctx)
}
