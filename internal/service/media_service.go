package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"trainings/internal/domain"
	"trainings/internal/editor"
	"trainings/internal/logger"
	"trainings/internal/storage"
)

// MediaStore turns ingested bytes into a media reference.
type MediaStore interface {
	Put(ctx context.Context, m storage.Media) (string, error)
}

// MediaEvent is the payload of the media:* events.
type MediaEvent struct {
	TrainingID string `json:"trainingId"`
	BlockID    string `json:"blockId"`
	Filename   string `json:"filename,omitempty"`
	MediaURL   string `json:"mediaUrl,omitempty"`
	Error      string `json:"error,omitempty"`
	Outcome    string `json:"outcome,omitempty"`
}

// MediaService ingests image and video payloads into media blocks. Reading,
// sniffing and storing run off the caller's goroutine; the resulting
// reference is applied to the block exactly once, unless a later ingestion
// for the same block was issued or the block changed in the meantime.
type MediaService struct {
	store    MediaStore
	maxBytes int64
	emitter  EventEmitter
	log      *logger.Logger

	mu      sync.Mutex
	seq     uint64
	latest  map[string]uint64 // block key -> ticket of the latest ingestion
	pending map[string]int    // block key -> ingestions in flight
	wg      sync.WaitGroup
}

func NewMediaService(store MediaStore, maxBytes int64, emitter EventEmitter, log *logger.Logger) *MediaService {
	return &MediaService{
		store:    store,
		maxBytes: maxBytes,
		emitter:  emitter,
		log:      log.With("service", "MediaService"),
		latest:   make(map[string]uint64),
		pending:  make(map[string]int),
	}
}

func blockKey(sess *Session, blockID string) string {
	return sess.ID + "/" + blockID
}

// mediaTarget validates that blockID names an image or video block of section si.
func mediaTarget(sess *Session, si int, blockID string) (domain.BlockType, uint64, error) {
	var (
		t   domain.BlockType
		rev uint64
		err error
	)
	sess.View(func(c *editor.Controller) {
		b, ok := c.Block(si, blockID)
		if !ok {
			err = fmt.Errorf("%s: %w", blockID, ErrBlockNotFound)
			return
		}
		if !b.Type.HasMedia() {
			err = ErrNotMediaBlock
			return
		}
		t = b.Type
		rev, _ = c.Revision(blockID)
	})
	return t, rev, err
}

// Ingest starts reading r into the media block blockID of section si.
// Validation of the target happens before Ingest returns.
func (m *MediaService) Ingest(ctx context.Context, sess *Session, si int, blockID string, r io.Reader, filename string) (*Job, error) {
	blockType, rev, err := mediaTarget(sess, si, blockID)
	if err != nil {
		return nil, err
	}

	key := blockKey(sess, blockID)
	m.mu.Lock()
	m.seq++
	ticket := m.seq
	m.latest[key] = ticket
	m.pending[key]++
	m.mu.Unlock()
	m.wg.Add(1)

	ev := MediaEvent{TrainingID: sess.ID, BlockID: blockID, Filename: filename}
	m.emitter.Emit(ctx, EventMediaStarted, ev)

	job := newJob()
	bg := context.WithoutCancel(ctx)
	go func() {
		defer m.wg.Done()
		res, err := m.ingest(bg, sess, blockID, blockType, rev, ticket, r)
		m.mu.Lock()
		if m.pending[key]--; m.pending[key] <= 0 {
			delete(m.pending, key)
			if m.latest[key] == ticket {
				delete(m.latest, key)
			}
		}
		m.mu.Unlock()

		if err != nil {
			ev.Error = err.Error()
			m.log.Warn("media ingestion failed", "training_id", sess.ID, "block_id", blockID, "error", err)
			m.emitter.Emit(bg, EventMediaFailed, ev)
		} else {
			ev.Outcome = res.String()
			m.emitter.Emit(bg, EventMediaCompleted, ev)
		}
		job.finish(res, err)
	}()
	return job, nil
}

func (m *MediaService) ingest(ctx context.Context, sess *Session, blockID string, blockType domain.BlockType, rev, ticket uint64, r io.Reader) (domain.Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, m.maxBytes+1))
	if err != nil {
		return domain.Result{}, fmt.Errorf("read media: %w", err)
	}
	if int64(len(data)) > m.maxBytes {
		return domain.Result{}, ErrMediaTooLarge
	}
	mt := mimetype.Detect(data)
	if !matchesBlock(mt, blockType) {
		return domain.Result{}, fmt.Errorf("%w: got %s for %s block", ErrMediaTypeMismatch, mt.String(), blockType)
	}
	ref, err := m.store.Put(ctx, storage.Media{
		BlockID:   blockID,
		MIME:      baseMIME(mt),
		Extension: mt.Extension(),
		Data:      data,
	})
	if err != nil {
		return domain.Result{}, fmt.Errorf("store media: %w", err)
	}

	return sess.Do(ctx, func(c *editor.Controller) domain.Result {
		m.mu.Lock()
		superseded := m.latest[blockKey(sess, blockID)] != ticket
		m.mu.Unlock()
		if superseded {
			return domain.Rejected(domain.ReasonStaleRevision)
		}
		si, _, ok := c.Document().FindBlock(blockID)
		if !ok {
			return domain.Rejected(domain.ReasonUnknownBlock)
		}
		return c.UpdateBlockAt(si, blockID, domain.BlockPatch{MediaURL: &ref}, rev)
	}), nil
}

func matchesBlock(mt *mimetype.MIME, t domain.BlockType) bool {
	prefix := "image/"
	if t == domain.BlockTypeVideo {
		prefix = "video/"
	}
	for ; mt != nil; mt = mt.Parent() {
		if strings.HasPrefix(mt.String(), prefix) {
			return true
		}
	}
	return false
}

func baseMIME(mt *mimetype.MIME) string {
	s, _, _ := strings.Cut(mt.String(), ";")
	return s
}

// IsIngesting reports whether an ingestion for the block is in flight.
func (m *MediaService) IsIngesting(sess *Session, blockID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[blockKey(sess, blockID)] > 0
}

// SetURL points a media block at an external http(s) URL.
func (m *MediaService) SetURL(ctx context.Context, sess *Session, si int, blockID, rawURL string) domain.Result {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.Rejected(domain.ReasonInvalidValue)
	}
	ref := u.String()
	return sess.Do(ctx, func(c *editor.Controller) domain.Result {
		return c.UpdateBlock(si, blockID, domain.BlockPatch{MediaURL: &ref})
	})
}

// Clear removes the media reference of a block.
func (m *MediaService) Clear(ctx context.Context, sess *Session, si int, blockID string) domain.Result {
	empty := ""
	return sess.Do(ctx, func(c *editor.Controller) domain.Result {
		return c.UpdateBlock(si, blockID, domain.BlockPatch{MediaURL: &empty})
	})
}

// Wait blocks until every ingestion in flight has finished or ctx ends.
func (m *MediaService) Wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
