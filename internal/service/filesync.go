package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"trainings/internal/domain"
	"trainings/internal/logger"
)

// FileSync mirrors saved documents as <dir>/<trainingID>.json and, while
// watching, loads external edits of those files back into open sessions.
type FileSync struct {
	dir      string
	sessions *SessionService
	log      *logger.Logger

	mu      sync.Mutex
	written map[string][sha256.Size]byte // path -> hash of the last content seen
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
}

func NewFileSync(dir string, sessions *SessionService, log *logger.Logger) (*FileSync, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &FileSync{
		dir:      dir,
		sessions: sessions,
		log:      log.With("service", "FileSync"),
		written:  make(map[string][sha256.Size]byte),
	}, nil
}

// Path returns the export file of a training.
func (f *FileSync) Path(trainingID string) string {
	return filepath.Join(f.dir, trainingID+".json")
}

// Export writes the document of t. It is registered as a SessionService save hook.
func (f *FileSync) Export(_ context.Context, t *domain.Training) {
	if err := f.export(t); err != nil {
		f.log.Error("export failed", "training_id", t.ID, "error", err)
	}
}

func (f *FileSync) export(t *domain.Training) error {
	data, err := t.Document.Marshal()
	if err != nil {
		return err
	}
	path := f.Path(t.ID)
	f.mu.Lock()
	f.written[path] = sha256.Sum256(data)
	f.mu.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Reload reads an export file and imports it into its open session. Files
// whose content matches what was last exported or loaded are ignored.
func (f *FileSync) Reload(ctx context.Context, path string) error {
	trainingID := strings.TrimSuffix(filepath.Base(path), ".json")
	sess, err := f.sessions.Get(trainingID)
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	f.mu.Lock()
	same := f.written[path] == sum
	f.written[path] = sum
	f.mu.Unlock()
	if same {
		return nil
	}

	doc, err := domain.ParseDocument(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := sess.replace(ctx, doc); err != nil {
		return err
	}
	f.log.Info("reloaded external edit", "training_id", trainingID, "path", path)
	return nil
}

// Watch starts watching the export directory until Close.
func (f *FileSync) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(f.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", f.dir, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.mu.Lock()
	f.watcher, f.cancel = watcher, cancel
	f.mu.Unlock()

	go func() {
		timers := make(map[string]*time.Timer)
		for {
			select {
			case <-ctx.Done():
				for _, t := range timers {
					t.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if filepath.Ext(event.Name) != ".json" {
					continue
				}
				path := event.Name
				if t, exists := timers[path]; exists {
					t.Stop()
				}
				timers[path] = time.AfterFunc(200*time.Millisecond, func() {
					if err := f.Reload(ctx, path); err != nil && !errors.Is(err, context.Canceled) {
						f.log.Warn("reload failed", "path", path, "error", err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.log.Warn("watcher error", "error", err)
			}
		}
	}()
	return nil
}

// Close stops watching.
func (f *FileSync) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	if f.watcher != nil {
		err := f.watcher.Close()
		f.watcher = nil
		return err
	}
	return nil
}
