package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trainings/internal/config"
	"trainings/internal/domain"
	"trainings/internal/logger"
	mcpserver "trainings/internal/mcp"
	"trainings/internal/rewrite"
	"trainings/internal/secret"
	"trainings/internal/service"
	"trainings/internal/storage"
)

const shutdownTimeout = 30 * time.Second

// App wires the configured stores and services together.
type App struct {
	cfg *config.Config
	log *logger.Logger

	store    domain.TrainingStore
	secrets  secret.SecretStore
	notifier *mcpserver.Notifier

	sessions *service.SessionService
	media    *service.MediaService
	rewrite  *service.RewriteService
	autosave *service.Autosaver
	sync     *service.FileSync
}

// New builds the app from cfg. Nothing runs until Startup.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{
		cfg:      cfg,
		log:      log,
		secrets:  secret.Chain{secret.NewEnvStore(), secret.NewKeychainStore()},
		notifier: mcpserver.NewNotifier(log),
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.store = store

	media, err := a.mediaStore()
	if err != nil {
		store.Close()
		return nil, err
	}
	rewriter, err := a.rewriter()
	if err != nil {
		store.Close()
		return nil, err
	}

	caps := service.CapabilityFunc(func(_ context.Context, p domain.Principal) (bool, error) {
		return cfg.Rewrite.RoleEnabled(p.Role), nil
	})
	a.sessions = service.NewSessionService(store, caps, a.notifier, log)
	a.media = service.NewMediaService(media, cfg.GetMaxMediaBytes(), a.notifier, log)
	a.rewrite = service.NewRewriteService(rewriter, cfg.Rewrite.GetTimeout(), a.notifier, log)

	if cfg.Autosave.Schedule != "" {
		a.autosave, err = service.NewAutosaver(a.sessions, cfg.Autosave.Schedule, log)
		if err != nil {
			store.Close()
			return nil, err
		}
	}
	if cfg.Sync.ExportDir != "" {
		a.sync, err = service.NewFileSync(cfg.Sync.ExportDir, a.sessions, log)
		if err != nil {
			store.Close()
			return nil, err
		}
		a.sessions.OnSave(a.sync.Export)
	}
	return a, nil
}

func (a *App) secretValue(key string) (string, error) {
	if key == "" {
		return "", nil
	}
	v, err := secret.Lookup(a.secrets, key)
	if err != nil {
		return "", fmt.Errorf("secret %s: %w", key, err)
	}
	return v, nil
}

func (a *App) openStore(ctx context.Context) (domain.TrainingStore, error) {
	password, err := a.secretValue(a.cfg.Storage.PasswordSecret)
	if err != nil {
		return nil, err
	}
	driver := a.cfg.GetStorageDriver()
	dsn := storage.ExpandDSN(a.cfg.GetStorageDSN(), password)

	if driver == "mongo" {
		store, err := storage.OpenMongo(ctx, dsn, a.cfg.Storage.Database)
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		return store, nil
	}
	db, err := storage.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	a.log.Info("storage ready", "driver", driver)
	return storage.NewTrainingStore(db), nil
}

func (a *App) mediaStore() (service.MediaStore, error) {
	if a.cfg.Media.Mode != "disk" {
		return storage.InlineMediaStore{}, nil
	}
	store, err := storage.NewDiskMediaStore(a.cfg.GetMediaDir(), a.cfg.Media.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("open media dir: %w", err)
	}
	return store, nil
}

// rewriter returns nil when rewrite assistance is turned off.
func (a *App) rewriter() (service.Rewriter, error) {
	rc := a.cfg.Rewrite
	if !rc.Enabled {
		return nil, nil
	}
	key, err := a.secretValue(rc.APIKeySecret)
	if err != nil {
		return nil, err
	}
	client, err := rewrite.New(a.log, rewrite.Config{
		BaseURL:           rc.BaseURL,
		APIKey:            key,
		Model:             rc.Model,
		RequestsPerMinute: rc.RequestsPerMinute,
		Timeout:           rc.GetTimeout(),
		MaxRetries:        3,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Startup starts the background work: autosave and the export watcher.
func (a *App) Startup(ctx context.Context) error {
	if a.autosave != nil {
		a.autosave.Start()
	}
	if a.sync != nil && a.cfg.Sync.Watch {
		if err := a.sync.Watch(); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown waits for in-flight jobs, saves what is still dirty and closes the store.
func (a *App) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if a.autosave != nil {
		a.autosave.Stop()
	}
	a.media.Wait(ctx)
	a.rewrite.Wait(ctx)
	if n := a.sessions.SaveDirty(ctx); n > 0 {
		a.log.Info("saved on shutdown", "sessions", n)
	}

	var errs []error
	if a.sync != nil {
		errs = append(errs, a.sync.Close())
	}
	errs = append(errs, a.store.Close())
	return errors.Join(errs...)
}

// MCP returns the MCP server over the app's services.
func (a *App) MCP() *mcpserver.Server {
	p := a.cfg.Principal
	return mcpserver.New(mcpserver.Deps{
		Sessions:  a.sessions,
		Media:     a.media,
		Rewrite:   a.rewrite,
		Principal: domain.Principal{UserID: p.UserID, CompanyID: p.CompanyID, Role: p.Role},
		Notifier:  a.notifier,
		Log:       a.log,
	})
}
