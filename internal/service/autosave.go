package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"trainings/internal/logger"
)

// Autosaver periodically saves sessions holding unsaved changes.
type Autosaver struct {
	sessions *SessionService
	cron     *cron.Cron
	log      *logger.Logger
}

// NewAutosaver schedules autosave with a cron spec such as "@every 30s".
func NewAutosaver(sessions *SessionService, schedule string, log *logger.Logger) (*Autosaver, error) {
	a := &Autosaver{sessions: sessions, cron: cron.New(), log: log.With("service", "Autosaver")}
	if _, err := a.cron.AddFunc(schedule, a.Run); err != nil {
		return nil, fmt.Errorf("autosave schedule %q: %w", schedule, err)
	}
	return a, nil
}

// Run saves every dirty session once.
func (a *Autosaver) Run() {
	if n := a.sessions.SaveDirty(context.Background()); n > 0 {
		a.log.Info("autosaved", "sessions", n)
	}
}

func (a *Autosaver) Start() {
	a.cron.Start()
}

// Stop stops the schedule and waits for a running save to finish.
func (a *Autosaver) Stop() {
	<-a.cron.Stop().Done()
}
