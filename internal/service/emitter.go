package service

import (
	"context"
	"sync"

	"trainings/internal/logger"
)

// Events emitted by the services.
const (
	EventDocumentChanged = "document:changed"
	EventTrainingSaved   = "training:saved"
	EventMediaStarted    = "media:started"
	EventMediaCompleted  = "media:completed"
	EventMediaFailed     = "media:failed"
	EventRewriteStarted  = "rewrite:started"
	EventRewriteDone     = "rewrite:completed"
	EventRewriteFailed   = "rewrite:failed"
)

// EventEmitter notifies whatever surface hosts the editor (the MCP client
// in stdio mode) about state changes that happen outside a request.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// LogEmitter writes events to the log.
type LogEmitter struct {
	Log *logger.Logger
}

func (e LogEmitter) Emit(_ context.Context, event string, data any) {
	e.Log.Debug("event", "event", event, "data", data)
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
// It is safe for concurrent use since async jobs emit from their own goroutines.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Names returns the recorded event names in order.
func (m *MockEmitter) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.Event
	}
	return out
}
