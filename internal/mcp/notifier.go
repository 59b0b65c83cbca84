package mcpserver

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"trainings/internal/logger"
)

// NotificationMethod is the JSON-RPC method of every editor event notification.
const NotificationMethod = "notifications/trainings/event"

// Notifier forwards service events to connected MCP clients. Events emitted
// before a server is attached are only logged.
type Notifier struct {
	mu  sync.RWMutex
	srv *server.MCPServer
	log *logger.Logger
}

func NewNotifier(log *logger.Logger) *Notifier {
	return &Notifier{log: log.With("component", "notifier")}
}

// Attach starts forwarding events to srv.
func (n *Notifier) Attach(srv *server.MCPServer) {
	n.mu.Lock()
	n.srv = srv
	n.mu.Unlock()
}

func (n *Notifier) Emit(_ context.Context, event string, data any) {
	n.log.Debug("event", "event", event, "data", data)

	n.mu.RLock()
	srv := n.srv
	n.mu.RUnlock()
	if srv == nil {
		return
	}
	srv.SendNotificationToAllClients(NotificationMethod, map[string]any{
		"event": event,
		"data":  data,
	})
}
