package mcpserver

import (
	"encoding/json"
	"fmt"

	"trainings/internal/domain"
	"trainings/internal/logger"
	"trainings/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for the training editor.
// It exposes the editing commands as tools so an agent can author trainings.
type Server struct {
	mcp *server.MCPServer
	log *logger.Logger

	sessions  *service.SessionService
	media     *service.MediaService
	rewrite   *service.RewriteService
	principal domain.Principal
}

// Deps holds everything the MCP server needs from the app layer.
type Deps struct {
	Sessions  *service.SessionService
	Media     *service.MediaService
	Rewrite   *service.RewriteService
	Principal domain.Principal
	Notifier  *Notifier // optional; attached to the server once it exists
	Log       *logger.Logger
}

// New creates and configures a new MCP server with all tools, resources and prompts.
func New(deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		log:       log.With("component", "mcp"),
		sessions:  deps.Sessions,
		media:     deps.Media,
		rewrite:   deps.Rewrite,
		principal: deps.Principal,
	}

	s.mcp = server.NewMCPServer(
		"trainings-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTrainingTools()
	s.registerSectionTools()
	s.registerBlockTools()
	s.registerItemTools()
	s.registerMediaTools()
	s.registerReorderTools()
	s.registerResources()
	s.registerPrompts()

	if deps.Notifier != nil {
		deps.Notifier.Attach(s.mcp)
	}
	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("starting stdio server")
	return server.ServeStdio(s.mcp)
}

// commandResult is what every editing tool answers with.
type commandResult struct {
	domain.Result
	TrainingID string `json:"trainingId"`
	ID         string `json:"id,omitempty"`
	Focus      *int   `json:"focus,omitempty"`
	Revision   uint64 `json:"revision"`
	Dirty      bool   `json:"dirty"`
}

func (s *Server) command(sess *service.Session, res domain.Result) commandResult {
	rev, dirty := sess.Revision()
	return commandResult{Result: res, TrainingID: sess.ID, Revision: rev, Dirty: dirty}
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(v bool) *bool { return &v }
